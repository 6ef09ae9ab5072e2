package htseg

// DiffResult represents the difference between the segments of two document
// versions. Segment identity is the normalized source text, so whitespace
// reflow never counts as a change.
type DiffResult struct {
	// Added contains segments that are new (not in the previous version).
	Added []Segment

	// Removed contains segments that were removed (not in the new version).
	Removed []Segment

	// Unchanged contains segments present in both versions.
	Unchanged []Segment

	// Modified contains pairs where the text changed but the structural
	// location suggests the same element.
	Modified []ModifiedSegment
}

// ModifiedSegment represents a segment whose text was modified in place.
type ModifiedSegment struct {
	Old Segment
	New Segment
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Added     int
	Removed   int
	Unchanged int
	Modified  int
}

// Stats returns summary statistics for the diff.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// HasChanges returns true if there are any differences.
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// NeedsTranslation returns the segments that need to be (re)translated:
// new segments and the new side of modified ones.
func (d *DiffResult) NeedsTranslation() []Segment {
	result := make([]Segment, 0, len(d.Added)+len(d.Modified))
	result = append(result, d.Added...)
	for _, m := range d.Modified {
		result = append(result, m.New)
	}
	return result
}

// DiffSegments compares two segment sets by normalized source text. This is
// the basis for incremental translation: only translate what changed.
func DiffSegments(oldSegs, newSegs []Segment) *DiffResult {
	result := &DiffResult{}

	oldByText := make(map[string]Segment)
	newByText := make(map[string]Segment)
	for _, seg := range oldSegs {
		oldByText[NormalizeText(seg.SourceText)] = seg
	}
	for _, seg := range newSegs {
		newByText[NormalizeText(seg.SourceText)] = seg
	}

	for _, seg := range oldSegs {
		if _, exists := newByText[NormalizeText(seg.SourceText)]; exists {
			result.Unchanged = append(result.Unchanged, seg)
		} else {
			result.Removed = append(result.Removed, seg)
		}
	}
	for _, seg := range newSegs {
		if _, exists := oldByText[NormalizeText(seg.SourceText)]; !exists {
			result.Added = append(result.Added, seg)
		}
	}

	return result
}

// DiffSegmentsByLocation refines DiffSegments by pairing removed and added
// segments that occupy the same structural location (same id, or same
// element path and attribute), reporting them as modified.
func DiffSegmentsByLocation(oldSegs, newSegs []Segment) *DiffResult {
	result := DiffSegments(oldSegs, newSegs)

	if len(result.Added) == 0 || len(result.Removed) == 0 {
		return result
	}

	addedMatched := make(map[int]bool)
	removedMatched := make(map[int]bool)

	for ri, removed := range result.Removed {
		for ai, added := range result.Added {
			if addedMatched[ai] {
				continue
			}
			sameID := removed.ID == added.ID
			samePlace := removed.Location.Path == added.Location.Path &&
				removed.Location.Attr == added.Location.Attr
			if sameID || samePlace {
				result.Modified = append(result.Modified, ModifiedSegment{
					Old: removed,
					New: added,
				})
				addedMatched[ai] = true
				removedMatched[ri] = true
				break
			}
		}
	}

	var added []Segment
	for i, seg := range result.Added {
		if !addedMatched[i] {
			added = append(added, seg)
		}
	}
	result.Added = added

	var removed []Segment
	for i, seg := range result.Removed {
		if !removedMatched[i] {
			removed = append(removed, seg)
		}
	}
	result.Removed = removed

	return result
}
