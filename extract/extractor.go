// Package extract walks a parsed document, classifies every text node and
// attribute value, and produces the segment maps plus the stripped document
// consumed by the merge engine.
package extract

import (
	"fmt"
	"strings"

	"github.com/artealabs/htseg"
	"github.com/artealabs/htseg/dom"
)

// Options configures an extraction pass.
type Options struct {
	// PrimaryLang is the document's declared primary source language.
	PrimaryLang string
	// SecondaryLang is an optional second source language.
	SecondaryLang string
}

// Result holds everything one extraction pass produces.
type Result struct {
	// Segments are the translatable units, in document order.
	Segments []htseg.Segment
	// Stripped is the document with every segment's content replaced by its
	// placeholder token (the segment id). Immutable once produced.
	Stripped *dom.Document
	// SkipCounts tallies skip verdicts by reason, for reporting.
	SkipCounts map[htseg.Reason]int
}

// ByID returns the segments indexed by id.
func (r *Result) ByID() map[string]*htseg.Segment {
	m := make(map[string]*htseg.Segment, len(r.Segments))
	for i := range r.Segments {
		m[r.Segments[i].ID] = &r.Segments[i]
	}
	return m
}

// Extract classifies every text node and attribute value of doc and returns
// the segments plus the stripped document. The walk is deterministic
// (document order, attributes in source order) and ids derive from structural
// location, so extraction is idempotent on a fixed document. The caller's
// document is never modified: all placeholder substitution happens on an
// internal clone.
func Extract(doc *dom.Document, opts Options) *Result {
	working := doc.Clone()
	res := &Result{
		Stripped:   working,
		SkipCounts: make(map[htseg.Reason]int),
	}

	nonProse := func(tag string) bool { return htseg.NonProseTags[tag] }

	for idx := range working.Nodes {
		node := &working.Nodes[idx]
		switch node.Type {
		case dom.ElementNode:
			inNonProse := working.HasAncestor(idx, nonProse)
			for ai := range node.Attr {
				attr := &node.Attr[ai]
				ctx := htseg.ClassifyContext{
					AttrName:      attr.Key,
					ElementTag:    strings.ToLower(node.Data),
					InNonProse:    inNonProse,
					PrimaryLang:   opts.PrimaryLang,
					SecondaryLang: opts.SecondaryLang,
				}
				verdict := htseg.Classify(attr.Val, ctx)
				if !verdict.Translatable {
					res.SkipCounts[verdict.Reason]++
					continue
				}
				id := fmt.Sprintf("SEG_%d_A_%s", idx, attr.Key)
				res.Segments = append(res.Segments, htseg.Segment{
					ID:         id,
					SourceText: attr.Val,
					Kind:       htseg.KindAttribute,
					Location: htseg.Location{
						Path: working.Path(idx),
						Attr: attr.Key,
						Node: idx,
					},
					DetectedLanguage: htseg.DetectLanguage(attr.Val, htseg.AttrLangHint(attr.Key), opts.PrimaryLang),
				})
				attr.Val = id
			}

		case dom.TextNode:
			parent := node.Parent
			ctx := htseg.ClassifyContext{
				InNonProse:    working.HasAncestor(idx, nonProse),
				PrimaryLang:   opts.PrimaryLang,
				SecondaryLang: opts.SecondaryLang,
			}
			if parent != -1 && working.Nodes[parent].Type == dom.ElementNode {
				ctx.ElementTag = strings.ToLower(working.Nodes[parent].Data)
			}
			verdict := htseg.Classify(node.Data, ctx)
			if !verdict.Translatable {
				res.SkipCounts[verdict.Reason]++
				continue
			}
			owner := parent
			if owner == -1 {
				owner = idx
			}
			id := fmt.Sprintf("SEG_%d_T%d", owner, working.TextOrdinal(idx))
			res.Segments = append(res.Segments, htseg.Segment{
				ID:         id,
				SourceText: node.Data,
				Kind:       htseg.KindTextNode,
				Location: htseg.Location{
					Path: working.Path(idx),
					Node: idx,
				},
				DetectedLanguage: htseg.DetectLanguage(node.Data, "", opts.PrimaryLang),
			})
			node.Data = id
		}
	}

	return res
}
