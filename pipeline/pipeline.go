// Package pipeline sequences the per-document extract → translate →
// refine → merge life cycle and the batch driver around it. The core
// packages do the heavy lifting; this one is plain sequencing.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/artealabs/htseg"
	"github.com/artealabs/htseg/dom"
	"github.com/artealabs/htseg/extract"
	"github.com/artealabs/htseg/memory"
	"github.com/artealabs/htseg/merge"
)

// State tracks a document through its life cycle. States advance forward
// only; Final and Failed are terminal.
type State int

const (
	StatePending State = iota
	StateParsed
	StateExtracted
	StateTranslated
	StateMerged
	StateFinal
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateParsed:
		return "parsed"
	case StateExtracted:
		return "extracted"
	case StateTranslated:
		return "translated"
	case StateMerged:
		return "merged"
	case StateFinal:
		return "final"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stats counts what happened to a document's segments.
type Stats struct {
	Segments      int  // translatable segments found
	FromMemory    int  // translations served by the shared memory
	Translated    int  // translations produced by the provider
	PassedThrough int  // segments outside the declared source languages
	Refined       int  // translations changed by the refinement pass
	Partial       bool // provider failure left some segments untranslated
}

// Document is the per-document record the pipeline maintains. A failed
// document carries its error; it never blocks other documents in a batch.
type Document struct {
	Name    string
	Path    string
	State   State
	Err     error
	Stats   Stats
	Outputs []string // files written for this document
}

// Config configures a pipeline run.
type Config struct {
	PrimaryLang   string
	SecondaryLang string
	TargetLang    string
	OutDir        string

	Provider htseg.Provider // nil: segments pass through untranslated
	Refiner  htseg.Refiner  // nil: refinement pass disabled
	Memory   memory.Memory  // nil: no cross-document caching

	BatchSize int  // texts per provider call (default 100)
	Combined  bool // also emit the combined two-variant merge

	Log io.Writer // progress output (default: discard)
}

// Pipeline runs single documents through the Extract → Merge life cycle.
type Pipeline struct {
	cfg Config
}

// New creates a pipeline with defaults applied.
func New(cfg Config) *Pipeline {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Log == nil {
		cfg.Log = io.Discard
	}
	return &Pipeline{cfg: cfg}
}

// ProcessFile runs one HTML file through the full life cycle. All errors
// are recorded on the returned document; they are per-document and never
// corrupt the shared memory.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) *Document {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := &Document{Name: name, Path: path}

	data, err := os.ReadFile(path) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return p.fail(doc, fmt.Errorf("reading %s: %w", path, err))
	}
	p.Process(ctx, doc, string(data))
	return doc
}

// Process runs the life cycle over raw HTML content, mutating doc.
func (p *Pipeline) Process(ctx context.Context, doc *Document, content string) {
	parsed, err := dom.ParseString(content)
	if err != nil {
		p.fail(doc, err)
		return
	}
	doc.State = StateParsed

	res := extract.Extract(parsed, extract.Options{
		PrimaryLang:   p.cfg.PrimaryLang,
		SecondaryLang: p.cfg.SecondaryLang,
	})
	doc.State = StateExtracted
	doc.Stats.Segments = len(res.Segments)
	p.logf("%s: %d segments extracted\n", doc.Name, len(res.Segments))

	dir := filepath.Join(p.cfg.OutDir, doc.Name)
	if err := WriteArtifacts(dir, res); err != nil {
		p.fail(doc, err)
		return
	}
	doc.Outputs = append(doc.Outputs,
		filepath.Join(dir, FlatFile),
		filepath.Join(dir, StructuredFile),
		filepath.Join(dir, SentencesFile),
		filepath.Join(dir, StrippedFile),
	)

	translations := p.translate(ctx, doc, res.Segments)
	doc.State = StateTranslated
	if err := WriteJSON(filepath.Join(dir, TranslationsFile), translations); err != nil {
		p.fail(doc, err)
		return
	}
	doc.Outputs = append(doc.Outputs, filepath.Join(dir, TranslationsFile))

	var refined map[string]string
	if p.cfg.Refiner != nil {
		refined = p.refine(ctx, doc, res.Segments, translations)
		if refined != nil {
			if err := WriteJSON(filepath.Join(dir, RefinedFile), refined); err != nil {
				p.fail(doc, err)
				return
			}
			doc.Outputs = append(doc.Outputs, filepath.Join(dir, RefinedFile))
		}
	}

	// One independent merge per translation source.
	merges := []struct {
		source       string
		translations map[string]string
	}{
		{"translated", translations},
	}
	if refined != nil {
		merges = append(merges, struct {
			source       string
			translations map[string]string
		}{"refined", refined})
	}

	opts := merge.Options{TargetLang: p.cfg.TargetLang}
	for _, m := range merges {
		final, err := merge.Merge(res.Stripped, m.translations, opts)
		if err != nil {
			p.fail(doc, err)
			return
		}
		out := filepath.Join(dir, FinalFile(m.source, p.cfg.TargetLang))
		if err := os.WriteFile(out, []byte(final), 0o600); err != nil {
			p.fail(doc, fmt.Errorf("writing merged document: %w", err))
			return
		}
		doc.Outputs = append(doc.Outputs, out)
	}

	if p.cfg.Combined && refined != nil {
		final, err := merge.MergeCombined(res.Stripped, translations, refined, opts)
		if err != nil {
			p.fail(doc, err)
			return
		}
		out := filepath.Join(dir, FinalFile("combined", p.cfg.TargetLang))
		if err := os.WriteFile(out, []byte(final), 0o600); err != nil {
			p.fail(doc, fmt.Errorf("writing combined document: %w", err))
			return
		}
		doc.Outputs = append(doc.Outputs, out)
	}

	doc.State = StateMerged
	doc.State = StateFinal
}

// translate builds the segment id → translated text map, consulting the
// shared memory first and batching misses through the provider. Segments
// detected outside the declared source languages pass through unchanged,
// as do all segments of a failed provider batch (the document is then
// marked partial rather than failed).
func (p *Pipeline) translate(ctx context.Context, doc *Document, segments []htseg.Segment) map[string]string {
	translations := make(map[string]string, len(segments))

	allowed := make(map[string]bool)
	for _, lang := range []string{p.cfg.PrimaryLang, p.cfg.SecondaryLang} {
		if lang != "" {
			allowed[htseg.NormalizeLangCode(lang)] = true
		}
	}

	var misses []*htseg.Segment
	for i := range segments {
		seg := &segments[i]
		if len(allowed) > 0 && seg.DetectedLanguage != "" && !allowed[seg.DetectedLanguage] {
			translations[seg.ID] = seg.SourceText
			doc.Stats.PassedThrough++
			continue
		}
		if p.cfg.Memory != nil {
			if cached, ok := p.cfg.Memory.Lookup(seg.SourceText, seg.DetectedLanguage, p.cfg.TargetLang); ok {
				translations[seg.ID] = cached
				doc.Stats.FromMemory++
				continue
			}
		}
		misses = append(misses, seg)
	}

	if p.cfg.Provider == nil {
		for _, seg := range misses {
			translations[seg.ID] = seg.SourceText
		}
		return translations
	}

	for start := 0; start < len(misses); start += p.cfg.BatchSize {
		end := start + p.cfg.BatchSize
		if end > len(misses) {
			end = len(misses)
		}
		batch := misses[start:end]

		texts := make([]string, len(batch))
		for i, seg := range batch {
			texts[i] = seg.SourceText
		}

		results, err := p.cfg.Provider.Translate(ctx, htseg.Request{
			Texts:      texts,
			SourceLang: p.cfg.PrimaryLang,
			TargetLang: p.cfg.TargetLang,
		})
		if err == nil && len(results) != len(batch) {
			err = &htseg.CountMismatchError{Expected: len(batch), Got: len(results)}
		}
		if err != nil {
			// Fall back to source text for this batch; the document is
			// partially translated, not failed.
			p.logf("%s: translation batch failed, keeping source text: %v\n", doc.Name, err)
			doc.Stats.Partial = true
			for _, seg := range batch {
				translations[seg.ID] = seg.SourceText
			}
			continue
		}

		for i, seg := range batch {
			translations[seg.ID] = results[i]
			doc.Stats.Translated++
			if p.cfg.Memory != nil {
				_ = p.cfg.Memory.Put(seg.SourceText, seg.DetectedLanguage, p.cfg.TargetLang, results[i])
			}
		}
	}

	return translations
}

// refine runs the refinement collaborator over the machine translations.
// A refinement failure is logged and skipped, never fatal.
func (p *Pipeline) refine(ctx context.Context, doc *Document, segments []htseg.Segment, translations map[string]string) map[string]string {
	items := make([]htseg.RefineItem, 0, len(segments))
	for i := range segments {
		seg := &segments[i]
		items = append(items, htseg.RefineItem{
			ID:          seg.ID,
			Source:      seg.SourceText,
			Translation: translations[seg.ID],
			Sentences:   seg.Sentences(),
		})
	}

	refined, err := p.cfg.Refiner.Refine(ctx, htseg.RefineRequest{
		Items:         items,
		PrimaryLang:   p.cfg.PrimaryLang,
		SecondaryLang: p.cfg.SecondaryLang,
		TargetLang:    p.cfg.TargetLang,
	})
	if err != nil {
		p.logf("%s: refinement failed, keeping machine translations: %v\n", doc.Name, err)
		return nil
	}

	// The collaborator contract fills omitted ids, but guard anyway so a
	// merge never sees an incomplete map.
	out := make(map[string]string, len(translations))
	for id, current := range translations {
		if improved, ok := refined[id]; ok {
			out[id] = improved
			if improved != current {
				doc.Stats.Refined++
			}
		} else {
			out[id] = current
		}
	}
	return out
}

func (p *Pipeline) fail(doc *Document, err error) *Document {
	doc.State = StateFailed
	doc.Err = err
	p.logf("%s: failed: %v\n", doc.Name, err)
	return doc
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	fmt.Fprintf(p.cfg.Log, format, args...)
}
