package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/artealabs/htseg"
	"github.com/artealabs/htseg/memory"
)

// BatchConfig configures a multi-document run.
type BatchConfig struct {
	Pipeline Config

	MemoryPath   string // path of the persisted translation memory ("" disables)
	UpdateMemory bool   // save the memory back after the run
}

// Summary reports the outcome of a batch run.
type Summary struct {
	RunID     string
	Processed int
	Failed    int
	Partial   int
	Documents []*Document
	Elapsed   time.Duration
}

// Batch runs a set of documents through one pipeline, sharing a single
// translation memory across all of them.
type Batch struct {
	cfg      BatchConfig
	pipeline *Pipeline
	store    *memory.Store
	runID    string
	log      io.Writer
}

// NewBatch creates a batch run. When a memory path is configured the file
// is loaded up front; a corrupt file is reported on the log and the run
// continues with an empty memory.
func NewBatch(cfg BatchConfig) *Batch {
	if cfg.Pipeline.Log == nil {
		cfg.Pipeline.Log = io.Discard
	}

	b := &Batch{
		cfg:   cfg,
		runID: uuid.New().String(),
		log:   cfg.Pipeline.Log,
	}

	if cfg.MemoryPath != "" {
		store, err := memory.LoadFile(cfg.MemoryPath)
		if err != nil {
			var corrupt *htseg.MemoryCorruptionError
			if errors.As(err, &corrupt) {
				fmt.Fprintf(b.log, "memory file %s is corrupt, starting empty: %v\n", cfg.MemoryPath, err)
			} else {
				fmt.Fprintf(b.log, "loading memory %s failed, starting empty: %v\n", cfg.MemoryPath, err)
			}
			store = memory.NewStore()
		}
		b.store = store
		cfg.Pipeline.Memory = store
	}

	b.pipeline = New(cfg.Pipeline)
	return b
}

// RunID returns the unique identifier of this batch run.
func (b *Batch) RunID() string { return b.runID }

// Memory exposes the shared store, nil when no memory path was configured.
func (b *Batch) Memory() *memory.Store { return b.store }

// Run processes the given files sequentially. A failed document is recorded
// and skipped; it never stops the batch. When UpdateMemory is set the shared
// memory is saved once, after all documents.
func (b *Batch) Run(ctx context.Context, paths []string) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: b.runID}

	for _, path := range paths {
		doc := b.pipeline.ProcessFile(ctx, path)
		summary.Documents = append(summary.Documents, doc)
		if doc.State == StateFailed {
			summary.Failed++
		} else {
			summary.Processed++
			if doc.Stats.Partial {
				summary.Partial++
			}
		}
	}

	if b.cfg.UpdateMemory && b.store != nil && b.cfg.MemoryPath != "" {
		if err := memory.SaveFile(b.cfg.MemoryPath, b.store, b.runID); err != nil {
			return summary, fmt.Errorf("saving memory: %w", err)
		}
	}

	summary.Elapsed = time.Since(start)
	return summary, nil
}

// Report writes a human-readable summary of the run.
func (s *Summary) Report(w io.Writer) {
	fmt.Fprintf(w, "run %s: %d processed, %d failed", s.RunID, s.Processed, s.Failed)
	if s.Partial > 0 {
		fmt.Fprintf(w, " (%d partial)", s.Partial)
	}
	fmt.Fprintf(w, " in %s\n", s.Elapsed.Round(time.Millisecond))

	for _, doc := range s.Documents {
		if doc.State == StateFailed {
			fmt.Fprintf(w, "  %s: failed: %v\n", doc.Name, doc.Err)
			continue
		}
		st := doc.Stats
		fmt.Fprintf(w, "  %s: %d segments (%d translated, %d from memory, %d passed through",
			doc.Name, st.Segments, st.Translated, st.FromMemory, st.PassedThrough)
		if st.Refined > 0 {
			fmt.Fprintf(w, ", %d refined", st.Refined)
		}
		fmt.Fprint(w, ")")
		if st.Partial {
			fmt.Fprint(w, " [partial]")
		}
		fmt.Fprintln(w)
	}
}

// DefaultMemoryPath places the persisted memory next to the per-document
// output directories.
func DefaultMemoryPath(outDir string) string {
	return filepath.Join(outDir, MemoryFile)
}
