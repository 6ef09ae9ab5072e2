package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/artealabs/htseg"
)

// FileFormat is the JSON structure of a persisted translation memory
// (global_memory.json): the normalized-key → translation mapping plus
// run metadata.
type FileFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	RunID      string            `json:"run_id,omitempty"`
	Entries    map[string]string `json:"entries"`
}

const fileFormatVersion = "1.0"

// LoadFile reads a persisted translation memory. A missing file yields an
// empty memory. An unreadable or corrupt file also yields an empty,
// usable memory together with a MemoryCorruptionError so the caller can log
// the loss; the error is never fatal to the run.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return NewStore(), nil
		}
		return NewStore(), &htseg.MemoryCorruptionError{Path: path, Cause: err}
	}

	var ff FileFormat
	if err := json.Unmarshal(data, &ff); err == nil && ff.Entries != nil {
		return newStoreFrom(ff.Entries), nil
	}

	// Older memory files are a bare key → translation map.
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err == nil {
		return newStoreFrom(flat), nil
	}

	return NewStore(), &htseg.MemoryCorruptionError{Path: path, Cause: fmt.Errorf("not a memory mapping")}
}

// SaveFile writes the memory to path, creating parent directories as
// needed. The path is provided by the caller and is intentionally
// user-controlled.
func SaveFile(path string, s *Store, runID string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating memory directory: %w", err)
		}
	}

	ff := FileFormat{
		Version:    fileFormatVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		RunID:      runID,
		Entries:    s.Entries(),
	}

	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating memory file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ff); err != nil {
		return fmt.Errorf("encoding memory: %w", err)
	}
	return nil
}
