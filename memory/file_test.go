package memory

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/artealabs/htseg"
)

func TestLoadFile_Missing(t *testing.T) {
	s, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Missing file should not error: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty store, got %d entries", s.Len())
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global_memory.json")

	s := NewStore()
	s.Put("Hello", "en", "fr", "Bonjour")
	s.Put("World", "en", "fr", "Monde")

	if err := SaveFile(path, s, "run-123"); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", loaded.Len())
	}
	if val, _ := loaded.Lookup("Hello", "en", "fr"); val != "Bonjour" {
		t.Errorf("Expected 'Bonjour', got %q", val)
	}
}

func TestSaveFile_Envelope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global_memory.json")

	s := NewStore()
	s.Put("Hello", "en", "fr", "Bonjour")

	if err := SaveFile(path, s, "run-123"); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	var ff FileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if ff.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %q", ff.Version)
	}
	if ff.RunID != "run-123" {
		t.Errorf("Expected run id, got %q", ff.RunID)
	}
	if ff.ExportedAt == "" {
		t.Error("Expected export timestamp")
	}
	if ff.Entries["en-fr:Hello"] != "Bonjour" {
		t.Errorf("Unexpected entries: %v", ff.Entries)
	}
}

// Older memory files are a bare key -> translation map without the envelope.
func TestLoadFile_BareMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old_memory.json")
	os.WriteFile(path, []byte(`{"en-fr:Hello": "Bonjour"}`), 0644)

	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if val, _ := s.Lookup("Hello", "en", "fr"); val != "Bonjour" {
		t.Errorf("Expected 'Bonjour', got %q", val)
	}
}

func TestLoadFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	os.WriteFile(path, []byte(`{not json at all`), 0644)

	s, err := LoadFile(path)
	if err == nil {
		t.Fatal("Expected MemoryCorruptionError")
	}

	var corrupt *htseg.MemoryCorruptionError
	if !errors.As(err, &corrupt) {
		t.Fatalf("Expected MemoryCorruptionError, got %T: %v", err, err)
	}
	if corrupt.Path != path {
		t.Errorf("Expected path %s, got %s", path, corrupt.Path)
	}

	// The store is still usable: the run continues with an empty memory.
	if s == nil || s.Len() != 0 {
		t.Error("Expected empty usable store alongside the error")
	}
	if err := s.Put("Hello", "en", "fr", "Bonjour"); err != nil {
		t.Errorf("Store after corruption should accept writes: %v", err)
	}
}

func TestSaveFile_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "memory.json")

	s := NewStore()
	s.Put("Hello", "en", "fr", "Bonjour")

	if err := SaveFile(path, s, ""); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected file to exist: %v", err)
	}
}
