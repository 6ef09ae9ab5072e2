package memory

import (
	"sync"
	"testing"
)

func TestStore_LookupMiss(t *testing.T) {
	s := NewStore()

	val, ok := s.Lookup("Hello", "en", "fr")
	if ok {
		t.Error("Expected miss on empty store")
	}
	if val != "" {
		t.Errorf("Expected empty value, got %q", val)
	}
}

func TestStore_PutLookup(t *testing.T) {
	s := NewStore()

	if err := s.Put("Hello", "en", "fr", "Bonjour"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	val, ok := s.Lookup("Hello", "en", "fr")
	if !ok || val != "Bonjour" {
		t.Errorf("Expected 'Bonjour', got %q (ok=%v)", val, ok)
	}

	// Different language pair is a different entry.
	if _, ok := s.Lookup("Hello", "en", "de"); ok {
		t.Error("Expected miss for different target language")
	}
}

func TestStore_FirstWriterWins(t *testing.T) {
	s := NewStore()

	s.Put("Hello", "en", "fr", "Bonjour")
	s.Put("Hello", "en", "fr", "Salut")

	val, _ := s.Lookup("Hello", "en", "fr")
	if val != "Bonjour" {
		t.Errorf("Expected first write to win, got %q", val)
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", s.Len())
	}
}

func TestStore_NormalizedKeys(t *testing.T) {
	s := NewStore()

	s.Put("  Hello   World ", "en", "fr", "Bonjour le monde")

	// Whitespace reflow hits the same entry.
	val, ok := s.Lookup("Hello World", "en", "fr")
	if !ok || val != "Bonjour le monde" {
		t.Errorf("Expected normalized-key hit, got %q (ok=%v)", val, ok)
	}

	// Region variants and aliases collapse too.
	val, ok = s.Lookup("Hello World", "en_US", "fr-FR")
	if !ok || val != "Bonjour le monde" {
		t.Errorf("Expected language-normalized hit, got %q (ok=%v)", val, ok)
	}
}

func TestStore_EmptySourceLang(t *testing.T) {
	s := NewStore()

	s.Put("Hello", "", "fr", "Bonjour")

	val, ok := s.Lookup("Hello", "", "fr")
	if !ok || val != "Bonjour" {
		t.Errorf("Expected hit with empty source language, got %q (ok=%v)", val, ok)
	}

	entries := s.Entries()
	if _, ok := entries["any-fr:Hello"]; !ok {
		t.Errorf("Expected 'any' source marker in key, got %v", entries)
	}
}

func TestStore_EntriesCopy(t *testing.T) {
	s := NewStore()
	s.Put("Hello", "en", "fr", "Bonjour")

	entries := s.Entries()
	entries["en-fr:Hello"] = "tampered"

	val, _ := s.Lookup("Hello", "en", "fr")
	if val != "Bonjour" {
		t.Error("Entries() must return a copy")
	}
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Put("Hello", "en", "fr", "Bonjour")
			s.Lookup("Hello", "en", "fr")
		}()
	}
	wg.Wait()

	if s.Len() != 1 {
		t.Errorf("Expected 1 entry after concurrent puts, got %d", s.Len())
	}
}
