// Package memory provides the translation memory: a cross-document cache
// from (normalized source text, source language, target language) to
// translated text, shared by reference across every document in a batch.
package memory

import (
	"sync"

	"github.com/artealabs/htseg"
)

// Memory is the translation memory contract. Entries are additive only:
// a second Put for an existing key keeps the stored value (first writer
// wins), and nothing is ever evicted within a run.
type Memory interface {
	// Lookup returns the cached translation for a source text and language
	// pair, or false when the memory holds no entry.
	Lookup(text, srcLang, tgtLang string) (string, bool)

	// Put records a translation. Existing entries are never overwritten.
	Put(text, srcLang, tgtLang, translation string) error
}

// Store is the in-process translation memory. Access is serialized with a
// mutex so lookups and puts stay linearizable per key even if a batch
// driver introduces concurrency.
type Store struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewStore creates an empty translation memory.
func NewStore() *Store {
	return &Store{entries: make(map[string]string)}
}

// newStoreFrom wraps already-normalized key/translation pairs, as read from
// a persisted memory file.
func newStoreFrom(entries map[string]string) *Store {
	if entries == nil {
		entries = make(map[string]string)
	}
	return &Store{entries: entries}
}

// Lookup implements Memory.
func (s *Store) Lookup(text, srcLang, tgtLang string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[htseg.MemoryKey(text, srcLang, tgtLang)]
	return v, ok
}

// Put implements Memory. The first writer wins: a repeated put for the same
// key leaves the stored translation unchanged.
func (s *Store) Put(text, srcLang, tgtLang, translation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := htseg.MemoryKey(text, srcLang, tgtLang)
	if _, exists := s.entries[key]; exists {
		return nil
	}
	s.entries[key] = translation
	return nil
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a copy of all entries, keyed by normalized memory key.
func (s *Store) Entries() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Verify Store implements Memory
var _ Memory = (*Store)(nil)
