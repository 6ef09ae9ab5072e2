package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/artealabs/htseg"
	"github.com/artealabs/htseg/extract"
)

// Artifact file names, produced per document under the output directory.
const (
	FlatFile         = "translatable_flat.json"
	StructuredFile   = "translatable_structured.json"
	SentencesFile    = "translatable_flat_sentences.json"
	StrippedFile     = "non_translatable.html"
	TranslationsFile = "translations.json"
	RefinedFile      = "openai_translations.json"
)

// MemoryFile is the batch-level persisted translation memory.
const MemoryFile = "global_memory.json"

// FinalFile names a merged output for a translation source, e.g.
// final_translated_FR.html.
func FinalFile(source, lang string) string {
	return fmt.Sprintf("final_%s_%s.html", source, strings.ToUpper(htseg.NormalizeLangCode(lang)))
}

// StructuredSegment is the JSON shape of one segment in
// translatable_structured.json: the segment with its full context.
type StructuredSegment struct {
	Text             string `json:"text"`
	Kind             string `json:"kind"`
	Path             string `json:"path"`
	Attr             string `json:"attr,omitempty"`
	DetectedLanguage string `json:"detected_language,omitempty"`
}

// WriteArtifacts writes the extraction artifacts for one document: the flat
// and structured segment maps, the sentence decomposition, and the stripped
// document.
func WriteArtifacts(dir string, res *extract.Result) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	flat := make(map[string]string, len(res.Segments))
	structured := make(map[string]StructuredSegment, len(res.Segments))
	sentences := make(map[string][]string, len(res.Segments))
	for i := range res.Segments {
		seg := &res.Segments[i]
		flat[seg.ID] = seg.SourceText
		structured[seg.ID] = StructuredSegment{
			Text:             seg.SourceText,
			Kind:             string(seg.Kind),
			Path:             seg.Location.Path,
			Attr:             seg.Location.Attr,
			DetectedLanguage: seg.DetectedLanguage,
		}
		sentences[seg.ID] = seg.Sentences()
	}

	if err := WriteJSON(filepath.Join(dir, FlatFile), flat); err != nil {
		return err
	}
	if err := WriteJSON(filepath.Join(dir, StructuredFile), structured); err != nil {
		return err
	}
	if err := WriteJSON(filepath.Join(dir, SentencesFile), sentences); err != nil {
		return err
	}

	stripped, err := res.Stripped.HTML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, StrippedFile), []byte(stripped), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", StrippedFile, err)
	}
	return nil
}

// WriteJSON writes v to path as indented JSON.
// The path is provided by the caller and is intentionally user-controlled.
func WriteJSON(path string, v interface{}) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadTranslations reads a segment id → translated text mapping, as
// produced by the translation or refinement collaborator.
func ReadTranslations(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("reading translations: %w", err)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return m, nil
}
