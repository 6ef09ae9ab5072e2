package merge

import (
	"errors"
	"strings"
	"testing"

	"github.com/artealabs/htseg"
	"github.com/artealabs/htseg/dom"
	"github.com/artealabs/htseg/extract"
)

func extractFixture(t *testing.T, content string) *extract.Result {
	t.Helper()
	doc, err := dom.ParseString(content)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	return extract.Extract(doc, extract.Options{PrimaryLang: "en"})
}

func translationsFor(res *extract.Result, translate func(string) string) map[string]string {
	m := make(map[string]string, len(res.Segments))
	for _, seg := range res.Segments {
		m[seg.ID] = translate(seg.SourceText)
	}
	return m
}

func TestMerge_Basic(t *testing.T) {
	res := extractFixture(t, `<p>Hello</p><img alt="Company logo">`)

	translations := translationsFor(res, func(s string) string {
		switch s {
		case "Hello":
			return "Bonjour"
		case "Company logo":
			return "Logo de l'entreprise"
		}
		return s
	})

	out, err := Merge(res.Stripped, translations, Options{})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if !strings.Contains(out, "Bonjour") {
		t.Error("expected translated text node")
	}
	if !strings.Contains(out, "Logo de l&#39;entreprise") && !strings.Contains(out, "Logo de l'entreprise") {
		t.Errorf("expected translated attribute, got: %s", out)
	}
	if strings.Contains(out, "SEG_") {
		t.Errorf("placeholder left in output: %s", out)
	}
}

func TestMerge_MissingSegment(t *testing.T) {
	res := extractFixture(t, `<p>Hello</p><p>World</p>`)

	// Drop one translation.
	translations := translationsFor(res, func(s string) string { return s })
	var dropped string
	for id := range translations {
		dropped = id
		break
	}
	delete(translations, dropped)

	_, err := Merge(res.Stripped, translations, Options{})
	if err == nil {
		t.Fatal("expected MissingSegmentError")
	}

	var missing *htseg.MissingSegmentError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingSegmentError, got %T: %v", err, err)
	}
	if len(missing.IDs) != 1 || missing.IDs[0] != dropped {
		t.Errorf("expected missing id %s, got %v", dropped, missing.IDs)
	}
}

func TestMerge_StructuralIntegrity(t *testing.T) {
	res := extractFixture(t, `<div class="wrap" data-test-id="main"><p>Hello</p><script>var a = 1;</script></div>`)

	out, err := Merge(res.Stripped, translationsFor(res, func(s string) string { return "X " + s }), Options{})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	// Non-translatable attributes and content untouched.
	if !strings.Contains(out, `class="wrap"`) || !strings.Contains(out, `data-test-id="main"`) {
		t.Errorf("non-translatable attributes altered: %s", out)
	}
	if !strings.Contains(out, "var a = 1;") {
		t.Errorf("script content altered: %s", out)
	}
	if !strings.Contains(out, "<div") || !strings.Contains(out, "</div>") {
		t.Errorf("element nesting altered: %s", out)
	}
}

// Two merges from different translation sources against the same stripped
// document are wholly independent.
func TestMerge_MultiSourceIndependent(t *testing.T) {
	res := extractFixture(t, `<p>Hello</p>`)

	machine := translationsFor(res, func(string) string { return "Bonjour" })
	refined := translationsFor(res, func(string) string { return "Salut" })

	first, err := Merge(res.Stripped, machine, Options{})
	if err != nil {
		t.Fatalf("first merge failed: %v", err)
	}
	second, err := Merge(res.Stripped, refined, Options{})
	if err != nil {
		t.Fatalf("second merge failed: %v", err)
	}

	if !strings.Contains(first, "Bonjour") || strings.Contains(first, "Salut") {
		t.Errorf("first merge contaminated: %s", first)
	}
	if !strings.Contains(second, "Salut") || strings.Contains(second, "Bonjour") {
		t.Errorf("second merge contaminated: %s", second)
	}
}

func TestMergeCombined(t *testing.T) {
	res := extractFixture(t, `<p>Hello</p><p>World</p>`)

	primary := translationsFor(res, func(s string) string {
		if s == "Hello" {
			return "Bonjour"
		}
		return "Monde"
	})
	secondary := translationsFor(res, func(s string) string {
		if s == "Hello" {
			return "Salut"
		}
		return "Monde" // agrees with primary
	})

	out, err := MergeCombined(res.Stripped, primary, secondary, Options{})
	if err != nil {
		t.Fatalf("MergeCombined failed: %v", err)
	}

	if !strings.Contains(out, "Bonjour / Salut") {
		t.Errorf("expected combined variant for differing translations: %s", out)
	}
	if !strings.Contains(out, "Monde") || strings.Contains(out, "Monde / Monde") {
		t.Errorf("agreeing translations should appear once: %s", out)
	}
}

// Combined completeness is checked against the primary source only: ids the
// secondary lacks fall back to the primary text.
func TestMergeCombined_SecondaryIncomplete(t *testing.T) {
	res := extractFixture(t, `<p>Hello</p>`)

	primary := translationsFor(res, func(string) string { return "Bonjour" })

	out, err := MergeCombined(res.Stripped, primary, map[string]string{}, Options{})
	if err != nil {
		t.Fatalf("MergeCombined failed: %v", err)
	}
	if !strings.Contains(out, "Bonjour") {
		t.Errorf("expected primary fallback: %s", out)
	}
}

func TestMerge_SetsDocumentLang(t *testing.T) {
	res := extractFixture(t, `<html><body><p>Hello</p></body></html>`)

	out, err := Merge(res.Stripped, translationsFor(res, func(string) string { return "مرحبا" }), Options{TargetLang: "ar"})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if !strings.Contains(out, `lang="ar"`) {
		t.Errorf("expected lang attribute: %s", out)
	}
	if !strings.Contains(out, `dir="rtl"`) {
		t.Errorf("expected rtl direction for Arabic: %s", out)
	}
}

func TestMerge_StrippedUnmodified(t *testing.T) {
	res := extractFixture(t, `<p>Hello</p>`)
	before, _ := res.Stripped.HTML()

	if _, err := Merge(res.Stripped, translationsFor(res, func(string) string { return "Bonjour" }), Options{}); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	after, _ := res.Stripped.HTML()
	if before != after {
		t.Error("merge modified the stripped document")
	}
}

func TestPlaceholders(t *testing.T) {
	res := extractFixture(t, `<p>Hello</p><img alt="Company logo">`)

	ids := Placeholders(res.Stripped)
	if len(ids) != 2 {
		t.Fatalf("expected 2 placeholders, got %d: %v", len(ids), ids)
	}
	for _, id := range ids {
		if !strings.HasPrefix(id, "SEG_") {
			t.Errorf("unexpected placeholder shape: %s", id)
		}
	}
}

func TestPlaceholderIn(t *testing.T) {
	tests := []struct {
		val  string
		want string
	}{
		{"SEG_12_T0", "SEG_12_T0"},
		{"  SEG_12_T0 ", "SEG_12_T0"},
		{"SEG_5_A_alt", "SEG_5_A_alt"},
		{"SEG_5_A_data-fr-label", "SEG_5_A_data-fr-label"},
		{"SEG_12_T0 trailing", ""},
		{"not a placeholder", ""},
		{"SEG_x_T0", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := placeholderIn(tt.val); got != tt.want {
			t.Errorf("placeholderIn(%q) = %q, want %q", tt.val, got, tt.want)
		}
	}
}
