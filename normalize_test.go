package htseg

import (
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "Hello World"},
		{"  Hello World  ", "Hello World"},
		{"Hello\n\tWorld", "Hello World"},
		{"Hello    World", "Hello World"},
		{"", ""},
		{"   ", ""},
		{"MixedCase Stays", "MixedCase Stays"},
	}

	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMemoryKey(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		srcLang string
		tgtLang string
		want    string
	}{
		{"basic", "Hello", "en", "fr", "en-fr:Hello"},
		{"empty source language", "Hello", "", "fr", "any-fr:Hello"},
		{"region stripped", "Hello", "en_US", "fr-FR", "en-fr:Hello"},
		{"alias resolved", "你好", "cn", "en", "zh-en:你好"},
		{"whitespace normalized", "  Hello   World ", "en", "de", "en-de:Hello World"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MemoryKey(tt.text, tt.srcLang, tt.tgtLang); got != tt.want {
				t.Errorf("MemoryKey(%q, %q, %q) = %q, want %q",
					tt.text, tt.srcLang, tt.tgtLang, got, tt.want)
			}
		})
	}
}

// Whitespace reflow of the source text must hit the same memory entry.
func TestMemoryKey_WhitespaceInsensitive(t *testing.T) {
	a := MemoryKey("Hello World", "en", "fr")
	b := MemoryKey("Hello\n  World", "en", "fr")
	if a != b {
		t.Errorf("keys differ for reflowed text: %q vs %q", a, b)
	}
}
