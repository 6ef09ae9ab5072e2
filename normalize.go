package htseg

import "strings"

// NormalizeText trims surrounding whitespace and collapses internal
// whitespace runs to single spaces. Case is preserved.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// MemoryKey builds the translation memory key for a source text and
// language pair. An empty source language is recorded as "any".
func MemoryKey(text, srcLang, tgtLang string) string {
	src := NormalizeLangCode(srcLang)
	if src == "" {
		src = "any"
	}
	return src + "-" + NormalizeLangCode(tgtLang) + ":" + NormalizeText(text)
}
