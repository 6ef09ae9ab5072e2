package htseg

import (
	"strings"
	"unicode"
)

// sentence terminators, Latin and CJK
const sentenceEnders = ".!?。！？…"

// SplitSentences decomposes text into ordered sentence-level substrings.
// Splits occur after terminal punctuation (plus any closing quotes or
// brackets) followed by whitespace or end of input. Text without terminal
// punctuation is returned as a single sentence. Each sentence is trimmed;
// whitespace-only input yields no sentences.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		if !strings.ContainsRune(sentenceEnders, runes[i]) {
			continue
		}
		// Absorb runs of enders ("..."), then trailing quotes/brackets.
		j := i
		for j+1 < len(runes) && strings.ContainsRune(sentenceEnders, runes[j+1]) {
			j++
		}
		for j+1 < len(runes) && isClosing(runes[j+1]) {
			j++
		}
		// CJK enders split unconditionally; Latin enders need a following
		// space so "3.14" stays intact.
		atEnd := j+1 >= len(runes)
		cjk := runes[i] == '。' || runes[i] == '！' || runes[i] == '？'
		if atEnd || cjk || unicode.IsSpace(runes[j+1]) {
			if s := strings.TrimSpace(string(runes[start : j+1])); s != "" {
				sentences = append(sentences, s)
			}
			start = j + 1
		}
		i = j
	}

	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}

	return sentences
}

func isClosing(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '»', '”', '’', '」', '』':
		return true
	}
	return false
}
