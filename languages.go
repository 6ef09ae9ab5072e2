package htseg

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// LanguageNames maps language codes to human-readable names for AI prompts.
var LanguageNames = map[string]string{
	"en": "English",
	"de": "German",
	"es": "Spanish",
	"fr": "French",
	"it": "Italian",
	"ja": "Japanese",
	"pt": "Portuguese",
	"zh": "Chinese",
	"ko": "Korean",
	"ru": "Russian",
	"ar": "Arabic",
	"he": "Hebrew",
	"hi": "Hindi",
	"nl": "Dutch",
	"pl": "Polish",
	"tr": "Turkish",
	"vi": "Vietnamese",
	"el": "Greek",
	"sv": "Swedish",
	"da": "Danish",
	"fi": "Finnish",
	"cs": "Czech",
	"uk": "Ukrainian",
	"id": "Indonesian",
	"th": "Thai",
}

// langAliases maps informal codes seen in locale-suffixed attributes
// (data-cn-help, data-jp-label, ...) to ISO 639-1 codes.
var langAliases = map[string]string{
	"cn": "zh",
	"jp": "ja",
	"kr": "ko",
	"gr": "el",
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}

// NormalizeLangCode lowercases a language code, strips any region suffix
// ("fr_FR", "fr-FR" → "fr") and resolves informal aliases ("cn" → "zh").
func NormalizeLangCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	if alias, ok := langAliases[code]; ok {
		return alias
	}
	return code
}

// IsLangCode reports whether s is a recognized two-letter language code.
func IsLangCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	if _, ok := langAliases[s]; ok {
		return true
	}
	if _, ok := LanguageNames[s]; ok {
		return true
	}
	tag, err := language.Parse(s)
	return err == nil && tag != language.Und
}

// GetLanguageName returns the human-readable name for a language code,
// falling back to the code itself.
func GetLanguageName(code string) string {
	if name, ok := LanguageNames[NormalizeLangCode(code)]; ok {
		return name
	}
	return code
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(code string) string {
	if RTLLanguages[NormalizeLangCode(code)] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(code string) bool {
	return GetDirection(code) == "rtl"
}

// ToHTMLLang converts a language code to HTML lang attribute format
// ("fr_FR" → "fr-FR").
func ToHTMLLang(code string) string {
	return strings.ReplaceAll(code, "_", "-")
}

// DetectScriptLanguage guesses a language from the script of the text.
// Only CJK scripts are distinguishable this way; for anything else it
// returns the empty string.
func DetectScriptLanguage(text string) string {
	var han, kana, hangul bool
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
			kana = true
		case unicode.Is(unicode.Hangul, r):
			hangul = true
		case unicode.Is(unicode.Han, r):
			han = true
		}
	}
	switch {
	case kana:
		return "ja" // kana implies Japanese even when mixed with Han
	case hangul:
		return "ko"
	case han:
		return "zh"
	}
	return ""
}

// ContainsCJK reports whether the text contains CJK script characters.
func ContainsCJK(text string) bool {
	return DetectScriptLanguage(text) != ""
}

// DetectLanguage resolves a segment's language: an explicit hint (from a
// locale-suffixed attribute) wins, then script detection, then the
// document's declared primary language.
func DetectLanguage(text, hint, primaryLang string) string {
	if hint != "" {
		return NormalizeLangCode(hint)
	}
	if lang := DetectScriptLanguage(text); lang != "" {
		return lang
	}
	return NormalizeLangCode(primaryLang)
}
