package htseg

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
)

// Rule is one step of the classification cascade: a pure predicate that
// either produces a verdict or passes the candidate to the next rule.
type Rule struct {
	Name  string
	Apply func(text string, ctx ClassifyContext) (Verdict, bool)
}

var (
	hexHashRe = regexp.MustCompile(`^[0-9a-f]{6,}$`)
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(?:[T ]\d{2}:\d{2}(?::\d{2})?(?:Z|[+-]\d{2}:?\d{2})?)?$`)
	// date/format templates: only format letters, digits and separators
	formatShapeRe = regexp.MustCompile(`^[YMDHhmsd0-9\s.:/\\-]+$`)
	formatTokenRe = regexp.MustCompile(`YYYY|MM|DD`)
	unicodeEscRe  = regexp.MustCompile(`\\u[0-9a-fA-F]{4}`)
	sentPunctRe   = regexp.MustCompile(`[.!?;,。！？；，]`)
	// snake_case or kebab-case identifier, no whitespace, optional numeric suffix
	identShapeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*(?:[_-][A-Za-z0-9]+)*$`)
	// attribute names signalling a technical role: *-id, *-qa, *-test-id,
	// *-hash, *-format (plus the bare id attribute)
	technicalAttrRe = regexp.MustCompile(`(?:^id$|-(?:id|qa|hash|format)$)`)
)

// rules is the ordered classification cascade; first match wins and the
// final rule is total, so every candidate receives exactly one verdict.
var rules = []Rule{
	{Name: "empty", Apply: emptyRule},
	{Name: "structural", Apply: structuralRule},
	{Name: "encoded", Apply: encodedRule},
	{Name: "identifier", Apply: identifierRule},
	{Name: "allowlist", Apply: allowlistRule},
	{Name: "heuristic", Apply: heuristicRule},
	{Name: "default", Apply: defaultRule},
}

// Classify decides whether a candidate string is translatable prose or
// non-translatable technical data. It is deterministic and free of hidden
// state: the same input and context always produce the same verdict.
func Classify(text string, ctx ClassifyContext) Verdict {
	for _, rule := range rules {
		if v, ok := rule.Apply(text, ctx); ok {
			return v
		}
	}
	// Unreachable: the default rule always matches.
	return Verdict{Translatable: false, Reason: ReasonUnclassified}
}

func emptyRule(text string, _ ClassifyContext) (Verdict, bool) {
	if strings.TrimSpace(text) == "" {
		return Verdict{Translatable: false, Reason: ReasonEmpty}, true
	}
	return Verdict{}, false
}

func structuralRule(_ string, ctx ClassifyContext) (Verdict, bool) {
	if ctx.InNonProse {
		return Verdict{Translatable: false, Reason: ReasonStructural}, true
	}
	return Verdict{}, false
}

// encodedRule skips machine-readable payloads: JSON, hex hashes, date/format
// templates and strings carrying raw unicode escapes. It outranks the
// attribute allow-list, so an allow-listed attribute holding JSON is still
// skipped.
func encodedRule(text string, _ ClassifyContext) (Verdict, bool) {
	t := strings.TrimSpace(text)
	encoded := looksLikeJSON(t) ||
		hexHashRe.MatchString(t) ||
		isoDateRe.MatchString(t) ||
		(formatShapeRe.MatchString(t) && formatTokenRe.MatchString(t)) ||
		(unicodeEscRe.MatchString(t) && !sentPunctRe.MatchString(t))
	if encoded {
		return Verdict{Translatable: false, Reason: ReasonEncoded}, true
	}
	return Verdict{}, false
}

func identifierRule(text string, ctx ClassifyContext) (Verdict, bool) {
	if ctx.AttrName == "" || !technicalAttrRe.MatchString(strings.ToLower(ctx.AttrName)) {
		return Verdict{}, false
	}
	if identShapeRe.MatchString(strings.TrimSpace(text)) {
		return Verdict{Translatable: false, Reason: ReasonIdentifier}, true
	}
	return Verdict{}, false
}

func allowlistRule(_ string, ctx ClassifyContext) (Verdict, bool) {
	if ctx.AttrName != "" && IsAllowlistedAttr(ctx.AttrName) {
		return Verdict{Translatable: true, Reason: ReasonAllowlistedAttribute}, true
	}
	return Verdict{}, false
}

// heuristicRule accepts strings containing at least one letter token of
// length >= 2 (any script), or any CJK characters, provided the string is
// not purely numeric/punctuation.
func heuristicRule(text string, _ ClassifyContext) (Verdict, bool) {
	if ContainsCJK(text) {
		return Verdict{Translatable: true, Reason: ReasonHeuristicProse}, true
	}
	for _, field := range strings.Fields(text) {
		letters := 0
		for _, r := range strings.TrimFunc(field, unicode.IsPunct) {
			if !unicode.IsLetter(r) {
				letters = 0
				break
			}
			letters++
		}
		if letters >= 2 {
			return Verdict{Translatable: true, Reason: ReasonHeuristicProse}, true
		}
	}
	return Verdict{}, false
}

func defaultRule(_ string, _ ClassifyContext) (Verdict, bool) {
	return Verdict{Translatable: false, Reason: ReasonUnclassified}, true
}

func looksLikeJSON(t string) bool {
	if !strings.HasPrefix(t, "{") && !strings.HasPrefix(t, "[") {
		return false
	}
	return json.Valid([]byte(t))
}

// IsAllowlistedAttr reports whether an attribute name is known to carry
// human-facing text: the fixed allow-list, aria-*text*, data-*tooltip*,
// data-*label*, data-*help*, data-*error*, or a locale-suffixed data
// attribute (data-<lang>-*).
func IsAllowlistedAttr(name string) bool {
	name = strings.ToLower(name)
	if AllowlistedAttrs[name] {
		return true
	}
	if strings.HasPrefix(name, "aria-") && strings.Contains(name, "text") {
		return true
	}
	if strings.HasPrefix(name, "data-") {
		rest := strings.TrimPrefix(name, "data-")
		for _, marker := range []string{"tooltip", "label", "help", "error"} {
			if strings.Contains(rest, marker) {
				return true
			}
		}
		if AttrLangHint(name) != "" {
			return true
		}
	}
	return false
}

// AttrLangHint extracts the language code from a locale-suffixed attribute
// name such as data-fr-label or data-cn-help. Returns the normalized code,
// or "" when the attribute carries no recognized language prefix.
func AttrLangHint(name string) string {
	name = strings.ToLower(name)
	rest, ok := strings.CutPrefix(name, "data-")
	if !ok {
		return ""
	}
	code, rest, ok := strings.Cut(rest, "-")
	if !ok || rest == "" || !IsLangCode(code) {
		return ""
	}
	return NormalizeLangCode(code)
}
