package htseg

// SegmentKind distinguishes where a segment's content lives in the document.
type SegmentKind string

const (
	// KindAttribute marks a segment extracted from an attribute value.
	KindAttribute SegmentKind = "attribute"
	// KindTextNode marks a segment extracted from a text node.
	KindTextNode SegmentKind = "text_node"
)

// Location identifies where in the document tree a segment came from.
type Location struct {
	// Path is the element path, e.g. "html[1]/body[1]/div[2]/p[1]".
	Path string
	// Attr is the attribute name when the segment kind is attribute.
	Attr string
	// Node is the arena index of the owning node in the parsed document.
	Node int
}

// Segment is one unit of translatable content. Its ID doubles as the
// placeholder token embedded in the stripped document, so the
// id-to-placeholder mapping is bijective by construction.
type Segment struct {
	ID               string
	SourceText       string // raw content, pre-normalization
	Kind             SegmentKind
	Location         Location
	DetectedLanguage string // best-guess language code, empty if undetermined

	sentences []string
}

// Sentences returns the sentence-level decomposition of SourceText.
// The split is computed lazily and carries no independent state.
func (s *Segment) Sentences() []string {
	if s.sentences == nil {
		s.sentences = SplitSentences(s.SourceText)
	}
	return s.sentences
}

// Reason explains why a candidate string was accepted or skipped.
type Reason string

const (
	ReasonEmpty                Reason = "empty"
	ReasonStructural           Reason = "structural"
	ReasonEncoded              Reason = "encoded"
	ReasonIdentifier           Reason = "identifier"
	ReasonAllowlistedAttribute Reason = "allowlisted_attribute"
	ReasonHeuristicProse       Reason = "heuristic_prose"
	ReasonUnclassified         Reason = "unclassified"
)

// Verdict is the classification result for a candidate string.
// Every candidate receives exactly one verdict.
type Verdict struct {
	Translatable bool
	Reason       Reason
}

// ClassifyContext carries the context a candidate string is classified in.
type ClassifyContext struct {
	// AttrName is the owning attribute name, empty for text nodes.
	AttrName string
	// ElementTag is the enclosing element's tag name.
	ElementTag string
	// InNonProse is true when the content lies beneath a non-prose element
	// (formula/math markup, script or style content).
	InNonProse bool
	// PrimaryLang and SecondaryLang are the document's declared source languages.
	PrimaryLang   string
	SecondaryLang string
}

// NonProseTags contains elements whose content is never translatable prose.
var NonProseTags = map[string]bool{
	"script":         true,
	"style":          true,
	"code":           true,
	"pre":            true,
	"textarea":       true,
	"noscript":       true,
	"template":       true,
	"math":           true,
	"svg":            true,
	"annotation":     true,
	"annotation-xml": true,
}

// AllowlistedAttrs contains attribute names that always carry human-facing
// text. Pattern-based allow-listing (aria-*text*, data-*tooltip*,
// data-<lang>-*, ...) is handled by the classifier.
var AllowlistedAttrs = map[string]bool{
	"alt":         true,
	"placeholder": true,
	"title":       true,
	"value":       true,
	"aria-label":  true,
}
