// Package merge rebuilds final HTML documents by substituting translated
// text back into a stripped document's placeholder locations.
package merge

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/artealabs/htseg"
	"github.com/artealabs/htseg/dom"
)

// placeholderRe matches a complete placeholder token as embedded by the
// extractor: SEG_<node>_T<ordinal> for text nodes, SEG_<node>_A_<attr> for
// attribute values.
var placeholderRe = regexp.MustCompile(`^SEG_[0-9]+_(?:T[0-9]+|A_[A-Za-z0-9_.:-]+)$`)

// Options configures a merge pass.
type Options struct {
	// TargetLang, when set, is written to the final document's <html>
	// lang/dir attributes.
	TargetLang string
}

// Merge substitutes translations into every placeholder of the stripped
// document and returns the final HTML. Every placeholder must resolve: any
// unresolved id fails the merge with MissingSegmentError. The stripped
// document itself is never modified, so independent merges from different
// translation sources can run against the same stripped document.
func Merge(stripped *dom.Document, translations map[string]string, opts Options) (string, error) {
	return merge(stripped, func(id string) (string, bool) {
		t, ok := translations[id]
		return t, ok
	}, opts)
}

// MergeCombined produces a single document listing both translation
// variants: where the two sources agree (or the secondary lacks an id) the
// primary text is used, where they differ both are emitted separated by
// " / ". Completeness is checked against the primary source only.
func MergeCombined(stripped *dom.Document, primary, secondary map[string]string, opts Options) (string, error) {
	return merge(stripped, func(id string) (string, bool) {
		p, ok := primary[id]
		if !ok {
			return "", false
		}
		if s, ok := secondary[id]; ok && s != p {
			return p + " / " + s, true
		}
		return p, true
	}, opts)
}

func merge(stripped *dom.Document, lookup func(id string) (string, bool), opts Options) (string, error) {
	working := stripped.Clone()
	missing := make(map[string]bool)

	for idx := range working.Nodes {
		node := &working.Nodes[idx]
		switch node.Type {
		case dom.TextNode:
			if id := placeholderIn(node.Data); id != "" {
				if t, ok := lookup(id); ok {
					node.Data = replaceToken(node.Data, id, t)
				} else {
					missing[id] = true
				}
			}
		case dom.ElementNode:
			for ai := range node.Attr {
				attr := &node.Attr[ai]
				if id := placeholderIn(attr.Val); id != "" {
					if t, ok := lookup(id); ok {
						attr.Val = replaceToken(attr.Val, id, t)
					} else {
						missing[id] = true
					}
				}
			}
		}
	}

	if len(missing) > 0 {
		ids := make([]string, 0, len(missing))
		for id := range missing {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		return "", &htseg.MissingSegmentError{IDs: ids}
	}

	out, err := working.HTML()
	if err != nil {
		return "", err
	}
	if opts.TargetLang != "" {
		out = setDocumentLang(out, opts.TargetLang)
	}
	return out, nil
}

// Placeholders returns every placeholder id embedded in the document, in
// document order. Used to validate the segment/placeholder bijection before
// merging.
func Placeholders(d *dom.Document) []string {
	var ids []string
	for idx := range d.Nodes {
		node := &d.Nodes[idx]
		switch node.Type {
		case dom.TextNode:
			if id := placeholderIn(node.Data); id != "" {
				ids = append(ids, id)
			}
		case dom.ElementNode:
			for _, attr := range node.Attr {
				if id := placeholderIn(attr.Val); id != "" {
					ids = append(ids, id)
				}
			}
		}
	}
	return ids
}

// placeholderIn returns the placeholder id when the value is a placeholder
// token (allowing surrounding whitespace from serialization round trips),
// or "" otherwise.
func placeholderIn(val string) string {
	t := strings.TrimSpace(val)
	if placeholderRe.MatchString(t) {
		return t
	}
	return ""
}

// replaceToken substitutes the translation for the token while keeping any
// surrounding whitespace the stripped document carried.
func replaceToken(val, token, translation string) string {
	return strings.Replace(val, token, translation, 1)
}

// setDocumentLang sets the lang and dir attributes on the <html> element of
// the final document. Serialization problems leave the document unchanged.
func setDocumentLang(content, targetLang string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}
	htmlTag := doc.Find("html")
	if htmlTag.Length() == 0 {
		return content
	}
	htmlTag.SetAttr("lang", htseg.ToHTMLLang(targetLang))
	htmlTag.SetAttr("dir", htseg.GetDirection(targetLang))

	out, err := doc.Html()
	if err != nil {
		return content
	}
	return out
}
