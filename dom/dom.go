// Package dom parses HTML into an addressable, index-based tree.
//
// Nodes live in a flat arena in document order and reference each other by
// index, so stripped and merged document variants can be built by cloning
// the arena without pointer aliasing between variants.
package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/artealabs/htseg"
)

// NodeType mirrors the html.Node types the arena preserves.
type NodeType uint8

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
	DoctypeNode
	RawNode
)

// Attr is a single attribute key/value pair.
type Attr struct {
	Key string
	Val string
}

// Node is one arena entry. Parent, FirstChild and NextSibling are indices
// into Document.Nodes; -1 means none.
type Node struct {
	Type        NodeType
	Data        string // tag name for elements, content for text/comments
	Namespace   string
	Attr        []Attr
	Parent      int
	FirstChild  int
	NextSibling int
}

// Document is a parsed HTML tree. Nodes[0] is the document root and the
// slice is in document order, so iterating by index is a deterministic
// document-order walk.
type Document struct {
	Nodes []Node
}

// Parse reads and parses HTML from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, &htseg.ParseError{Message: "malformed HTML", Cause: err}
	}
	d := &Document{}
	d.flatten(root, -1)
	return d, nil
}

// ParseString parses HTML from a string.
func ParseString(content string) (*Document, error) {
	return Parse(strings.NewReader(content))
}

func (d *Document) flatten(n *html.Node, parent int) int {
	idx := len(d.Nodes)
	node := Node{
		Type:        fromHTMLType(n.Type),
		Data:        n.Data,
		Namespace:   n.Namespace,
		Parent:      parent,
		FirstChild:  -1,
		NextSibling: -1,
	}
	if len(n.Attr) > 0 {
		node.Attr = make([]Attr, len(n.Attr))
		for i, a := range n.Attr {
			node.Attr[i] = Attr{Key: a.Key, Val: a.Val}
		}
	}
	d.Nodes = append(d.Nodes, node)

	prev := -1
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		ci := d.flatten(c, idx)
		if prev == -1 {
			d.Nodes[idx].FirstChild = ci
		} else {
			d.Nodes[prev].NextSibling = ci
		}
		prev = ci
	}
	return idx
}

// Clone returns a deep copy sharing no state with the receiver.
func (d *Document) Clone() *Document {
	c := &Document{Nodes: make([]Node, len(d.Nodes))}
	copy(c.Nodes, d.Nodes)
	for i := range c.Nodes {
		if c.Nodes[i].Attr != nil {
			attrs := make([]Attr, len(c.Nodes[i].Attr))
			copy(attrs, c.Nodes[i].Attr)
			c.Nodes[i].Attr = attrs
		}
	}
	return c
}

// Render serializes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	if len(d.Nodes) == 0 {
		return nil
	}
	root := d.rebuild(0)
	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}
	return nil
}

// HTML returns the document serialized as a string.
func (d *Document) HTML() (string, error) {
	var sb strings.Builder
	if err := d.Render(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// rebuild reconstructs an html.Node subtree from the arena.
func (d *Document) rebuild(idx int) *html.Node {
	n := &d.Nodes[idx]
	out := &html.Node{
		Type:      toHTMLType(n.Type),
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		out.Attr = make([]html.Attribute, len(n.Attr))
		for i, a := range n.Attr {
			out.Attr[i] = html.Attribute{Key: a.Key, Val: a.Val}
		}
	}
	for ci := n.FirstChild; ci != -1; ci = d.Nodes[ci].NextSibling {
		out.AppendChild(d.rebuild(ci))
	}
	return out
}

// HasAncestor reports whether any element on the parent chain of idx
// (including idx itself when it is an element) satisfies pred.
func (d *Document) HasAncestor(idx int, pred func(tag string) bool) bool {
	for i := idx; i != -1; i = d.Nodes[i].Parent {
		if d.Nodes[i].Type == ElementNode && pred(strings.ToLower(d.Nodes[i].Data)) {
			return true
		}
	}
	return false
}

// Path returns the element path of a node, e.g. "html[1]/body[1]/div[2]/p[1]".
// Position indices count element siblings only. For a non-element node the
// path of its parent element is returned.
func (d *Document) Path(idx int) string {
	var parts []string
	i := idx
	if d.Nodes[i].Type != ElementNode {
		i = d.Nodes[i].Parent
	}
	for ; i != -1 && d.Nodes[i].Type == ElementNode; i = d.Nodes[i].Parent {
		parts = append(parts, fmt.Sprintf("%s[%d]", strings.ToLower(d.Nodes[i].Data), d.elementOrdinal(i)))
	}
	// Reverse to read outermost first.
	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	return strings.Join(parts, "/")
}

// elementOrdinal returns the 1-based position of an element among its
// element siblings.
func (d *Document) elementOrdinal(idx int) int {
	parent := d.Nodes[idx].Parent
	if parent == -1 {
		return 1
	}
	pos := 0
	for ci := d.Nodes[parent].FirstChild; ci != -1; ci = d.Nodes[ci].NextSibling {
		if d.Nodes[ci].Type == ElementNode {
			pos++
		}
		if ci == idx {
			return pos
		}
	}
	return pos
}

// TextOrdinal returns the 0-based position of a text node among its
// parent's text-node children.
func (d *Document) TextOrdinal(idx int) int {
	parent := d.Nodes[idx].Parent
	if parent == -1 {
		return 0
	}
	pos := 0
	for ci := d.Nodes[parent].FirstChild; ci != -1; ci = d.Nodes[ci].NextSibling {
		if ci == idx {
			return pos
		}
		if d.Nodes[ci].Type == TextNode {
			pos++
		}
	}
	return pos
}

func fromHTMLType(t html.NodeType) NodeType {
	switch t {
	case html.ElementNode:
		return ElementNode
	case html.TextNode:
		return TextNode
	case html.CommentNode:
		return CommentNode
	case html.DoctypeNode:
		return DoctypeNode
	case html.RawNode:
		return RawNode
	default:
		return DocumentNode
	}
}

func toHTMLType(t NodeType) html.NodeType {
	switch t {
	case ElementNode:
		return html.ElementNode
	case TextNode:
		return html.TextNode
	case CommentNode:
		return html.CommentNode
	case DoctypeNode:
		return html.DoctypeNode
	case RawNode:
		return html.RawNode
	default:
		return html.DocumentNode
	}
}
