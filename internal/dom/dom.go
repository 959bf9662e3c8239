// Package dom wraps a parsed HTML page behind the handful of structural
// queries the extraction engine needs: selector lookup, trimmed text,
// attributes, sibling/parent navigation, forward search in document order
// and text-node iteration.
//
// Documents are read-only once parsed. Nothing in this package mutates the
// underlying tree, so a Document may be shared by concurrent readers.
package dom

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Node is a single element of a Document. The zero value is not usable;
// nodes are only obtained from Document or Node queries.
type Node struct {
	n *html.Node
}

// TextNode is a non-blank text node together with the element that holds it.
type TextNode struct {
	Text   string
	Parent Node
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// ParseString parses an HTML document held in memory.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Select returns every element matching the CSS selector, in document order.
func (d *Document) Select(selector string) []Node {
	return wrap(d.doc.Find(selector))
}

// SelectOne returns the first element matching the CSS selector.
func (d *Document) SelectOne(selector string) (Node, bool) {
	return first(d.doc.Find(selector))
}

// TextNodes returns every non-blank text node whose normalized text satisfies
// match, in document order. Text inside script and style elements is skipped.
func (d *Document) TextNodes(match func(text string) bool) []TextNode {
	var out []TextNode
	for _, root := range d.doc.Nodes {
		walk(root, func(n *html.Node) {
			if n.Type != html.TextNode || n.Parent == nil || n.Parent.Type != html.ElementNode {
				return
			}
			switch n.Parent.Data {
			case "script", "style", "noscript":
				return
			}
			text := Clean(n.Data)
			if text == "" || !match(text) {
				return
			}
			out = append(out, TextNode{Text: text, Parent: Node{n: n.Parent}})
		})
	}
	return out
}

// Select returns the descendants of n matching the CSS selector.
func (n Node) Select(selector string) []Node {
	return wrap(n.selection().Find(selector))
}

// SelectOne returns the first descendant of n matching the CSS selector.
func (n Node) SelectOne(selector string) (Node, bool) {
	return first(n.selection().Find(selector))
}

// Tag returns the lower-case element name.
func (n Node) Tag() string {
	return n.n.Data
}

// Text returns the concatenated, normalized and trimmed text of n and its
// descendants.
func (n Node) Text() string {
	return Clean(n.selection().Text())
}

// HTML returns the inner HTML of n.
func (n Node) HTML() (string, error) {
	return n.selection().Html()
}

// Attr returns the value of the named attribute.
func (n Node) Attr(name string) (string, bool) {
	for _, a := range n.n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// NextSibling returns the next element sibling of n, skipping text and
// comment nodes.
func (n Node) NextSibling() (Node, bool) {
	for s := n.n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return Node{n: s}, true
		}
	}
	return Node{}, false
}

// Parent returns the parent element of n.
func (n Node) Parent() (Node, bool) {
	if p := n.n.Parent; p != nil && p.Type == html.ElementNode {
		return Node{n: p}, true
	}
	return Node{}, false
}

// FindNext returns the first element named tag that follows the start of n in
// document order. The search covers n's own descendants before moving on to
// the rest of the page.
func (n Node) FindNext(tag string) (Node, bool) {
	for cur := following(n.n); cur != nil; cur = following(cur) {
		if cur.Type == html.ElementNode && cur.Data == tag {
			return Node{n: cur}, true
		}
	}
	return Node{}, false
}

// FirstDescendant returns the first descendant element named tag.
func (n Node) FirstDescendant(tag string) (Node, bool) {
	var found *html.Node
	for c := n.n.FirstChild; c != nil && found == nil; c = c.NextSibling {
		walk(c, func(x *html.Node) {
			if found == nil && x.Type == html.ElementNode && x.Data == tag {
				found = x
			}
		})
	}
	if found == nil {
		return Node{}, false
	}
	return Node{n: found}, true
}

// IsLeaf reports whether n has no element children.
func (n Node) IsLeaf() bool {
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return false
		}
	}
	return true
}

// Clean normalizes s to NFKC (which folds non-breaking spaces and full-width
// digits), collapses runs of whitespace and trims the result.
func Clean(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

func (n Node) selection() *goquery.Selection {
	return goquery.NewDocumentFromNode(n.n).Selection
}

func wrap(sel *goquery.Selection) []Node {
	nodes := make([]Node, 0, len(sel.Nodes))
	for _, n := range sel.Nodes {
		nodes = append(nodes, Node{n: n})
	}
	return nodes
}

func first(sel *goquery.Selection) (Node, bool) {
	if len(sel.Nodes) == 0 {
		return Node{}, false
	}
	return Node{n: sel.Nodes[0]}, true
}

// following returns the node after n in document order.
func following(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}
