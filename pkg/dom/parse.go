package dom

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoElement is returned by ParseElement when markup has no element.
var ErrNoElement = errors.New("dom: markup contains no element")

// ParseFragment parses markup as the content of a <body> element and
// returns the top-level nodes. Comments and doctypes are dropped.
func ParseFragment(markup string) ([]*Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, err
	}
	out := make([]*Node, 0, len(parsed))
	for _, h := range parsed {
		if n := fromHTML(h); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// ParseElement parses markup and returns its first top-level element.
func ParseElement(markup string) (*Node, error) {
	nodes, err := ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n.Type == ElementNode {
			return n, nil
		}
	}
	return nil, ErrNoElement
}

// MustParseElement is like ParseElement but panics on error.
func MustParseElement(markup string) *Node {
	n, err := ParseElement(markup)
	if err != nil {
		panic(err)
	}
	return n
}

func fromHTML(h *html.Node) *Node {
	switch h.Type {
	case html.TextNode:
		return NewText(h.Data)
	case html.ElementNode:
		n := NewElementNS(namespaceURI(h.Namespace), h.Data)
		for _, a := range h.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			n.SetAttribute(name, a.Val)
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				child.parent = n
				n.children = append(n.children, child)
			}
		}
		return n
	default:
		return nil
	}
}
