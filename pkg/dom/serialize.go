package dom

import (
	"io"
	"strings"

	"github.com/yosssi/gohtml"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render writes the markup of n to w. Fragments render their children
// back to back.
func (n *Node) Render(w io.Writer) error {
	return html.Render(w, n.toHTML())
}

// OuterHTML returns the markup of n including n itself.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	_ = n.Render(&b)
	return b.String()
}

// InnerHTML returns the markup of n's children.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for _, c := range n.children {
		if err := c.Render(&b); err != nil {
			break
		}
	}
	return b.String()
}

// Pretty indents markup for display.
func Pretty(markup string) string {
	return gohtml.Format(markup)
}

// toHTML converts the subtree rooted at n into an x/net/html tree.
func (n *Node) toHTML() *html.Node {
	var h *html.Node
	switch n.Type {
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Data}
	case FragmentNode:
		h = &html.Node{Type: html.DocumentNode}
	default:
		h = &html.Node{
			Type:      html.ElementNode,
			Data:      n.Tag,
			Namespace: htmlNamespace(n.Namespace),
		}
		if h.Namespace == "" {
			h.DataAtom = atom.Lookup([]byte(n.Tag))
		}
		for _, a := range n.attrs {
			h.Attr = append(h.Attr, html.Attribute{Key: a.Name, Val: a.Value})
		}
		if voidElements[n.Tag] {
			// The renderer rejects void elements with children, so they
			// are left out, as a browser does.
			return h
		}
	}
	for _, c := range n.children {
		h.AppendChild(c.toHTML())
	}
	return h
}

// voidElements are the HTML elements written without an end tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"keygen": true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// htmlNamespace maps a namespace URI to the short names x/net/html uses
// for foreign content. HTML is the empty namespace.
func htmlNamespace(uri string) string {
	switch uri {
	case SVGNamespace:
		return "svg"
	case MathMLNamespace:
		return "math"
	default:
		return ""
	}
}

// namespaceURI is the inverse of htmlNamespace.
func namespaceURI(short string) string {
	switch short {
	case "svg":
		return SVGNamespace
	case "math":
		return MathMLNamespace
	default:
		return HTMLNamespace
	}
}
