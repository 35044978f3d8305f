package dom

import "errors"

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode  NodeType = iota // <div>, <svg>, etc.
	TextNode                     // Character data
	FragmentNode                 // Ordered children without a wrapper
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case FragmentNode:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Namespace URIs.
const (
	HTMLNamespace   = "http://www.w3.org/1999/xhtml"
	SVGNamespace    = "http://www.w3.org/2000/svg"
	MathMLNamespace = "http://www.w3.org/1998/Math/MathML"
)

var (
	// ErrHierarchy is returned when an insertion would produce an invalid tree:
	// children under a text node, or a node inserted into its own subtree.
	ErrHierarchy = errors.New("dom: hierarchy request error")

	// ErrNotFound is returned when a reference node is not a child of the
	// node being mutated.
	ErrNotFound = errors.New("dom: node not found")

	// ErrNoParent is returned for sibling insertions relative to a detached node.
	ErrNoParent = errors.New("dom: node has no parent")

	// ErrInvalidPosition is returned by InsertAdjacentElement for an unknown position.
	ErrInvalidPosition = errors.New("dom: invalid adjacent position")
)

// Node is a node in a live document tree.
type Node struct {
	Type      NodeType
	Tag       string // Element tag name
	Namespace string // Element namespace URI
	Data      string // Text content for TextNode

	parent    *Node
	children  []*Node
	attrs     []Attribute
	listeners map[string][]Listener
}

// NewElement creates an element in the HTML namespace.
func NewElement(tag string) *Node {
	return NewElementNS(HTMLNamespace, tag)
}

// NewElementNS creates an element in the given namespace.
func NewElementNS(namespace, tag string) *Node {
	return &Node{
		Type:      ElementNode,
		Tag:       tag,
		Namespace: namespace,
	}
}

// NewText creates a text node.
func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// NewFragment creates an empty document fragment.
func NewFragment(children ...*Node) *Node {
	f := &Node{Type: FragmentNode}
	if len(children) > 0 {
		// Appending to an empty fragment only fails for cyclic input.
		_ = f.Append(children...)
	}
	return f
}

// Parent returns the parent node, or nil if the node is detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the node's children.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// NextSibling returns the node after n in its parent, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

// PreviousSibling returns the node before n in its parent, or nil.
func (n *Node) PreviousSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i <= 0 {
		return nil
	}
	return n.parent.children[i-1]
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Data
	}
	var out []byte
	for _, c := range n.children {
		out = append(out, c.TextContent()...)
	}
	return string(out)
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}
