package jsx

import (
	"strings"

	"github.com/vango-dev/jsxdom/pkg/dom"
)

// OutputKind is the build result discriminator.
type OutputKind uint8

const (
	OutputFragment OutputKind = iota // Zero or more sibling nodes
	OutputNode                       // Exactly one node
)

// String returns the string representation of the OutputKind.
func (k OutputKind) String() string {
	switch k {
	case OutputFragment:
		return "fragment"
	case OutputNode:
		return "node"
	default:
		return "unknown"
	}
}

// Output is the result of a build: a single node or an ordered list of
// sibling nodes with no wrapper. The zero Output is an empty fragment.
type Output struct {
	kind  OutputKind
	node  *dom.Node
	nodes []*dom.Node
}

// NodeOutput wraps an existing node. A dom fragment node becomes a
// fragment output holding the fragment's children.
func NodeOutput(n *dom.Node) Output {
	if n == nil {
		return Output{}
	}
	if n.Type == dom.FragmentNode {
		return FragmentOutput(n.Children()...)
	}
	return Output{kind: OutputNode, node: n}
}

// FragmentOutput wraps an ordered list of sibling nodes.
func FragmentOutput(nodes ...*dom.Node) Output {
	return Output{kind: OutputFragment, nodes: nodes}
}

// Kind returns the output kind.
func (o Output) Kind() OutputKind {
	return o.kind
}

// IsFragment reports whether the output is a fragment.
func (o Output) IsFragment() bool {
	return o.kind == OutputFragment
}

// Node returns the single node, or nil for fragments.
func (o Output) Node() *dom.Node {
	return o.node
}

// Nodes returns the output as an ordered node list.
func (o Output) Nodes() []*dom.Node {
	if o.kind == OutputNode {
		return []*dom.Node{o.node}
	}
	return o.nodes
}

// Len returns the number of top-level nodes.
func (o Output) Len() int {
	return len(o.Nodes())
}

// OuterHTML returns the markup of all top-level nodes back to back.
func (o Output) OuterHTML() string {
	var b strings.Builder
	for _, n := range o.Nodes() {
		b.WriteString(n.OuterHTML())
	}
	return b.String()
}
