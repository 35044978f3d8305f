package dom

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xlab/treeprint"
)

// Dump returns an indented tree view of n for debugging.
func (n *Node) Dump() string {
	tree := treeprint.New()
	n.dump(tree)
	return tree.String()
}

func (n *Node) dump(t treeprint.Tree) {
	if len(n.children) == 0 {
		t.AddNode(n.label())
		return
	}
	branch := t.AddBranch(n.label())
	for _, c := range n.children {
		c.dump(branch)
	}
}

// label is a one-line description of n.
func (n *Node) label() string {
	switch n.Type {
	case TextNode:
		return fmt.Sprintf("%q", n.Data)
	case FragmentNode:
		return "#fragment"
	}
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(n.Tag)
	for _, a := range n.attrs {
		fmt.Fprintf(&b, " %s=%q", a.Name, a.Value)
	}
	b.WriteString(">")
	if n.Namespace != HTMLNamespace {
		fmt.Fprintf(&b, " [%s]", n.Namespace)
	}
	if len(n.listeners) > 0 {
		types := n.EventTypes()
		sort.Strings(types)
		fmt.Fprintf(&b, " on:%s", strings.Join(types, ","))
	}
	return b.String()
}
