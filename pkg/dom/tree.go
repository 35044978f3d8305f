package dom

import "strings"

// Adjacent positions accepted by InsertAdjacentElement.
const (
	BeforeBegin = "beforebegin"
	AfterBegin  = "afterbegin"
	BeforeEnd   = "beforeend"
	AfterEnd    = "afterend"
)

// AppendChild inserts child as the last child of n.
func (n *Node) AppendChild(child *Node) error {
	return n.insertAt(len(n.children), []*Node{child})
}

// Append inserts nodes after the last child of n, in order.
func (n *Node) Append(nodes ...*Node) error {
	return n.insertAt(len(n.children), nodes)
}

// Prepend inserts nodes before the first child of n, in order.
func (n *Node) Prepend(nodes ...*Node) error {
	return n.insertAt(0, nodes)
}

// ReplaceChildren removes all children of n and inserts nodes in their place.
func (n *Node) ReplaceChildren(nodes ...*Node) error {
	if err := n.checkInsert(nodes); err != nil {
		return err
	}
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	return n.insertAt(0, nodes)
}

// InsertBefore inserts child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) error {
	if ref == nil {
		return n.AppendChild(child)
	}
	if ref.parent != n {
		return ErrNotFound
	}
	if child == ref {
		return nil
	}
	return n.insertAt(n.indexOf(ref), []*Node{child})
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) error {
	i := n.indexOf(child)
	if child == nil || i < 0 {
		return ErrNotFound
	}
	n.children = append(n.children[:i], n.children[i+1:]...)
	child.parent = nil
	return nil
}

// Remove detaches n from its parent. It is a no-op for detached nodes.
func (n *Node) Remove() {
	if n.parent != nil {
		_ = n.parent.RemoveChild(n)
	}
}

// InsertAdjacentElement inserts el relative to n. Position is one of
// BeforeBegin, AfterBegin, BeforeEnd or AfterEnd, matched case-insensitively.
func (n *Node) InsertAdjacentElement(position string, el *Node) error {
	if el == nil || el.Type != ElementNode {
		return ErrHierarchy
	}
	switch strings.ToLower(position) {
	case BeforeBegin:
		if n.parent == nil {
			return ErrNoParent
		}
		return n.parent.InsertBefore(el, n)
	case AfterBegin:
		return n.Prepend(el)
	case BeforeEnd:
		return n.Append(el)
	case AfterEnd:
		if n.parent == nil {
			return ErrNoParent
		}
		return n.parent.InsertBefore(el, n.NextSibling())
	default:
		return ErrInvalidPosition
	}
}

// checkInsert validates that nodes may become children of n.
func (n *Node) checkInsert(nodes []*Node) error {
	if n.Type == TextNode {
		return ErrHierarchy
	}
	for _, c := range nodes {
		if c == nil {
			continue
		}
		if c.Contains(n) {
			return ErrHierarchy
		}
	}
	return nil
}

// take detaches nodes from their current parents, expanding fragments into
// their children. A node listed more than once keeps its last position.
func (n *Node) take(nodes []*Node) []*Node {
	var out []*Node
	for _, c := range nodes {
		if c == nil {
			continue
		}
		if c.Type == FragmentNode {
			for _, gc := range c.children {
				gc.parent = nil
			}
			out = append(out, c.children...)
			c.children = nil
			continue
		}
		c.Remove()
		out = append(out, c)
	}
	return lastOccurrences(out)
}

// lastOccurrences drops every repeat of a node except the last one.
func lastOccurrences(nodes []*Node) []*Node {
	if len(nodes) < 2 {
		return nodes
	}
	seen := make(map[*Node]bool, len(nodes))
	keep := make([]*Node, len(nodes))
	at := len(keep)
	for i := len(nodes) - 1; i >= 0; i-- {
		if seen[nodes[i]] {
			continue
		}
		seen[nodes[i]] = true
		at--
		keep[at] = nodes[i]
	}
	return keep[at:]
}

// insertAt validates, detaches and inserts nodes at index i. The index is
// adjusted when one of the moved nodes was already a child of n before i.
func (n *Node) insertAt(i int, nodes []*Node) error {
	if err := n.checkInsert(nodes); err != nil {
		return err
	}
	var anchor *Node
	if i < len(n.children) {
		anchor = n.children[i]
	}
	moved := n.take(nodes)
	if anchor != nil && anchor.parent != n {
		// The anchor itself was moved; insert where it used to be.
		anchor = nil
	}
	at := len(n.children)
	if anchor != nil {
		at = n.indexOf(anchor)
	} else if i < at {
		at = i
	}
	for _, c := range moved {
		c.parent = n
	}
	n.children = append(n.children[:at], append(moved, n.children[at:]...)...)
	return nil
}
