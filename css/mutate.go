package css

import "slices"

// Remove detaches n from its parent. It reports false for detached nodes.
func Remove(n Node) bool {
	p := n.Parent()
	if p == nil {
		return false
	}
	b := p.body()
	i := b.Index(n)
	if i < 0 {
		return false
	}
	b.nodes = slices.Delete(b.nodes, i, i+1)
	n.setParent(nil)
	return true
}

// ReplaceWith puts nodes at the position of n and detaches n. It reports
// false when n has no parent.
func ReplaceWith(n Node, nodes ...Node) bool {
	p := n.Parent()
	if p == nil {
		return false
	}
	if !insertBefore(p, n, nodes) {
		return false
	}
	return Remove(n)
}

func appendNodes(c Container, nodes []Node) {
	for _, n := range nodes {
		detach(n)
		n.setParent(c)
	}
	b := c.body()
	b.nodes = append(b.nodes, nodes...)
}

func insertBefore(c Container, existing Node, nodes []Node) bool {
	for _, n := range nodes {
		if n == existing {
			return false
		}
		detach(n)
	}
	b := c.body()
	i := b.Index(existing)
	if i < 0 {
		return false
	}
	for _, n := range nodes {
		n.setParent(c)
	}
	b.nodes = slices.Insert(b.nodes, i, nodes...)
	return true
}

func detach(n Node) {
	if n.Parent() != nil {
		Remove(n)
	}
}

func cloneChildren(dst Container, src *block) {
	if len(src.nodes) == 0 {
		return
	}
	b := dst.body()
	b.nodes = make([]Node, 0, len(src.nodes))
	for _, n := range src.nodes {
		c := n.Clone()
		c.setParent(dst)
		b.nodes = append(b.nodes, c)
	}
}
