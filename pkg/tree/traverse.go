package tree

// The queries in this file are pure reads over parent/child links; they
// never consult the visible projection, so they work on hidden nodes too.

// ParentOf returns node's parent, or nil for roots.
func (s *Store[R]) ParentOf(node *Node) *Node {
	if node == nil {
		return nil
	}
	return node.Parent
}

// FirstChild returns node's first child, or nil for leaves.
func (s *Store[R]) FirstChild(node *Node) *Node {
	if node == nil || len(node.Children) == 0 {
		return nil
	}
	return node.Children[0]
}

// HasChildren reports whether node has at least one child.
func (s *Store[R]) HasChildren(node *Node) bool {
	return node != nil && len(node.Children) > 0
}

// NextSibling returns the sibling following node, or nil at the boundary.
// Root-level nodes use the store's root sequence as their sibling order.
func (s *Store[R]) NextSibling(node *Node) *Node {
	sibs := s.siblingsOf(node)
	i := s.siblingIndex(node)
	if i < 0 || i+1 >= len(sibs) {
		return nil
	}
	return sibs[i+1]
}

// PrevSibling returns the sibling preceding node, or nil at the boundary.
func (s *Store[R]) PrevSibling(node *Node) *Node {
	sibs := s.siblingsOf(node)
	i := s.siblingIndex(node)
	if i <= 0 || i >= len(sibs) {
		return nil
	}
	return sibs[i-1]
}

func (s *Store[R]) siblingsOf(node *Node) []*Node {
	if node == nil {
		return nil
	}
	if node.Parent == nil {
		return s.roots
	}
	return node.Parent.Children
}

// Walk visits root and every descendant in pre-order using the shared
// iterative traversal.
func (s *Store[R]) Walk(root *Node, fn func(*Node)) {
	Traverse(root, fn)
}

// Traverse visits root and every descendant exactly once in depth-first
// pre-order. It walks first-child, then next-sibling, else climbs back to
// the parent — no recursion and no visited set, which is sound because
// children links form a tree.
func Traverse(root *Node, fn func(*Node)) {
	if root == nil {
		return
	}
	n := root
	for {
		fn(n)
		if len(n.Children) > 0 {
			n = n.Children[0]
			continue
		}
		for {
			if n == root {
				return
			}
			p := n.Parent
			if p == nil {
				return
			}
			if i := p.childIndex(n); i >= 0 && i+1 < len(p.Children) {
				n = p.Children[i+1]
				break
			}
			n = p
		}
	}
}
