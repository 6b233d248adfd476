// Package tree implements the state and flattening engine behind a
// virtualized hierarchical list: a forest of nodes, a flat projection of
// the currently visible ones, and the mutation operations (open, close,
// select, insert, update, remove) that keep the projection, the rendered
// row slice, and the id lookup index consistent in time proportional to
// the affected subtree.
package tree

// State holds the store-owned presentation state of a node. Callers never
// write these fields directly; they change only through Store operations.
type State struct {
	// Open reports whether the node's children are projected into the
	// flat visible sequence.
	Open bool
	// Selected reports whether this node is the store's current selection.
	Selected bool
	// More reports whether the node has at least one child (is expandable).
	More bool
	// Total is the number of this node's descendants currently present in
	// the flat visible sequence. It depends on the open set, not on the
	// full subtree size.
	Total int
	// Depth is the distance from the root (roots are depth 0).
	Depth int
}

// Node is a single element of the forest. The caller-owned payload lives in
// Data; topology (Children, Parent) and State belong to the Store and are
// never touched by Update merges.
type Node struct {
	// ID is the lookup key for this node. Empty means "not indexable".
	ID string
	// Data is the opaque caller payload, preserved across updates.
	Data map[string]any
	// Children are owned by this node, in sibling order.
	Children []*Node
	// Parent is a non-owning navigational back-link, nil for roots.
	Parent *Node
	// State is the store-owned presentation state.
	State State
}

// NewNode returns a node with the given id and payload. Children are
// attached either by nesting before Load or through the Add* operations.
func NewNode(id string, data map[string]any) *Node {
	return &Node{ID: id, Data: data}
}

// Append attaches child as the last child of n and sets the back-link.
// It is intended for building forests before Load; after Load, use the
// Store's Add* operations so the flat projection stays in sync.
func (n *Node) Append(child *Node) *Node {
	child.Parent = n
	n.Children = append(n.Children, child)
	return n
}

// Str returns a payload value as a string, or "" if absent or of a
// different type. Convenience for renderers.
func (n *Node) Str(key string) string {
	if n.Data == nil {
		return ""
	}
	if s, ok := n.Data[key].(string); ok {
		return s
	}
	return ""
}

// isAncestorOf reports whether n is a strict ancestor of other, walking
// parent links. Children links form a tree, so the walk terminates.
func (n *Node) isAncestorOf(other *Node) bool {
	for p := other.Parent; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// childIndex returns the position of child within n.Children, or -1.
func (n *Node) childIndex(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}
