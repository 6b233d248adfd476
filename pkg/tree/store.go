package tree

import (
	"slices"

	"github.com/vanderheijden86/treelist/pkg/debug"
)

// Renderer turns a node into its row representation. It must be pure and
// cheap enough to call once per node per mutation.
type Renderer[R any] func(*Node) R

// Viewport receives the full row sequence after every mutation and is
// responsible for windowed rendering. The store never reads back from it.
type Viewport[R any] interface {
	Update(rows []R)
	Destroy()
}

// Store owns the three parallel structures of the visible projection:
// nodes (flat visible node sequence, pre-order), rows (index-parallel
// rendered rows), and openNodes (open set, most-recently-opened first).
// All mutation goes through Store methods; external components only see
// row pushes and events.
//
// The store is single-threaded: operations run to completion before
// control returns, and event handlers must not call back into mutating
// operations (see ErrReentrantMutation).
type Store[R any] struct {
	render   Renderer[R]
	viewport Viewport[R]

	roots     []*Node
	nodes     []*Node
	rows      []R
	openNodes []*Node
	selected  *Node
	index     *Index

	subs      []func(Event)
	notifying bool
}

// New returns an empty store using render for row generation.
// render must be non-nil.
func New[R any](render Renderer[R]) *Store[R] {
	if render == nil {
		panic("tree: nil renderer")
	}
	return &Store[R]{
		render: render,
		index:  NewIndex(),
	}
}

// AttachViewport sets the row push target. Passing nil detaches.
func (s *Store[R]) AttachViewport(v Viewport[R]) {
	s.viewport = v
}

// Subscribe registers an event handler. Handlers run synchronously, in
// registration order, in the order operations complete.
func (s *Store[R]) Subscribe(fn func(Event)) {
	if fn != nil {
		s.subs = append(s.subs, fn)
	}
}

// Load replaces the whole store content with the given forest. When
// openAll is true every expandable node is forced open; otherwise the
// nodes' declared Open flags are respected. Selection is reset, the
// lookup index is rebuilt, and the full row set is pushed. O(n) in total
// node count.
func (s *Store[R]) Load(forest []*Node, openAll bool) error {
	if s.notifying {
		return ErrReentrantMutation
	}
	linkParents(forest, nil)

	// The old selection's flag must not survive into the new projection;
	// reloading the same in-memory forest would otherwise render a
	// selected row with no selection.
	if s.selected != nil {
		s.selected.State.Selected = false
	}
	s.roots = forest
	s.nodes = Flatten(forest, FlattenOptions{OpenAll: openAll})
	s.selected = nil

	s.index.Clear()
	s.openNodes = s.openNodes[:0]
	s.rows = make([]R, len(s.nodes))
	for i, n := range s.nodes {
		s.index.Set(n.ID, n)
		if n.State.More && n.State.Open {
			s.openNodes = append(s.openNodes, n)
		}
		s.rows[i] = s.render(n)
	}
	debug.Log("load: %d visible nodes, %d open", len(s.nodes), len(s.openNodes))
	s.pushRows()
	return nil
}

// linkParents sets back-links for a caller-built nested forest so the
// navigational queries work regardless of how the forest was assembled.
func linkParents(forest []*Node, parent *Node) {
	for _, n := range forest {
		if n == nil {
			continue
		}
		n.Parent = parent
		linkParents(n.Children, n)
	}
}

// Open makes node's children visible. Returns false with no error when
// the node is already open or has no children; returns ErrNotVisible when
// the node is not part of the visible sequence.
func (s *Store[R]) Open(node *Node) (bool, error) {
	if s.notifying {
		return false, ErrReentrantMutation
	}
	i := s.flatIndex(node)
	if i < 0 {
		return false, notVisible(node)
	}
	if node.State.Open || !node.State.More {
		return false, nil
	}

	node.State.Open = true
	s.openNodes = append([]*Node{node}, s.openNodes...)

	sub := Flatten(node.Children, FlattenOptions{Depth: node.State.Depth + 1})
	subRows := make([]R, len(sub))
	for j, n := range sub {
		subRows[j] = s.render(n)
	}
	s.nodes = slices.Insert(s.nodes, i+1, sub...)
	s.rows = slices.Insert(s.rows, i+1, subRows...)

	node.State.Total = len(sub)
	s.bumpAncestors(node, len(sub))
	s.rows[i] = s.render(node)

	// Cheap guard: if the first inserted node is already indexed, this
	// subtree was indexed before (reopen) and the loop can be skipped.
	if len(sub) > 0 && s.index.Get(sub[0].ID) != sub[0] {
		for _, n := range sub {
			s.index.Set(n.ID, n)
		}
	}
	// Nodes that were open inside the hidden subtree rejoin the open set.
	for _, n := range sub {
		if n.State.More && n.State.Open && !slices.Contains(s.openNodes, n) {
			s.openNodes = append(s.openNodes, n)
		}
	}

	debug.Log("open %s: +%d nodes", node.ID, len(sub))
	s.publish(Opened{Node: node})
	s.pushRows()
	return true, nil
}

// Close removes node's visible descendants from the projection. Returns
// false with no error when the node is already closed; ErrNotVisible when
// the node is not part of the visible sequence. Closing an ancestor of the
// current selection promotes the ancestor to selected.
func (s *Store[R]) Close(node *Node) (bool, error) {
	if s.notifying {
		return false, ErrReentrantMutation
	}
	i := s.flatIndex(node)
	if i < 0 {
		return false, notVisible(node)
	}
	if !node.State.Open {
		return false, nil
	}

	deleteCount := node.State.Total

	// Select-on-collapse: a selection inside the vanishing range moves to
	// the node itself rather than dangling.
	if s.selected != nil && s.selected != node {
		if si := s.flatIndex(s.selected); si > i && si <= i+deleteCount {
			s.selected.State.Selected = false
			node.State.Selected = true
			s.selected = node
		}
	}

	node.State.Open = false
	kept := s.openNodes[:0]
	for _, n := range s.openNodes {
		if n.State.More && n.State.Open {
			kept = append(kept, n)
		}
	}
	s.openNodes = kept

	for _, n := range s.nodes[i+1 : i+1+deleteCount] {
		if s.index.Get(n.ID) == n {
			s.index.Delete(n.ID)
		}
	}
	s.nodes = slices.Delete(s.nodes, i+1, i+1+deleteCount)
	s.rows = slices.Delete(s.rows, i+1, i+1+deleteCount)

	node.State.Total = 0
	s.bumpAncestors(node, -deleteCount)
	s.rows[i] = s.render(node)

	debug.Log("close %s: -%d nodes", node.ID, deleteCount)
	s.publish(Closed{Node: node})
	s.pushRows()
	return true, nil
}

// Toggle closes node if it is open, opens it otherwise.
func (s *Store[R]) Toggle(node *Node) (bool, error) {
	if node != nil && node.State.Open {
		return s.Close(node)
	}
	return s.Open(node)
}

// Select changes the selection to node. A nil node deselects; selecting
// the already-selected node deselects it (toggle-off). Returns false with
// no error when a deselect had nothing to do.
func (s *Store[R]) Select(node *Node) (bool, error) {
	if s.notifying {
		return false, ErrReentrantMutation
	}
	if node == nil {
		if s.selected == nil {
			return false, nil
		}
		prev := s.selected
		prev.State.Selected = false
		s.rerender(prev)
		s.selected = nil
		s.publish(Selected{Node: nil})
		s.pushRows()
		return true, nil
	}

	i := s.flatIndex(node)
	if i < 0 {
		return false, notVisible(node)
	}

	if node == s.selected {
		node.State.Selected = false
		s.rows[i] = s.render(node)
		s.selected = nil
		s.publish(Selected{Node: nil})
		s.pushRows()
		return true, nil
	}

	node.State.Selected = true
	s.rows[i] = s.render(node)
	if prev := s.selected; prev != nil {
		prev.State.Selected = false
		s.rerender(prev)
	}
	s.selected = node
	s.publish(Selected{Node: node})
	s.pushRows()
	return true, nil
}

// AddChild appends child as the last child of parent. A nil parent adds a
// new root. Returns false with no error when child is nil.
func (s *Store[R]) AddChild(parent, child *Node) (bool, error) {
	idx := len(s.roots)
	if parent != nil {
		idx = len(parent.Children)
	}
	return s.AddChildAt(parent, child, idx)
}

// AddChildAt inserts child into parent's children at position idx
// (clamped). A nil parent inserts at the root level. If the insertion
// point is currently visible the child's subtree is spliced into the
// projection and every strict ancestor's Total grows by the visible
// length. Returns false with no error when child is nil or already
// attached somewhere; ErrNotVisible when parent is neither nil nor part
// of the current tree.
func (s *Store[R]) AddChildAt(parent, child *Node, idx int) (bool, error) {
	if s.notifying {
		return false, ErrReentrantMutation
	}
	if child == nil {
		return false, nil
	}
	// An attached child keeps its place; inserting it again would give it
	// two memberships and duplicate its flat entries.
	if child.Parent != nil || slices.Contains(s.roots, child) {
		return false, nil
	}

	siblings := s.roots
	parentIdx := -1
	if parent != nil {
		parentIdx = s.flatIndex(parent)
		if parentIdx < 0 && !s.knownNode(parent) {
			return false, notVisible(parent)
		}
		siblings = parent.Children
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(siblings) {
		idx = len(siblings)
	}

	child.Parent = parent
	linkParents(child.Children, child)

	if parent == nil {
		s.roots = slices.Insert(s.roots, idx, child)
	} else {
		parent.Children = slices.Insert(parent.Children, idx, child)
		if !parent.State.More {
			// A former leaf can carry a stale Open flag from the data it
			// was built from; it becomes open only through Open, which
			// also registers it in the open set.
			parent.State.Open = false
			parent.State.More = true
		}
	}

	visible := parent == nil || (parentIdx >= 0 && parent.State.Open)
	if visible {
		depth := 0
		at := 0 // splice position: one past the last preceding visible entry
		if parent != nil {
			depth = parent.State.Depth + 1
			at = parentIdx + 1
		}
		for _, sib := range siblings[:idx] {
			if parent == nil {
				at = s.flatIndex(sib) + 1 + sib.State.Total
			} else {
				at += 1 + sib.State.Total
			}
		}

		sub := Flatten([]*Node{child}, FlattenOptions{Depth: depth})
		subRows := make([]R, len(sub))
		for j, n := range sub {
			subRows[j] = s.render(n)
		}
		s.nodes = slices.Insert(s.nodes, at, sub...)
		s.rows = slices.Insert(s.rows, at, subRows...)

		if parent != nil {
			parent.State.Total += len(sub)
			s.bumpAncestors(parent, len(sub))
		}
		for _, n := range sub {
			s.index.Set(n.ID, n)
		}
	}

	if parentIdx >= 0 {
		s.rows[s.flatIndex(parent)] = s.render(parent)
	}
	s.pushRows()
	return true, nil
}

// AddSiblingBefore inserts child immediately before ref among ref's
// siblings. Returns ErrNotVisible when ref is not part of the visible
// sequence.
func (s *Store[R]) AddSiblingBefore(ref, child *Node) (bool, error) {
	if child == nil {
		return false, nil
	}
	if s.flatIndex(ref) < 0 {
		return false, notVisible(ref)
	}
	return s.AddChildAt(ref.Parent, child, s.siblingIndex(ref))
}

// AddSiblingAfter inserts child immediately after ref among ref's siblings.
func (s *Store[R]) AddSiblingAfter(ref, child *Node) (bool, error) {
	if child == nil {
		return false, nil
	}
	if s.flatIndex(ref) < 0 {
		return false, notVisible(ref)
	}
	return s.AddChildAt(ref.Parent, child, s.siblingIndex(ref)+1)
}

// Remove detaches node from the forest. If the node is visible, the node
// and its visible descendants leave the projection and every strict
// ancestor's Total shrinks accordingly. A selection inside the removed
// range moves to the parent, or clears for a removed root. Returns false
// with no error when node is nil or not part of the tree.
func (s *Store[R]) Remove(node *Node) (bool, error) {
	if s.notifying {
		return false, ErrReentrantMutation
	}
	if node == nil || !s.knownNode(node) {
		return false, nil
	}

	parent := node.Parent
	if parent == nil {
		ri := slices.Index(s.roots, node)
		s.roots = slices.Delete(s.roots, ri, ri+1)
	} else {
		ci := parent.childIndex(node)
		parent.Children = slices.Delete(parent.Children, ci, ci+1)
		parent.State.More = len(parent.Children) > 0
	}

	i := s.flatIndex(node)
	if i >= 0 {
		removed := 1 + node.State.Total

		if s.selected != nil {
			if si := s.flatIndex(s.selected); si >= i && si < i+removed {
				s.selected.State.Selected = false
				s.selected = nil
				if parent != nil {
					parent.State.Selected = true
					s.selected = parent
				}
			}
		}

		for _, n := range s.nodes[i : i+removed] {
			if s.index.Get(n.ID) == n {
				s.index.Delete(n.ID)
			}
		}
		s.nodes = slices.Delete(s.nodes, i, i+removed)
		s.rows = slices.Delete(s.rows, i, i+removed)
		s.bumpAncestors(node, -removed)
	} else {
		// Hidden subtree: only stale index entries need cleaning.
		Traverse(node, func(n *Node) {
			if s.index.Get(n.ID) == n {
				s.index.Delete(n.ID)
			}
		})
	}

	kept := s.openNodes[:0]
	for _, n := range s.openNodes {
		if n != node && !node.isAncestorOf(n) && n.State.More && n.State.Open {
			kept = append(kept, n)
		}
	}
	s.openNodes = kept
	node.Parent = nil

	if parent != nil {
		if pi := s.flatIndex(parent); pi >= 0 {
			s.rows[pi] = s.render(parent)
		}
	}
	debug.Log("remove %s", node.ID)
	s.publish(Removed{Node: node})
	s.pushRows()
	return true, nil
}

// Update merges data into node's payload and refreshes its row. Topology
// and state fields are unreachable through the payload, so nothing needs
// restoring after the merge. Returns ErrNotVisible when node is not part
// of the visible sequence.
func (s *Store[R]) Update(node *Node, data map[string]any) error {
	if s.notifying {
		return ErrReentrantMutation
	}
	i := s.flatIndex(node)
	if i < 0 {
		return notVisible(node)
	}
	if len(data) > 0 {
		if node.Data == nil {
			node.Data = make(map[string]any, len(data))
		}
		for k, v := range data {
			node.Data[k] = v
		}
	}
	s.rows[i] = s.render(node)
	s.pushRows()
	return nil
}

// Refresh re-renders every visible row and pushes the result. Used when
// the renderer's output changes for reasons outside the store, e.g. a
// width change.
func (s *Store[R]) Refresh() {
	for i, n := range s.nodes {
		s.rows[i] = s.render(n)
	}
	s.pushRows()
}

// NodeByID resolves an id to a node. The lookup index is consulted first;
// on a miss the visible sequence is scanned and a hit is written back into
// the index, so nodes added outside the indexed paths are still found.
func (s *Store[R]) NodeByID(id string) *Node {
	if id == "" {
		return nil
	}
	if n := s.index.Get(id); n != nil {
		return n
	}
	for _, n := range s.nodes {
		if n.ID == id {
			s.index.Set(id, n)
			return n
		}
	}
	return nil
}

// NotifyScroll re-emits a viewport scroll progress notification verbatim
// to the store's observers.
func (s *Store[R]) NotifyScroll(progress float64) {
	s.publish(ScrollProgress{Progress: progress})
}

// Roots returns the top-level nodes of the forest.
func (s *Store[R]) Roots() []*Node { return s.roots }

// Nodes returns the flat visible node sequence. Callers must treat it as
// read-only.
func (s *Store[R]) Nodes() []*Node { return s.nodes }

// Rows returns the rendered row sequence, index-parallel to Nodes.
// Callers must treat it as read-only.
func (s *Store[R]) Rows() []R { return s.rows }

// Len returns the number of visible nodes.
func (s *Store[R]) Len() int { return len(s.nodes) }

// OpenNodes returns the open set, most recently opened first.
func (s *Store[R]) OpenNodes() []*Node {
	return slices.Clone(s.openNodes)
}

// SelectedNode returns the current selection, or nil.
func (s *Store[R]) SelectedNode() *Node { return s.selected }

// IsOpen reports whether node is in the open set.
func (s *Store[R]) IsOpen(node *Node) bool {
	return slices.Contains(s.openNodes, node)
}

// Clear discards the whole forest and projection, keeping the renderer,
// viewport, and subscribers.
func (s *Store[R]) Clear() {
	s.roots = nil
	s.nodes = nil
	s.rows = nil
	s.openNodes = nil
	s.selected = nil
	s.index.Clear()
	s.pushRows()
}

// Destroy clears the store and tears down the attached viewport.
func (s *Store[R]) Destroy() {
	s.Clear()
	if s.viewport != nil {
		s.viewport.Destroy()
		s.viewport = nil
	}
	s.subs = nil
}

// flatIndex returns node's position in the visible sequence, or -1.
func (s *Store[R]) flatIndex(node *Node) int {
	if node == nil {
		return -1
	}
	return slices.Index(s.nodes, node)
}

// knownNode reports whether node is attached to this store's forest,
// visible or not.
func (s *Store[R]) knownNode(node *Node) bool {
	root := node
	for root.Parent != nil {
		root = root.Parent
	}
	return slices.Contains(s.roots, root)
}

// siblingIndex returns node's position among its siblings.
func (s *Store[R]) siblingIndex(node *Node) int {
	if node.Parent == nil {
		return slices.Index(s.roots, node)
	}
	return node.Parent.childIndex(node)
}

// bumpAncestors adds delta to the Total of every strict ancestor of node.
func (s *Store[R]) bumpAncestors(node *Node, delta int) {
	for p := node.Parent; p != nil; p = p.Parent {
		p.State.Total += delta
	}
}

// rerender refreshes node's row in place if the node is visible.
func (s *Store[R]) rerender(node *Node) {
	if i := s.flatIndex(node); i >= 0 {
		s.rows[i] = s.render(node)
	}
}

// publish delivers ev to every subscriber. Mutating operations are
// rejected while handlers run.
func (s *Store[R]) publish(ev Event) {
	if len(s.subs) == 0 {
		return
	}
	s.notifying = true
	defer func() { s.notifying = false }()
	for _, fn := range s.subs {
		fn(ev)
	}
}

func (s *Store[R]) pushRows() {
	if s.viewport != nil {
		s.viewport.Update(s.rows)
	}
}
