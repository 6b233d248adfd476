package tree

// Event is a notification published by the store after a mutation
// completes. Delivery order matches the order operations complete, and
// handlers run synchronously on the mutating goroutine. A handler must not
// call back into a mutating operation of the same store; such calls fail
// with ErrReentrantMutation.
type Event interface {
	event()
}

// Opened is published after a node's subtree becomes visible.
type Opened struct {
	Node *Node
}

// Closed is published after a node's subtree is removed from view.
type Closed struct {
	Node *Node
}

// Selected is published after the selection changes. Node is nil when the
// selection was cleared.
type Selected struct {
	Node *Node
}

// Removed is published after a node is detached from the forest.
type Removed struct {
	Node *Node
}

// ScrollProgress is re-emitted verbatim from the viewport adapter.
// Progress is in [0, 1].
type ScrollProgress struct {
	Progress float64
}

func (Opened) event()         {}
func (Closed) event()         {}
func (Selected) event()       {}
func (Removed) event()        {}
func (ScrollProgress) event() {}
