package tree

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrNotVisible reports an operation against a node that is not a
	// member of the current visible sequence. This is a programmer error,
	// not a recoverable runtime condition; the store is left unmodified.
	ErrNotVisible = errors.New("node not in visible tree")

	// ErrReentrantMutation reports a mutating call made from inside an
	// event handler fired by another mutation on the same store.
	ErrReentrantMutation = errors.New("reentrant mutation from event handler")
)

// notVisible wraps ErrNotVisible with the offending node's id for
// diagnostics.
func notVisible(n *Node) error {
	id := "<no id>"
	if n != nil && n.ID != "" {
		id = n.ID
	}
	return fmt.Errorf("%w: %s", ErrNotVisible, id)
}
