package tree

// Index is the id -> node lookup cache. It is an optimization, never
// authoritative: the Store's flat node sequence decides what is visible,
// and a later Set for the same id simply overwrites the earlier entry.
type Index struct {
	byID map[string]*Node
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byID: make(map[string]*Node)}
}

// Set records node under id. Nodes without an id are not indexable and
// the call is a no-op.
func (ix *Index) Set(id string, node *Node) {
	if id == "" {
		return
	}
	ix.byID[id] = node
}

// Get returns the node recorded under id, or nil.
func (ix *Index) Get(id string) *Node {
	return ix.byID[id]
}

// Delete removes the entry for id, if any.
func (ix *Index) Delete(id string) {
	delete(ix.byID, id)
}

// Clear drops every entry.
func (ix *Index) Clear() {
	ix.byID = make(map[string]*Node)
}

// Len returns the number of indexed nodes.
func (ix *Index) Len() int {
	return len(ix.byID)
}
