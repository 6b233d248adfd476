package tree

// FlattenOptions controls how Flatten projects a forest.
type FlattenOptions struct {
	// OpenAll forces every expandable node open, overriding per-node Open
	// flags. Used by Load's auto-open mode.
	OpenAll bool
	// Depth is the depth assigned to the top level of the given forest.
	// Zero for roots; openers pass parent depth + 1 when flattening a
	// subtree alone.
	Depth int
}

// Flatten projects a nested forest into the ordered sequence of currently
// visible nodes in depth-first pre-order. It assigns State.Depth and
// State.More for every visited node and State.Total for every emitted node:
// Total counts the node's descendants included in the result, so a closed
// node emits with Total 0 even if its hidden subtree is large.
//
// Flatten is deterministic and order-stable: same forest, same open flags,
// same output. It never mutates topology.
func Flatten(forest []*Node, opts FlattenOptions) []*Node {
	var out []*Node
	for _, n := range forest {
		out = flattenInto(out, n, opts.Depth, opts.OpenAll)
	}
	return out
}

// flattenInto appends node and its visible descendants to out and returns
// the extended slice. The node's Total is the number of entries appended
// after it.
func flattenInto(out []*Node, node *Node, depth int, openAll bool) []*Node {
	if node == nil {
		return out
	}
	node.State.Depth = depth
	node.State.More = len(node.Children) > 0
	if openAll && node.State.More {
		node.State.Open = true
	}

	out = append(out, node)
	at := len(out) - 1

	if node.State.More && node.State.Open {
		for _, child := range node.Children {
			out = flattenInto(out, child, depth+1, openAll)
		}
	}
	node.State.Total = len(out) - 1 - at
	return out
}
