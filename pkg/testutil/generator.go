// Package testutil provides synthetic forest generators shared by tests
// and benchmarks.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vanderheijden86/treelist/pkg/tree"
)

// Forest generates a regular forest: roots top-level nodes, each non-leaf
// carrying childrenPerNode children, down to the given depth (depth 0 =
// leaves only). Ids are unique and stable across calls.
func Forest(roots, childrenPerNode, depth int) []*tree.Node {
	counter := 0
	var build func(level int) *tree.Node
	build = func(level int) *tree.Node {
		counter++
		n := tree.NewNode(fmt.Sprintf("n-%d", counter), map[string]any{
			"title": fmt.Sprintf("Node %d at depth %d", counter, level),
		})
		if level < depth {
			for i := 0; i < childrenPerNode; i++ {
				n.Append(build(level + 1))
			}
		}
		return n
	}

	forest := make([]*tree.Node, 0, roots)
	for i := 0; i < roots; i++ {
		forest = append(forest, build(0))
	}
	return forest
}

// RandomForest generates total nodes with random shape using the given
// seed: each node after the first attaches to a uniformly chosen earlier
// node or becomes a root. Deterministic per seed.
func RandomForest(total int, seed int64) []*tree.Node {
	rng := rand.New(rand.NewSource(seed))
	var forest []*tree.Node
	var all []*tree.Node
	for i := 0; i < total; i++ {
		n := tree.NewNode(fmt.Sprintf("r-%d", i), map[string]any{
			"title": fmt.Sprintf("Random %d", i),
		})
		if len(all) == 0 || rng.Intn(4) == 0 {
			forest = append(forest, n)
		} else {
			all[rng.Intn(len(all))].Append(n)
		}
		all = append(all, n)
	}
	return forest
}

// ToJSONL renders a forest in the datasource wire format, one root per
// line. Only ids, open flags, titles, and children are emitted, which is
// all the loader round-trip tests need.
func ToJSONL(forest []*tree.Node) string {
	var sb strings.Builder
	for _, root := range forest {
		sb.WriteString(encodeNode(root))
		sb.WriteString("\n")
	}
	return sb.String()
}

func encodeNode(n *tree.Node) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`{"id":%q`, n.ID))
	if title := n.Str("title"); title != "" {
		sb.WriteString(fmt.Sprintf(`,"title":%q`, title))
	}
	if n.State.Open {
		sb.WriteString(`,"open":true`)
	}
	if len(n.Children) > 0 {
		sb.WriteString(`,"children":[`)
		for i, c := range n.Children {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(encodeNode(c))
		}
		sb.WriteString("]")
	}
	sb.WriteString("}")
	return sb.String()
}

// CountNodes returns the total node count of a forest, visible or not.
func CountNodes(forest []*tree.Node) int {
	count := 0
	for _, root := range forest {
		tree.Traverse(root, func(*tree.Node) { count++ })
	}
	return count
}
