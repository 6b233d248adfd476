package datasource

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/treelist/pkg/tree"
)

// maxLineBytes bounds a single JSONL line; deeply nested roots can get
// large but anything past this is almost certainly a corrupt file.
const maxLineBytes = 16 * 1024 * 1024

// Reserved keys of the wire format. Everything else on a node object is
// opaque payload and lands in Node.Data untouched.
const (
	keyID       = "id"
	keyOpen     = "open"
	keyChildren = "children"
)

// LoadJSONL reads a forest from a line-delimited JSON file: one root node
// object per line, children nested under "children". Blank lines and
// #-comments are skipped; a malformed line is an error with its line
// number.
func LoadJSONL(path string) ([]*tree.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var forest []*tree.Node
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var raw map[string]any
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		node, err := decodeNode(raw)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		forest = append(forest, node)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return forest, nil
}

// decodeNode converts a decoded JSON object into a Node. Reserved keys map
// to the node's id, open flag, and children; the rest is payload.
func decodeNode(raw map[string]any) (*tree.Node, error) {
	n := &tree.Node{}
	for k, v := range raw {
		switch k {
		case keyID:
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("node id must be a string, got %T", v)
			}
			n.ID = s
		case keyOpen:
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("node open flag must be a bool, got %T", v)
			}
			n.State.Open = b
		case keyChildren:
			kids, ok := v.([]any)
			if !ok {
				return nil, fmt.Errorf("node children must be an array, got %T", v)
			}
			for _, kid := range kids {
				m, ok := kid.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("child must be an object, got %T", kid)
				}
				child, err := decodeNode(m)
				if err != nil {
					return nil, err
				}
				n.Append(child)
			}
		default:
			if n.Data == nil {
				n.Data = make(map[string]any)
			}
			n.Data[k] = v
		}
	}
	return n, nil
}
