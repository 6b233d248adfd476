package datasource

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/treelist/pkg/tree"
)

func createNodesDB(t *testing.T, rows [][5]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nodes.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE nodes (
		id        TEXT PRIMARY KEY,
		parent_id TEXT,
		position  INTEGER NOT NULL DEFAULT 0,
		open      INTEGER NOT NULL DEFAULT 0,
		payload   TEXT
	)`); err != nil {
		t.Fatal(err)
	}
	for _, r := range rows {
		if _, err := db.Exec(
			`INSERT INTO nodes (id, parent_id, position, open, payload) VALUES (?, ?, ?, ?, ?)`,
			r[0], r[1], r[2], r[3], r[4]); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func openReader(t *testing.T, path string) *SQLiteReader {
	t.Helper()
	reader, err := NewSQLiteReader(SourceFor(path))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { reader.Close() })
	return reader
}

func TestSQLiteLoadForest(t *testing.T) {
	path := createNodesDB(t, [][5]any{
		{"a", nil, 0, 1, `{"title":"Alpha"}`},
		{"b", "a", 0, 0, `{"title":"Bravo"}`},
		{"c", "a", 1, 0, nil},
		{"d", nil, 1, 0, `{"title":"Delta","weight":2}`},
	})

	forest, err := openReader(t, path).LoadForest()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(forest) != 2 {
		t.Fatalf("got %d roots, want 2", len(forest))
	}

	a := forest[0]
	if a.ID != "a" || !a.State.Open {
		t.Errorf("root decoded wrong: id=%q open=%v", a.ID, a.State.Open)
	}
	if a.Str("title") != "Alpha" {
		t.Errorf("payload title = %q", a.Str("title"))
	}
	if len(a.Children) != 2 || a.Children[0].ID != "b" || a.Children[1].ID != "c" {
		t.Fatalf("children wrong: %v", a.Children)
	}
	if a.Children[0].Parent != a {
		t.Error("child back-link not set")
	}
	if forest[1].Data["weight"].(float64) != 2 {
		t.Errorf("weight = %v", forest[1].Data["weight"])
	}
}

func TestSQLitePositionOrder(t *testing.T) {
	// Insert out of position order; siblings must come back sorted.
	path := createNodesDB(t, [][5]any{
		{"root", nil, 0, 1, nil},
		{"third", "root", 2, 0, nil},
		{"first", "root", 0, 0, nil},
		{"second", "root", 1, 0, nil},
	})

	forest, err := openReader(t, path).LoadForest()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	kids := forest[0].Children
	if len(kids) != 3 || kids[0].ID != "first" || kids[1].ID != "second" || kids[2].ID != "third" {
		ids := make([]string, len(kids))
		for i, k := range kids {
			ids[i] = k.ID
		}
		t.Fatalf("sibling order = %v", ids)
	}
}

func TestSQLiteMissingParentBecomesRoot(t *testing.T) {
	path := createNodesDB(t, [][5]any{
		{"orphan", "gone", 0, 0, nil},
	})

	forest, err := openReader(t, path).LoadForest()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(forest) != 1 || forest[0].ID != "orphan" {
		t.Fatalf("orphan should surface as a root: %v", forest)
	}
}

func TestSQLiteBadPayload(t *testing.T) {
	path := createNodesDB(t, [][5]any{
		{"x", nil, 0, 0, `{broken`},
	})

	if _, err := openReader(t, path).LoadForest(); err == nil {
		t.Fatal("corrupt payload must error")
	}
}

func TestSQLiteEmptyTable(t *testing.T) {
	path := createNodesDB(t, nil)

	forest, err := openReader(t, path).LoadForest()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(forest) != 0 {
		t.Errorf("got %d roots from an empty table", len(forest))
	}
}

func TestSQLiteReaderRejectsWrongType(t *testing.T) {
	if _, err := NewSQLiteReader(SourceFor("data.jsonl")); err == nil {
		t.Fatal("JSONL source must be rejected")
	}
}

func TestSQLiteLoadIsUsableByStore(t *testing.T) {
	path := createNodesDB(t, [][5]any{
		{"a", nil, 0, 1, `{"title":"Alpha"}`},
		{"b", "a", 0, 0, nil},
	})

	forest, err := openReader(t, path).LoadForest()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	s := tree.New(func(n *tree.Node) string { return n.ID })
	if err := s.Load(forest, false); err != nil {
		t.Fatalf("store load: %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("visible nodes = %d, want 2 (a open with child b)", s.Len())
	}
}
