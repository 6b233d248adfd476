package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vanderheijden86/treelist/pkg/testutil"
)

func TestLoadForestDispatch(t *testing.T) {
	jsonlPath := writeJSONL(t, `{"id":"j"}`+"\n")
	forest, err := LoadForest(jsonlPath)
	if err != nil {
		t.Fatalf("jsonl dispatch: %v", err)
	}
	if len(forest) != 1 || forest[0].ID != "j" {
		t.Fatalf("jsonl forest: %v", forest)
	}

	dbPath := createNodesDB(t, [][5]any{{"s", nil, 0, 0, nil}})
	forest, err = LoadForest(dbPath)
	if err != nil {
		t.Fatalf("sqlite dispatch: %v", err)
	}
	if len(forest) != 1 || forest[0].ID != "s" {
		t.Fatalf("sqlite forest: %v", forest)
	}
}

func TestLoadDirPicksFreshest(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "stale.jsonl")
	if err := os.WriteFile(stale, []byte(`{"id":"stale"}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := osStatMtime(t, stale).Add(-2 * time.Second)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}
	fresh := filepath.Join(dir, "fresh.jsonl")
	if err := os.WriteFile(fresh, []byte(`{"id":"fresh"}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	forest, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(forest) != 1 || forest[0].ID != "fresh" {
		t.Fatalf("wrong source loaded: %v", forest)
	}
}

func TestLoadFilesMergesInOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 4; i++ {
		path := filepath.Join(dir, fmt.Sprintf("shard-%d.jsonl", i))
		content := testutil.ToJSONL(testutil.Forest(2, 2, 1))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}

	merged, err := LoadFiles(paths)
	if err != nil {
		t.Fatalf("load files: %v", err)
	}
	if len(merged) != 8 {
		t.Fatalf("merged %d roots, want 8", len(merged))
	}
}

func TestLoadFilesPropagatesError(t *testing.T) {
	good := writeJSONL(t, `{"id":"ok"}`+"\n")
	bad := filepath.Join(t.TempDir(), "missing.jsonl")

	if _, err := LoadFiles([]string{good, bad}); err == nil {
		t.Fatal("missing shard must fail the whole load")
	}
}

func osStatMtime(t *testing.T, path string) time.Time {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	return info.ModTime()
}
