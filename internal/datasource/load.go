package datasource

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/treelist/pkg/debug"
	"github.com/vanderheijden86/treelist/pkg/tree"
)

// LoadForest loads a forest from a single path, dispatching on the source
// type inferred from the extension.
func LoadForest(path string) ([]*tree.Node, error) {
	return LoadFromSource(SourceFor(path))
}

// LoadFromSource loads a forest from a specific DataSource.
func LoadFromSource(source DataSource) ([]*tree.Node, error) {
	start := time.Now()
	defer func() { debug.LogTiming("datasource load "+source.Path, time.Since(start)) }()

	switch source.Type {
	case SourceTypeJSONL:
		return LoadJSONL(source.Path)
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return reader.LoadForest()
	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

// LoadDir discovers sources in dir and loads the freshest one.
func LoadDir(dir string) ([]*tree.Node, error) {
	sources, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	best, err := SelectBest(sources)
	if err != nil {
		return nil, err
	}
	return LoadFromSource(best)
}

// LoadFiles loads several forest files concurrently and concatenates the
// results in input order, so sharded data sets merge deterministically.
func LoadFiles(paths []string) ([]*tree.Node, error) {
	forests := make([][]*tree.Node, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		g.Go(func() error {
			forest, err := LoadForest(path)
			if err != nil {
				return err
			}
			forests[i] = forest
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var merged []*tree.Node
	for _, f := range forests {
		merged = append(merged, f...)
	}
	return merged, nil
}
