// Package datasource discovers, validates, and loads node forests for the
// treelist demo from JSONL files and SQLite databases, preferring the
// freshest valid source when several exist.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SourceType identifies the type of data source.
type SourceType string

const (
	// SourceTypeSQLite is a SQLite database (nodes.db).
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeJSONL is a line-delimited JSON file, one root per line.
	SourceTypeJSONL SourceType = "jsonl"
)

// Priority values for source types (higher = more authoritative).
const (
	PrioritySQLite = 100
	PriorityJSONL  = 50
)

// DataSource represents a potential source of forest data.
type DataSource struct {
	Type     SourceType
	Path     string
	Priority int
	ModTime  time.Time
}

// Discover scans dir for loadable sources.
func Discover(dir string) ([]DataSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	var sources []DataSource
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		var st SourceType
		var prio int
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jsonl":
			st, prio = SourceTypeJSONL, PriorityJSONL
		case ".db", ".sqlite", ".sqlite3":
			st, prio = SourceTypeSQLite, PrioritySQLite
		default:
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		sources = append(sources, DataSource{
			Type:     st,
			Path:     path,
			Priority: prio,
			ModTime:  info.ModTime(),
		})
	}
	return sources, nil
}

// SelectBest picks the freshest source; priority breaks mtime ties.
func SelectBest(sources []DataSource) (DataSource, error) {
	if len(sources) == 0 {
		return DataSource{}, fmt.Errorf("no data sources found")
	}
	sorted := make([]DataSource, len(sources))
	copy(sorted, sources)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].ModTime.Equal(sorted[j].ModTime) {
			return sorted[i].ModTime.After(sorted[j].ModTime)
		}
		return sorted[i].Priority > sorted[j].Priority
	})
	return sorted[0], nil
}

// SourceFor builds a DataSource for an explicit path, inferring the type
// from the extension. Unknown extensions are treated as JSONL.
func SourceFor(path string) DataSource {
	st, prio := SourceTypeJSONL, PriorityJSONL
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		st, prio = SourceTypeSQLite, PrioritySQLite
	}
	return DataSource{Type: st, Path: path, Priority: prio}
}
