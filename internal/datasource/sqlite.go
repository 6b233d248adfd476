package datasource

import (
	"database/sql"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/treelist/pkg/tree"
)

// SQLiteReader provides read access to a nodes SQLite database.
//
// Expected schema:
//
//	CREATE TABLE nodes (
//	    id        TEXT PRIMARY KEY,
//	    parent_id TEXT,
//	    position  INTEGER NOT NULL DEFAULT 0,
//	    open      INTEGER NOT NULL DEFAULT 0,
//	    payload   TEXT            -- JSON object, opaque to the engine
//	);
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading.
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	return &SQLiteReader{db: db, path: source.Path}, nil
}

// Close closes the database connection.
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

type sqliteRow struct {
	id       string
	parentID sql.NullString
	position int
	open     bool
	payload  sql.NullString
}

// LoadForest reads every node row and reassembles the forest, attaching
// children to parents in position order. Rows pointing at a missing
// parent become roots rather than being dropped.
func (r *SQLiteReader) LoadForest() ([]*tree.Node, error) {
	rows, err := r.db.Query(
		`SELECT id, parent_id, position, open, payload FROM nodes`)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	var records []sqliteRow
	for rows.Next() {
		var rec sqliteRow
		var open int
		if err := rows.Scan(&rec.id, &rec.parentID, &rec.position, &open, &rec.payload); err != nil {
			return nil, fmt.Errorf("scan node row: %w", err)
		}
		rec.open = open != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].position < records[j].position
	})

	byID := make(map[string]*tree.Node, len(records))
	for _, rec := range records {
		n := &tree.Node{ID: rec.id}
		n.State.Open = rec.open
		if rec.payload.Valid && rec.payload.String != "" {
			if err := json.Unmarshal([]byte(rec.payload.String), &n.Data); err != nil {
				return nil, fmt.Errorf("node %s: bad payload: %w", rec.id, err)
			}
		}
		byID[rec.id] = n
	}

	var forest []*tree.Node
	for _, rec := range records {
		n := byID[rec.id]
		if rec.parentID.Valid && rec.parentID.String != "" {
			if parent, ok := byID[rec.parentID.String]; ok && parent != n {
				parent.Append(n)
				continue
			}
		}
		forest = append(forest, n)
	}
	return forest, nil
}
