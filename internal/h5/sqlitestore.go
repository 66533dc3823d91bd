package h5

import (
	"database/sql"
	"fmt"

	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists the hierarchy as a single SQLite file — one row
// per node, keyed by path, with dataset payloads and attribute maps
// stored as JSON text.
//
// journal_mode=DELETE: after commit, the .db file IS the serialized form
// of the export — no WAL sidecar to ship alongside it.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the backing file and its nodes table.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// Exports are single-threaded; a second connection only invites
	// SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=DELETE"); err != nil {
		_ = db.Close() // ignore error
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		_ = db.Close() // ignore error
		return nil, fmt.Errorf("set synchronous: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS nodes (
			path TEXT PRIMARY KEY,
			parent TEXT NOT NULL,
			name TEXT NOT NULL,
			kind INTEGER NOT NULL,
			value TEXT,
			attrs TEXT,
			target TEXT
		);
		CREATE INDEX IF NOT EXISTS nodes_parent ON nodes(parent);
	`)
	if err != nil {
		_ = db.Close() // ignore error
		return nil, fmt.Errorf("create nodes table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) GetNode(path string) (*Node, error) {
	var kind int
	var value, attrs, target sql.NullString
	err := s.db.QueryRow(
		"SELECT kind, value, attrs, target FROM nodes WHERE path = ?", path,
	).Scan(&kind, &value, &attrs, &target)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get node %q: %w", path, err)
	}

	n := &Node{Path: path, Kind: Kind(kind), Target: target.String}
	if value.Valid {
		v, err := oj.ParseString(value.String)
		if err != nil {
			return nil, fmt.Errorf("decode value of %q: %w", path, err)
		}
		n.Value = v
	}
	if attrs.Valid {
		v, err := oj.ParseString(attrs.String)
		if err != nil {
			return nil, fmt.Errorf("decode attrs of %q: %w", path, err)
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("decode attrs of %q: not an object", path)
		}
		n.Attrs = m
	}
	return n, nil
}

func (s *SQLiteStore) PutNode(n *Node) error {
	parent, name := splitPath(n.Path)

	var value, attrs, target any
	if n.Kind == KindDataset {
		value = oj.JSON(n.Value)
	}
	if len(n.Attrs) > 0 {
		attrs = oj.JSON(n.Attrs)
	}
	if n.Kind == KindLink {
		target = n.Target
	}

	// Upsert keeps the original rowid, so ListChildren ordering is stable
	// across attribute updates.
	_, err := s.db.Exec(`
		INSERT INTO nodes (path, parent, name, kind, value, attrs, target)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			kind = excluded.kind,
			value = excluded.value,
			attrs = excluded.attrs,
			target = excluded.target
	`, n.Path, parent, name, int(n.Kind), value, attrs, target)
	if err != nil {
		return fmt.Errorf("put node %q: %w", n.Path, err)
	}
	return nil
}

func (s *SQLiteStore) ListChildren(path string) ([]string, error) {
	if _, err := s.GetNode(path); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		"SELECT name FROM nodes WHERE parent = ? AND path <> '' ORDER BY rowid", path,
	)
	if err != nil {
		return nil, fmt.Errorf("list children of %q: %w", path, err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list children of %q: %w", path, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list children of %q: %w", path, err)
	}
	return names, nil
}

// Close closes the backing database. The caller owns the file lifecycle;
// nothing in the nexus package ever calls this.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Verify interface compliance at compile time.
var _ Store = (*SQLiteStore)(nil)
