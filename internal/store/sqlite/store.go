// Package sqlite provides a SQLite-backed implementation of store.Store.
//
// Documents are rows in a single table, one JSON body per row, namespaced by
// a collection column. WAL mode is enabled on Open so that readers never
// block writers — a checkout may be writing an order while a gateway
// callback is reading one.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brewline/storefront/internal/store"

	// Register the pure-Go SQLite driver.
	// modernc.org/sqlite avoids CGO, which keeps Docker (Alpine) builds simple.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup.
// There is one table for every collection: the collection column namespaces
// the documents, and the body is stored as JSON TEXT so filters can reach
// into it with json_extract.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
    -- Namespace, e.g. "order" or "order_callbacks".
    collection  TEXT NOT NULL,

    -- Store-generated identifier, returned to callers on Create.
    id          TEXT NOT NULL,

    -- The document body as JSON.
    doc         TEXT NOT NULL,

    -- Wall-clock insert time (RFC3339 stored as TEXT, SQLite idiom).
    created_at  TEXT NOT NULL,

    PRIMARY KEY (collection, id)
);

-- Index for filtered lookups within one collection.
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, created_at);
`

// Store is the SQLite implementation of store.Store.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	st, err := sqlite.Open("./data/storefront.db")
func Open(path string) (*Store, error) {
	// The pure-Go driver configures connection state via _pragma query
	// parameters. WAL enables concurrent readers; busy_timeout waits for
	// locks instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3", for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", store.ErrUnavailable, path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %q: %v", store.ErrUnavailable, path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts doc under a fresh UUID and returns it.
func (s *Store) Create(ctx context.Context, collection string, doc any) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("sqlite: marshal document for %q: %w", collection, err)
	}

	id := uuid.NewString()
	const q = `INSERT INTO documents (collection, id, doc, created_at) VALUES (?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, q, collection, id, string(body), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("sqlite: insert into %q: %w", collection, err)
	}
	return id, nil
}

// FindOne returns the first document in collection matching filter.
func (s *Store) FindOne(ctx context.Context, collection string, filter store.Filter) (store.Document, error) {
	where, args := buildWhere(collection, filter)
	q := `SELECT id, doc FROM documents WHERE ` + where + ` LIMIT 1`

	var d store.Document
	var body string
	err := s.db.QueryRowContext(ctx, q, args...).Scan(&d.ID, &body)
	if err == sql.ErrNoRows {
		return store.Document{}, store.ErrNotFound
	}
	if err != nil {
		return store.Document{}, fmt.Errorf("sqlite: find in %q: %w", collection, err)
	}
	d.Body = json.RawMessage(body)
	return d, nil
}

// UpdateOne merges patch into the first matching document.
//
// The merge is a read-modify-write inside a transaction: the body is
// decoded into a map, the patch fields overwrite or add top-level keys,
// and the result is written back. With a single writer connection this
// gives last-write-wins semantics between concurrent patches.
func (s *Store) UpdateOne(ctx context.Context, collection string, filter store.Filter, patch store.Patch) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("sqlite: begin update in %q: %w", collection, err)
	}
	defer tx.Rollback()

	where, args := buildWhere(collection, filter)
	q := `SELECT id, doc FROM documents WHERE ` + where + ` LIMIT 1`

	var id, body string
	err = tx.QueryRowContext(ctx, q, args...).Scan(&id, &body)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: find for update in %q: %w", collection, err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return false, fmt.Errorf("sqlite: decode document %q: %w", id, err)
	}
	for k, v := range patch {
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("sqlite: encode document %q: %w", id, err)
	}

	const upd = `UPDATE documents SET doc = ? WHERE collection = ? AND id = ?`
	if _, err := tx.ExecContext(ctx, upd, string(merged), collection, id); err != nil {
		return false, fmt.Errorf("sqlite: update %q in %q: %w", id, collection, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("sqlite: commit update in %q: %w", collection, err)
	}
	return true, nil
}

// Collections lists the distinct collection names present in the store.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT collection FROM documents ORDER BY collection`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite: scan collection name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// buildWhere translates a store.Filter into a WHERE clause. The reserved
// "_id" key matches the id column; every other key matches a top-level JSON
// field via json_extract. Field names are bound as json paths, values as
// ordinary parameters.
func buildWhere(collection string, filter store.Filter) (string, []any) {
	clauses := []string{"collection = ?"}
	args := []any{collection}

	for field, value := range filter {
		if field == store.IDField {
			clauses = append(clauses, "id = ?")
			args = append(args, value)
			continue
		}
		clauses = append(clauses, "json_extract(doc, ?) = ?")
		args = append(args, "$."+field, value)
	}
	return strings.Join(clauses, " AND "), args
}
