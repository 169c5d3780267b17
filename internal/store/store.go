// Package store defines the port for a collection-oriented document store.
//
// The rest of the codebase treats persistence as opaque create/read/update
// operations on JSON documents, keyed by a store-generated identifier. The
// checkout and callback flows depend on this abstraction, not on SQLite
// directly, so the implementation can be swapped for Mongo, Postgres JSONB,
// in-memory (tests), etc.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by FindOne when no document matches.
	ErrNotFound = errors.New("store: document not found")

	// ErrUnavailable wraps failures to reach the underlying database.
	ErrUnavailable = errors.New("store: unavailable")
)

// IDField is the reserved filter key that matches a document's identifier
// instead of a field inside its body.
const IDField = "_id"

// Filter selects documents by exact field match. The key "_id" matches the
// document id; any other key matches a top-level field of the JSON body.
type Filter map[string]any

// Patch is a set of top-level fields merged into a stored document.
// Fields absent from the patch are left untouched.
type Patch map[string]any

// Document is a stored record: its identifier plus the raw JSON body.
type Document struct {
	ID   string
	Body json.RawMessage
}

// Decode unmarshals the document body into v.
func (d Document) Decode(v any) error {
	if err := json.Unmarshal(d.Body, v); err != nil {
		return fmt.Errorf("store: decode document %q: %w", d.ID, err)
	}
	return nil
}

// Store is the persistence port. Implementations must be safe for
// concurrent use; no transactional guarantees are offered across
// collections, and concurrent patches of the same document resolve
// last-write-wins.
type Store interface {
	// Create marshals doc, stores it under a newly generated identifier in
	// the given collection, and returns that identifier.
	Create(ctx context.Context, collection string, doc any) (string, error)

	// UpdateOne merges patch into the first document matching filter.
	// It reports whether a document matched; an unmatched filter is not
	// an error.
	UpdateOne(ctx context.Context, collection string, filter Filter, patch Patch) (bool, error)

	// FindOne returns the first document matching filter, or ErrNotFound.
	FindOne(ctx context.Context, collection string, filter Filter) (Document, error)

	// Collections lists the collection names present in the store.
	// Diagnostics only; not part of the business contract.
	Collections(ctx context.Context) ([]string, error)

	// Ping verifies connectivity to the underlying database.
	Ping(ctx context.Context) error
}
