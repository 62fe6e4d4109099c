// Package store provides the transactional document-store adapter the
// casefile engine runs on. Two implementations exist: MongoStore for real
// deployments and MemStore for tests and local development. Both encode
// documents with BSON so model struct tags behave identically.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	CollectionCasefiles = "casefiles"
	CollectionUsers     = "users"
	CollectionSessions  = "sessions"
)

var (
	// ErrNoDoc is returned when the requested document does not exist.
	ErrNoDoc = errors.New("document not found")

	// ErrUnavailable means the underlying store could not be reached. The
	// adapter does not retry; retry policy belongs to callers.
	ErrUnavailable = errors.New("document store unavailable")

	// ErrTxnConflict means a transaction was aborted by a concurrent write.
	// Callers may retry the whole operation.
	ErrTxnConflict = errors.New("transaction aborted by concurrent write")
)

// Store is the document-store contract. All operations honor the context.
type Store interface {
	// Get decodes the document into dest, or returns ErrNoDoc.
	Get(ctx context.Context, collection, id string, dest any) error

	// GetAll returns every document in the collection as raw BSON.
	GetAll(ctx context.Context, collection string) ([]bson.Raw, error)

	// Save upserts the document under the given ID.
	Save(ctx context.Context, collection, id string, doc any) error

	// Delete removes the document, reporting whether it existed.
	Delete(ctx context.Context, collection, id string) (bool, error)

	// AddToSet atomically unions values into an array field of an existing
	// document, applying the scalar sets in the same write. Returns ErrNoDoc
	// when the document is absent.
	AddToSet(ctx context.Context, collection, id, field string, values []any, set map[string]any) error

	// RunTransaction executes fn with a transaction handle. The handle is
	// only valid for the duration of the call. fn may run more than once if
	// the store retries on conflict; it must not capture outside mutable
	// state beyond what it re-reads through the handle.
	RunTransaction(ctx context.Context, fn func(txn Txn) error) error
}

// Txn is the handle threaded through transactional mutators.
type Txn interface {
	Get(collection, id string, dest any) error
	Set(collection, id string, doc any) error
	Delete(collection, id string) error
}
