// Package store persists saved diagram definitions for the HTTP service.
//
// A stored record holds the raw definition (as it would appear in a
// manifest file), not rendered output; rendering happens on demand, and
// rendered artifacts belong to the cache. Backends:
//
//   - [MemoryStore]: in-process map, for development and tests
//   - [MongoStore]: MongoDB collection, for deployments
package store

import (
	"context"
	"time"

	"github.com/machviz/machina/pkg/manifest"
)

// Record is a saved diagram definition.
// Exactly one of FSM or Digraph is set, matching Kind.
type Record struct {
	ID        string               `json:"id" bson:"_id"`
	Name      string               `json:"name" bson:"name"`
	Kind      string               `json:"kind" bson:"kind"` // manifest.KindFSM or manifest.KindDigraph
	FSM       *manifest.FSMDef     `json:"fsm,omitempty" bson:"fsm,omitempty"`
	Digraph   *manifest.DigraphDef `json:"digraph,omitempty" bson:"digraph,omitempty"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
}

// Store is the interface for diagram persistence backends.
type Store interface {
	// Put inserts or replaces a record by ID.
	Put(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID. Missing records return a NOT_FOUND
	// error.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all records ordered by creation time.
	List(ctx context.Context) ([]*Record, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
