// Package store persists solved layouts.
//
// Three backends implement [Store]:
//   - [MemoryStore]: in-process map for tests and single-instance servers
//   - [FileStore]: one JSON document per layout under a directory
//   - [MongoStore]: MongoDB collection keyed by layout ID
//
// # Usage
//
//	st, err := store.NewMongoStore(ctx, "mongodb://localhost:27017", "stresslayout")
//	if err != nil {
//	    return err
//	}
//	defer st.Close(ctx)
//
//	layout.ID = uuid.NewString()
//	if err := st.Save(ctx, &layout); err != nil {
//	    return err
//	}
//
// Get returns an error with code LAYOUT_NOT_FOUND when no layout has the ID.
package store

import (
	"context"

	"github.com/matzehuels/stresslayout/pkg/errors"
	"github.com/matzehuels/stresslayout/pkg/graph"
)

// Store is the interface for layout storage backends.
type Store interface {
	// Save inserts or replaces the layout with l.ID.
	Save(ctx context.Context, l *graph.Layout) error

	// Get retrieves a layout by ID.
	Get(ctx context.Context, id string) (graph.Layout, error)

	// Delete removes a layout. Deleting a missing layout is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeLayoutNotFound, "layout %s not found", id)
}

func requireID(l *graph.Layout) error {
	if l == nil {
		return errors.New(errors.ErrCodeInvalidInput, "layout is nil")
	}
	if l.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "layout has no id")
	}
	return nil
}
