// Package store persists validated XDSM documents by name.
//
// The serve command hosts multiple documents; this package defines the
// storage interface with two backends:
//   - memory: in-process storage for single-instance serving and tests
//   - mongo: MongoDB-backed storage for shared deployments
package store

import (
	"context"

	"github.com/mhertel/xdsmview/pkg/xdsm"
)

// Store is the document storage interface.
// Implementations must be safe for concurrent use.
type Store interface {
	// Put stores a document under a name, replacing any existing one.
	Put(ctx context.Context, name string, doc xdsm.Document) error

	// Get returns the named document, or a DOCUMENT_NOT_FOUND error.
	Get(ctx context.Context, name string) (xdsm.Document, error)

	// List returns all stored document names in sorted order.
	List(ctx context.Context) ([]string, error)

	// Delete removes a document. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
