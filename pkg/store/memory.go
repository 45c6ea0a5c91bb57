package store

import (
	"context"
	"slices"
	"sync"

	apperrors "github.com/mhertel/xdsmview/pkg/errors"
	"github.com/mhertel/xdsmview/pkg/xdsm"
)

// MemoryStore is an in-process document store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]xdsm.Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]xdsm.Document)}
}

// Put stores a document under a name.
func (s *MemoryStore) Put(ctx context.Context, name string, doc xdsm.Document) error {
	if err := apperrors.ValidateDiagramName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = doc
	return nil
}

// Get returns the named document.
func (s *MemoryStore) Get(ctx context.Context, name string) (xdsm.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[name]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeDocumentNotFound, "document %q not found", name)
	}
	return doc, nil
}

// List returns all stored names in sorted order.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes a document.
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, name)
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
