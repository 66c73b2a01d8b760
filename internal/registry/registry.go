// Package registry is the in-memory store of document records.
//
// All mutation goes through Update, which holds the store lock while the
// caller's closure runs. Updates against a document that already reached a
// terminal stage are dropped, so the authoritative completion write is always
// the last write observed for a document regardless of any decorative
// progress goroutine still holding a reference.
package registry

import (
	"sync"

	"github.com/claimlens/claimlens/internal/document"
)

// Store holds document records in insertion order.
type Store struct {
	mu    sync.RWMutex
	docs  map[string]*document.Document
	order []string
}

// New creates an empty store.
func New() *Store {
	return &Store{docs: make(map[string]*document.Document)}
}

// Add registers a new document. Re-adding an existing id is a no-op.
func (s *Store) Add(doc *document.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.ID]; ok {
		return
	}
	s.docs[doc.ID] = doc
	s.order = append(s.order, doc.ID)
}

// Update applies fn to the document with the given id under the store lock.
// Returns false if the id is unknown or the document is already terminal.
func (s *Store) Update(id string, fn func(*document.Document)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok || doc.Settled() {
		return false
	}
	fn(doc)
	return true
}

// Get returns a copy of the document with the given id.
func (s *Store) Get(id string) (document.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return document.Document{}, false
	}
	return *doc, true
}

// List returns copies of all documents in insertion order.
func (s *Store) List() []document.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]document.Document, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.docs[id])
	}
	return out
}

// Completed returns copies of all documents that finished successfully
// with a result payload, in insertion order.
func (s *Store) Completed() []document.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []document.Document
	for _, id := range s.order {
		doc := s.docs[id]
		if doc.Stage == document.StageComplete && doc.Result != nil {
			out = append(out, *doc)
		}
	}
	return out
}

// Settled reports whether every document in the store is terminal.
// An empty store is settled.
func (s *Store) Settled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.docs {
		if !doc.Settled() {
			return false
		}
	}
	return true
}

// Len returns the number of documents in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
