// Package server exposes a loaded archive over HTTP and reloads it on demand.
package server

import (
	"sync"
	"sync/atomic"

	"github.com/Akamitori/qcvault/internal/archive"
	"github.com/Akamitori/qcvault/internal/model"
)

// Loader is the part of archive.Loader the store needs.
type Loader interface {
	Load(dir string, schema *archive.Schema) (model.Posts, error)
}

// Store holds the current archive collection. A reload replaces the whole
// collection or, on failure, leaves the previous one in place.
type Store struct {
	loader Loader
	dir    string
	schema *archive.Schema

	reloadMu sync.Mutex
	posts    atomic.Pointer[model.Posts]
}

// NewStore returns an empty Store; call Reload to fill it.
func NewStore(loader Loader, dir string, schema *archive.Schema) *Store {
	return &Store{loader: loader, dir: dir, schema: schema}
}

// Reload loads the archive from scratch. Concurrent calls are serialized so
// only one load runs at a time.
func (s *Store) Reload() (int, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	posts, err := s.loader.Load(s.dir, s.schema)
	if err != nil {
		return 0, err
	}
	s.posts.Store(&posts)
	return len(posts), nil
}

// Posts returns the current collection, nil before the first successful load.
func (s *Store) Posts() model.Posts {
	if p := s.posts.Load(); p != nil {
		return *p
	}
	return nil
}
