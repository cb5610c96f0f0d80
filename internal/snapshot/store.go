package snapshot

import (
	"sync/atomic"

	"github.com/mrz1836/configrepo/internal/domain"
	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

// Store holds the current snapshot and swaps it atomically on reload.
// A snapshot handed out by CurrentConfig is never modified; Replace installs a new one.
type Store struct {
	current atomic.Pointer[domain.Snapshot]
	loader  *Loader
	path    string
}

// NewStore creates a store reloading from path with loader.
// The store starts with an empty snapshot until Reload succeeds.
func NewStore(loader *Loader, path string) *Store {
	s := &Store{loader: loader, path: path}
	s.current.Store(&domain.Snapshot{})
	return s
}

// NewStaticStore creates a store serving snap. Reload is not available on it.
func NewStaticStore(snap *domain.Snapshot) *Store {
	s := &Store{}
	s.Replace(snap)
	return s
}

// CurrentConfig returns the snapshot in effect.
func (s *Store) CurrentConfig() *domain.Snapshot {
	return s.current.Load()
}

// Replace installs snap. A nil snapshot is stored as an empty one.
func (s *Store) Replace(snap *domain.Snapshot) {
	if snap == nil {
		snap = &domain.Snapshot{}
	}
	s.current.Store(snap)
}

// Path returns the file the store reloads from.
func (s *Store) Path() string {
	return s.path
}

// Reload reads the snapshot file and installs it. On failure the previous
// snapshot stays in effect.
func (s *Store) Reload() error {
	if s.loader == nil || s.path == "" {
		return crerrors.ErrSnapshotNotLoaded
	}
	snap, err := s.loader.LoadFile(s.path)
	if err != nil {
		return err
	}
	s.Replace(snap)
	return nil
}
