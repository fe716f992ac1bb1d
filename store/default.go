package store

import (
	"path/filepath"
	"sync"

	"github.com/kjk/dirkv/log"
	"github.com/kjk/dirkv/u"
)

// DefaultDirName is the directory, inside user's home directory, used
// by Default()
const DefaultDirName = "SKWLSFB.db"

var (
	defaultMu    sync.Mutex
	defaultStore *Store
)

// DefaultDir returns "~/SKWLSFB.db", "" if home directory is unknown
func DefaultDir() string {
	dir := u.ExpandTildeInPath("~")
	if dir == "~" {
		return ""
	}
	return filepath.Join(dir, DefaultDirName)
}

// Default returns a process-wide store. Unless InitDefault() was called
// first, it's bound to DefaultDir().
// It's a convenience for small programs; prefer New / Open.
func Default() *Store {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultStore == nil {
		s := New(nil)
		err := s.Bind(DefaultDir(), false)
		log.IfErrf(err, "dirkv: failed to bind default store to '%s': %s", DefaultDir(), err)
		defaultStore = s
	}
	return defaultStore
}

// InitDefault (re)initializes the store returned by Default()
// The previous default store, if any, is closed.
func InitDefault(dir string, opts *Options) (*Store, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultStore != nil {
		log.IfErrf(defaultStore.Close())
		defaultStore = nil
	}
	s, err := Open(dir, opts)
	if err != nil {
		return nil, err
	}
	defaultStore = s
	return s, nil
}

// ResetDefault closes the default store. Next Default() call creates
// a new one.
func ResetDefault() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultStore == nil {
		return nil
	}
	err := defaultStore.Close()
	defaultStore = nil
	return err
}
