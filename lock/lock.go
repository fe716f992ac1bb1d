// Package lock takes an exclusive advisory lock on a store directory
// so that two processes don't write the same index.json.
//
// The lock is a file named "LOCK" inside the directory. It's advisory:
// it only protects against other users of this package.
package lock

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/kjk/dirkv/u"
)

// FileName is the name of the lock file created inside a locked directory
const FileName = "LOCK"

// ErrLocked is returned when the directory is locked by someone else
var ErrLocked = errors.New("directory already in use by another store")

// Lock represents a held directory lock
type Lock struct {
	f *os.File
}

// Path returns the path of the lock file
func (l *Lock) Path() string {
	if l == nil || l.f == nil {
		return ""
	}
	return l.f.Name()
}

// Directory acquires an exclusive, non-blocking lock on dir.
// Returns ErrLocked (wrapped) if the lock is held elsewhere.
func Directory(dir string) (*Lock, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	if err = lockFile(f); err != nil {
		u.CloseNoError(f)
		return nil, err
	}
	return &Lock{f: f}, nil
}

// Release releases the lock. Safe to call on nil and multiple times.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	f := l.f
	l.f = nil
	err := unlockFile(f)
	errClose := f.Close()
	if err != nil {
		return err
	}
	return errClose
}
