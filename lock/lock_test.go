//go:build unix || windows

package lock

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert"
)

func TestDirectory(t *testing.T) {
	dir := t.TempDir()
	l, err := Directory(dir)
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), l.Path())

	_, err = Directory(dir)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocked), "got: %v", err)

	assert.NoError(t, l.Release())
	assert.NoError(t, l.Release())

	l2, err := Directory(dir)
	assert.NoError(t, err)
	assert.NoError(t, l2.Release())
}

func TestDirectoryMissing(t *testing.T) {
	_, err := Directory(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestNilLock(t *testing.T) {
	var l *Lock
	assert.NoError(t, l.Release())
	assert.Equal(t, "", l.Path())
}
