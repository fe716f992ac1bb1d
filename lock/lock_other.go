//go:build !unix && !windows

package lock

import "os"

// no advisory locking on this platform
func lockFile(f *os.File) error {
	return nil
}

func unlockFile(f *os.File) error {
	return nil
}
