package u

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// FileExists returns true if path exists and is a regular file
func FileExists(path string) bool {
	st, err := os.Lstat(path)
	return err == nil && st.Mode().IsRegular()
}

// DirExists returns true if path exists and is a directory.
// Unlike FileExists it follows symlinks so that a store directory
// can be a link.
func DirExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

// CloseNoError is like io.Closer Close() but ignores an error
// use as: defer CloseNoError(f)
func CloseNoError(f io.Closer) {
	_ = f.Close()
}

// ListFileNames returns names of regular files in dir (no sub-directories).
// Order is the order returned by os.ReadDir i.e. sorted by name.
func ListFileNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		res = append(res, e.Name())
	}
	return res, nil
}

// StripFileScheme removes "file://" prefix so that a file url
// can be used as a path
func StripFileScheme(s string) string {
	s, _ = TrimPrefix(s, "file://")
	return s
}

func isInvalidPathRune(r rune) bool {
	switch r {
	case ':', '\\', '/':
		return true
	}
	if unicode.IsControl(r) || unicode.IsSymbol(r) {
		return true
	}
	// covers newlines not caught by IsControl e.g. U+2028
	if unicode.Is(unicode.Zl, r) || unicode.Is(unicode.Zp, r) {
		return true
	}
	return r == unicode.ReplacementChar
}

// IsValidPathComponent returns false if s has characters we don't allow
// in a directory name: ':', '\', '/', control characters, symbols
// (e.g. '$', '+', '<', '|', '~') and newlines
func IsValidPathComponent(s string) bool {
	return strings.IndexFunc(s, isInvalidPathRune) < 0
}

// IsValidPath checks every component of the path after the volume name
// (e.g. "C:" on Windows) with IsValidPathComponent
func IsValidPath(path string) bool {
	path = StripFileScheme(path)
	if path == "" {
		return false
	}
	path = filepath.Clean(path)
	path = path[len(filepath.VolumeName(path)):]
	parts := strings.Split(filepath.ToSlash(path), "/")
	for _, part := range parts {
		if !IsValidPathComponent(part) {
			return false
		}
	}
	return true
}
