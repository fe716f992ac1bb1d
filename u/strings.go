package u

import (
	"os"
	"strings"
)

// TrimPrefix is like strings.TrimPrefix but also returns a bool
// indicating that the string was trimmed
func TrimPrefix(s string, prefix string) (string, bool) {
	s2 := strings.TrimPrefix(s, prefix)
	return s2, len(s) != len(s2)
}

// Before returns part of s before first sep, "" if no sep
func Before(s string, sep string) string {
	before, _, found := strings.Cut(s, sep)
	if !found {
		return ""
	}
	return before
}

// BeforeOrAll is like Before but returns s if there's no sep
func BeforeOrAll(s string, sep string) string {
	before, _, _ := strings.Cut(s, sep)
	return before
}

// After returns part of s after first sep, "" if no sep
func After(s string, sep string) string {
	_, after, _ := strings.Cut(s, sep)
	return after
}

// AfterOrAll is like After but returns s if there's no sep
func AfterOrAll(s string, sep string) string {
	_, after, found := strings.Cut(s, sep)
	if !found {
		return s
	}
	return after
}

// ExpandTildeInPath replaces leading "~" with user's home directory.
// s is returned unchanged if home directory is unknown.
func ExpandTildeInPath(s string) string {
	if !strings.HasPrefix(s, "~") {
		return s
	}
	dir, err := os.UserHomeDir()
	if err != nil || dir == "" {
		return s
	}
	return dir + s[1:]
}
