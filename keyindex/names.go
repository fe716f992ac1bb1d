package keyindex

import (
	"strings"

	"github.com/kjk/dirkv/u"
)

const (
	// TokenSep separates sk token and pk token in a record file name
	TokenSep = "#"
	// RecordExt is the extension of record files. Soft-deleted files
	// add a suffix after it.
	RecordExt = ".json"
)

// IsRecordFileName returns true for "<sk>#<pk>.json" and anything after it
// e.g. "<sk>#<pk>.json.deleted"
func IsRecordFileName(name string) bool {
	return strings.Contains(name, TokenSep) && strings.Contains(name, RecordExt)
}

// SKToken returns sk token of a record file name. Without '#' it's the
// whole name.
func SKToken(name string) string {
	return u.BeforeOrAll(name, TokenSep)
}

// PKToken returns pk token of a record file name: from '#' to the
// first '.' after it. Without '#' it's the name up to the first '.'.
func PKToken(name string) string {
	return u.BeforeOrAll(u.AfterOrAll(name, TokenSep), ".")
}
