// Package filename translates (pk, sk) pairs to record file names and back.
//
// A record lives in "<skToken>#<pkToken>.json". The sort key token comes
// first so that all records of a partition share the "#<pkToken>.json"
// suffix. A soft-deleted record is "<skToken>#<pkToken>.json.deleted".
//
// Tokens come from keyindex.Store. Decoding an unknown token gives "".
package filename

import (
	"strings"

	"github.com/kjk/dirkv/keyindex"
)

const (
	// Sep separates sk token and pk token
	Sep = keyindex.TokenSep
	// Ext is the extension of record files
	Ext = keyindex.RecordExt
	// DeletedExt is appended to a record file name on soft-delete
	DeletedExt = ".deleted"
)

// Stem returns "<skToken>#<pkToken>"
func Stem(pkToken string, skToken string) string {
	return skToken + Sep + pkToken
}

// RecordName returns "<skToken>#<pkToken>.json"
func RecordName(pkToken string, skToken string) string {
	return Stem(pkToken, skToken) + Ext
}

// DeletedName returns "<skToken>#<pkToken>.json.deleted"
func DeletedName(pkToken string, skToken string) string {
	return RecordName(pkToken, skToken) + DeletedExt
}

// PKSuffix returns the suffix shared by stems of all records of a partition
func PKSuffix(pkToken string) string {
	return Sep + pkToken
}

// IsRecordFile returns true for anything that looks like a record file,
// live or soft-deleted
func IsRecordFile(name string) bool {
	return keyindex.IsRecordFileName(name)
}

// IsLiveRecordFile returns true for "<sk>#<pk>.json"
func IsLiveRecordFile(name string) bool {
	return strings.Contains(name, Sep) && strings.HasSuffix(name, Ext)
}

// IsDeletedFile returns true for "<sk>#<pk>.json.deleted"
func IsDeletedFile(name string) bool {
	return strings.Contains(name, Sep) && strings.HasSuffix(name, Ext+DeletedExt)
}

// StemOf returns name without ".json" and ".json.deleted"
func StemOf(name string) string {
	name = strings.TrimSuffix(name, DeletedExt)
	return strings.TrimSuffix(name, Ext)
}

// SplitTokens splits a file name into sk and pk tokens.
// pk token ends at the first '.' after '#'.
// Without '#' the whole stem is returned as both tokens, same as
// PKToken and SKToken do.
func SplitTokens(name string) (skToken string, pkToken string) {
	return SKToken(name), PKToken(name)
}

// PKToken returns pk token of a file name
func PKToken(name string) string {
	return keyindex.PKToken(name)
}

// SKToken returns sk token of a file name
func SKToken(name string) string {
	return keyindex.SKToken(name)
}

// HasPK returns true if file name belongs to partition with pkToken
func HasPK(name string, pkToken string) bool {
	if !strings.Contains(name, Sep) {
		return false
	}
	return PKToken(name) == pkToken
}

// Codec encodes keys to file names using tokens from a keyindex.Store
type Codec struct {
	Index *keyindex.Store
}

// New returns a Codec over idx
func New(idx *keyindex.Store) *Codec {
	return &Codec{Index: idx}
}

// Encode returns "<skToken>#<pkToken>", creating tokens if needed
func (c *Codec) Encode(pk string, sk string) string {
	pkToken, skToken := c.Index.Generate(pk, sk)
	return Stem(pkToken, skToken)
}

// Tokens returns existing tokens for pk and sk without creating them.
// ok is false if either is unknown, in which case no file for
// (pk, sk) can exist.
func (c *Codec) Tokens(pk string, sk string) (pkToken string, skToken string, ok bool) {
	pkToken, okPK := c.Index.TokenPK(pk)
	skToken, okSK := c.Index.TokenSK(sk)
	return pkToken, skToken, okPK && okSK
}

// Decode returns pk and sk for a file name. Unknown tokens decode to "".
// A name without '#' decodes to ("", "").
func (c *Codec) Decode(name string) (pk string, sk string) {
	if !strings.Contains(name, Sep) {
		return "", ""
	}
	return c.DecodePK(name), c.DecodeSK(name)
}

// DecodePK returns pk for a file name, tolerating a missing '#'
func (c *Codec) DecodePK(name string) string {
	return c.Index.LookupPK(PKToken(name))
}

// DecodeSK returns sk for a file name, tolerating a missing '#'
func (c *Codec) DecodeSK(name string) string {
	return c.Index.LookupSK(SKToken(name))
}
