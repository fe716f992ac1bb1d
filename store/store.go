package store

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/kjk/dirkv/atomicfile"
	"github.com/kjk/dirkv/filename"
	"github.com/kjk/dirkv/keyindex"
	"github.com/kjk/dirkv/lock"
	"github.com/kjk/dirkv/log"
	"github.com/kjk/dirkv/u"
)

var (
	// ErrNotBound is returned by GetData when store isn't bound to a directory
	ErrNotBound = errors.New("store is not bound to a directory")
	// ErrNotFound is returned by GetData for a missing record
	ErrNotFound = errors.New("record not found")
)

// PKFilter decides if a partition key is included in a listing
type PKFilter func(pk string) bool

// PKSKFilter decides if a (pk, sk) pair is included in a listing
type PKSKFilter func(pk string, sk string) bool

// PKSK identifies a record
type PKSK struct {
	PK string
	SK string
}

// Group is all sort keys of a partition key, in ascending order
type Group struct {
	PK  string
	SKs []string
}

func comparePKSK(a, b PKSK) int {
	if c := cmp.Compare(a.PK, b.PK); c != 0 {
		return c
	}
	return cmp.Compare(a.SK, b.SK)
}

type Options struct {
	// Codec is used by SetData and GetData. Defaults to JSONCodec.
	Codec Codec
	// RemoveDeadIndexes is used by Open(): when true, index entries for
	// keys without a file are removed when the directory is bound
	RemoveDeadIndexes bool
	// Lock takes an exclusive lock file on the directory when binding
	Lock bool
	// OnError is called for errors that don't change the result of an
	// operation e.g. a corrupt record file that Get() reports as missing
	OnError func(op string, err error)
}

// Store keeps records as files in a directory
type Store struct {
	opts Options
	// "" means not bound. All operations are no-ops
	dir   string
	index *keyindex.Store
	names *filename.Codec
	lock  *lock.Lock
}

// New returns a store that isn't bound to a directory yet. opts can be nil.
func New(opts *Options) *Store {
	s := &Store{
		index: keyindex.NewStore(),
	}
	if opts != nil {
		s.opts = *opts
	}
	if s.opts.Codec == nil {
		s.opts.Codec = JSONCodec{}
	}
	s.names = filename.New(s.index)
	return s
}

// Open returns a store bound to dir, creating dir if needed.
// opts can be nil.
func Open(dir string, opts *Options) (*Store, error) {
	s := New(opts)
	if err := s.Bind(dir, s.opts.RemoveDeadIndexes); err != nil {
		return nil, err
	}
	if !s.IsBound() {
		return nil, fmt.Errorf("'%s' is not a valid directory", dir)
	}
	return s, nil
}

// Dir returns the directory the store is bound to, "" if not bound
func (s *Store) Dir() string {
	return s.dir
}

// IsBound returns true if the store is bound to a directory
func (s *Store) IsBound() bool {
	return s.dir != ""
}

// Index returns the key index used to name files
func (s *Store) Index() *keyindex.Store {
	return s.index
}

// Codec returns codec used by SetData and GetData
func (s *Store) Codec() Codec {
	return s.opts.Codec
}

func (s *Store) fail(op string, err error) {
	log.Verbosef("dirkv: %s failed with '%s'\n", op, err)
	if s.opts.OnError != nil {
		s.opts.OnError(op, err)
	}
}

func (s *Store) unbind() {
	if err := s.lock.Release(); err != nil {
		s.fail("unlock", err)
	}
	s.lock = nil
	s.dir = ""
}

// Bind binds the store to directory path. "file://" prefix and leading "~"
// are accepted.
// An existing directory is used as is. A missing directory is created if
// path is valid (see u.IsValidPath).
// If path is invalid or can't be created, the store ends up not bound:
// reads return nothing and writes do nothing.
// The key index is always switched to "<path>/index.json"; with
// removeDeadIndexes, keys without record files are dropped from it.
// Returns an error if index.json exists but can't be read, or the
// directory is locked (Options.Lock). In both cases the store is not bound.
func (s *Store) Bind(path string, removeDeadIndexes bool) error {
	path = u.ExpandTildeInPath(u.StripFileScheme(path))
	if path != s.dir {
		s.unbind()
	}
	if path == "" {
		// don't let index.json resolve relative to current directory
		s.fail("bind", errors.New("empty path"))
		return nil
	}

	dir := ""
	if u.DirExists(path) {
		dir = path
	} else if u.IsValidPath(path) {
		if err := os.MkdirAll(path, 0755); err != nil {
			s.fail("bind", err)
		} else {
			dir = path
		}
	} else {
		s.fail("bind", fmt.Errorf("invalid path '%s'", path))
	}

	indexPath := filepath.Join(path, keyindex.FileName)
	if err := s.index.Open(indexPath, removeDeadIndexes); err != nil {
		s.unbind()
		return err
	}
	if dir == "" {
		return nil
	}
	if s.opts.Lock && s.lock == nil {
		l, err := lock.Directory(dir)
		if err != nil {
			return fmt.Errorf("failed to lock '%s': %w", dir, err)
		}
		s.lock = l
	}
	s.dir = dir
	return nil
}

// Close saves the index and releases the directory lock.
// The store is not bound after Close.
func (s *Store) Close() error {
	if !s.IsBound() {
		return nil
	}
	err := s.index.Save()
	errUnlock := s.lock.Release()
	s.lock = nil
	s.dir = ""
	return u.FirstErr(err, errUnlock)
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// listNames returns names of files in the directory that match
func (s *Store) listNames(match func(name string) bool) []string {
	if !s.IsBound() {
		return nil
	}
	names, err := u.ListFileNames(s.dir)
	if err != nil {
		s.fail("list", err)
		return nil
	}
	var res []string
	for _, name := range names {
		if match(name) {
			res = append(res, name)
		}
	}
	return res
}

func (s *Store) readRecord(name string) *Record {
	d, err := os.ReadFile(s.path(name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.fail("read", err)
		}
		return nil
	}
	rec, err := unmarshalRecord(d)
	if err != nil {
		s.fail("read", fmt.Errorf("%s: %w", name, err))
		return nil
	}
	return rec
}

func (s *Store) writeRecord(name string, rec *Record) bool {
	d, err := marshalRecord(rec)
	if err == nil {
		err = atomicfile.WriteFile(s.path(name), d)
	}
	if err != nil {
		s.fail("write", fmt.Errorf("%s: %w", name, err))
		return false
	}
	return true
}

func limitSlice[T any](a []T, limit int) []T {
	if limit > 0 && len(a) > limit {
		return a[:limit]
	}
	return a
}

// decodePKSKs decodes names of record files.
// Names with tokens missing from the index are skipped.
func (s *Store) decodePKSKs(names []string) []PKSK {
	var res []PKSK
	for _, name := range names {
		pk, sk := s.names.Decode(name)
		if pk == "" {
			s.fail("decode", fmt.Errorf("'%s' has unknown pk token", name))
			continue
		}
		res = append(res, PKSK{PK: pk, SK: sk})
	}
	return res
}

// ListPKs returns distinct partition keys of live records, sorted.
// filter can be nil. limit <= 0 means no limit, otherwise the first
// limit keys are returned.
func (s *Store) ListPKs(filter PKFilter, limit int) []string {
	seen := map[string]bool{}
	var res []string
	for _, name := range s.listNames(filename.IsLiveRecordFile) {
		pk := s.names.DecodePK(name)
		if pk == "" {
			s.fail("decode", fmt.Errorf("'%s' has unknown pk token", name))
			continue
		}
		if seen[pk] {
			continue
		}
		seen[pk] = true
		if filter != nil && !filter(pk) {
			continue
		}
		res = append(res, pk)
	}
	slices.Sort(res)
	return limitSlice(res, limit)
}

// ListPKSKs returns (pk, sk) of every live record, sorted by pk and then sk.
// filter can be nil. limit <= 0 means no limit.
func (s *Store) ListPKSKs(filter PKSKFilter, limit int) []PKSK {
	names := s.listNames(filename.IsLiveRecordFile)
	all := s.decodePKSKs(names)
	var res []PKSK
	for _, v := range all {
		if filter != nil && !filter(v.PK, v.SK) {
			continue
		}
		res = append(res, v)
	}
	slices.SortFunc(res, comparePKSK)
	return limitSlice(res, limit)
}

// ListGroupedOrdered is ListPKSKs grouped by pk, in pk order
func (s *Store) ListGroupedOrdered(filter PKSKFilter, limit int) []Group {
	var res []Group
	for _, v := range s.ListPKSKs(filter, limit) {
		n := len(res)
		if n > 0 && res[n-1].PK == v.PK {
			res[n-1].SKs = append(res[n-1].SKs, v.SK)
			continue
		}
		res = append(res, Group{PK: v.PK, SKs: []string{v.SK}})
	}
	return res
}

// ListGrouped returns sort keys of every partition key.
// Sort keys are in ascending order.
func (s *Store) ListGrouped(filter PKSKFilter, limit int) map[string][]string {
	res := map[string][]string{}
	for _, v := range s.ListPKSKs(filter, limit) {
		res[v.PK] = append(res[v.PK], v.SK)
	}
	return res
}

// ListDeleted returns (pk, sk) of soft-deleted records, sorted
func (s *Store) ListDeleted() []PKSK {
	names := s.listNames(filename.IsDeletedFile)
	res := s.decodePKSKs(names)
	slices.SortFunc(res, comparePKSK)
	return res
}

// Get returns a record or nil if it doesn't exist or can't be read
func (s *Store) Get(pk string, sk string) *Record {
	if !s.IsBound() {
		return nil
	}
	pkToken, skToken, ok := s.names.Tokens(pk, sk)
	if !ok {
		return nil
	}
	return s.readRecord(filename.RecordName(pkToken, skToken))
}

// Scan returns all live records with a given pk, sorted by sk
func (s *Store) Scan(pk string) []*Record {
	if !s.IsBound() {
		return nil
	}
	pkToken, ok := s.index.TokenPK(pk)
	if !ok {
		return nil
	}
	names := s.listNames(func(name string) bool {
		return filename.IsLiveRecordFile(name) && filename.HasPK(name, pkToken)
	})
	var res []*Record
	for _, name := range names {
		if rec := s.readRecord(name); rec != nil {
			res = append(res, rec)
		}
	}
	slices.SortStableFunc(res, func(a, b *Record) int {
		return cmp.Compare(a.SK, b.SK)
	})
	return res
}

// recordName creates tokens for pk and sk if needed
func (s *Store) recordName(pk string, sk string) string {
	return s.names.Encode(pk, sk) + filename.Ext
}

// Set writes a record with meta.
// With merge, meta is added to the existing record (over-writing values
// of existing keys) and its data is kept. Without merge, the record is
// replaced by a new one with only meta.
// Does nothing if pk is empty or store is not bound.
// Returns true if the record was written.
func (s *Store) Set(pk string, sk string, meta map[string]string, merge bool) bool {
	if pk == "" || !s.IsBound() {
		return false
	}
	var rec *Record
	if merge {
		rec = s.Get(pk, sk)
	}
	if rec == nil {
		rec = NewRecord(pk, sk)
	}
	// the file is named by pk / sk so they win over what was in the file
	rec.PK, rec.SK = pk, sk
	rec.SetMeta(meta)
	ok := s.writeRecord(s.recordName(pk, sk), rec)
	log.Event("store.set", "pk", pk, "sk", sk, "merge", merge, "ok", ok)
	return ok
}

// Put writes rec as is, including Data, replacing existing record.
// Returns false if rec.PK is empty or store is not bound.
func (s *Store) Put(rec *Record) bool {
	if rec == nil || rec.PK == "" || !s.IsBound() {
		return false
	}
	ok := s.writeRecord(s.recordName(rec.PK, rec.SK), rec)
	log.Event("store.put", "pk", rec.PK, "sk", rec.SK, "ok", ok)
	return ok
}

// SetData encodes v with store's codec and saves it as record's data.
// The record is created if it doesn't exist, meta is kept.
func (s *Store) SetData(pk string, sk string, v any) bool {
	if pk == "" || !s.IsBound() {
		return false
	}
	rec := s.Get(pk, sk)
	if rec == nil {
		rec = NewRecord(pk, sk)
	}
	if err := rec.SetData(s.opts.Codec, v); err != nil {
		s.fail("encode", err)
		return false
	}
	return s.writeRecord(s.recordName(pk, sk), rec)
}

// GetData decodes record's data into v with store's codec
func (s *Store) GetData(pk string, sk string, v any) error {
	if !s.IsBound() {
		return ErrNotBound
	}
	rec := s.Get(pk, sk)
	if rec == nil {
		return ErrNotFound
	}
	return rec.DecodeData(s.opts.Codec, v)
}

// existingNames returns file names of a live and soft-deleted record
// ok is false if keys were never used in this store
func (s *Store) existingNames(pk string, sk string) (live string, deleted string, ok bool) {
	if !s.IsBound() {
		return "", "", false
	}
	pkToken, skToken, ok := s.names.Tokens(pk, sk)
	if !ok {
		return "", "", false
	}
	live = s.path(filename.RecordName(pkToken, skToken))
	deleted = s.path(filename.DeletedName(pkToken, skToken))
	return live, deleted, true
}

// Delete soft-deletes a record by renaming its file to "*.json.deleted".
// A previously soft-deleted version is discarded.
// Returns true if the record existed and was deleted.
func (s *Store) Delete(pk string, sk string) bool {
	live, deleted, ok := s.existingNames(pk, sk)
	if !ok || !u.FileExists(live) {
		return false
	}
	if u.FileExists(deleted) {
		if err := os.Remove(deleted); err != nil {
			s.fail("delete", err)
			return false
		}
	}
	if err := os.Rename(live, deleted); err != nil {
		log.Errorf("dirkv: Delete: os.Rename('%s', '%s') failed with '%s'", live, deleted, err)
		s.fail("delete", err)
		return false
	}
	log.Event("store.delete", "pk", pk, "sk", sk)
	return true
}

// Undelete restores a soft-deleted record.
// If a live record exists, it's replaced when overwrite is true and
// nothing happens otherwise.
// Returns true if the record was restored.
func (s *Store) Undelete(pk string, sk string, overwrite bool) bool {
	live, deleted, ok := s.existingNames(pk, sk)
	if !ok || !u.FileExists(deleted) {
		return false
	}
	if u.FileExists(live) {
		if !overwrite {
			return false
		}
		if err := os.Remove(live); err != nil {
			s.fail("undelete", err)
			return false
		}
	}
	if err := os.Rename(deleted, live); err != nil {
		s.fail("undelete", err)
		return false
	}
	log.Event("store.undelete", "pk", pk, "sk", sk, "overwrite", overwrite)
	return true
}

// PurgeDeleted permanently removes soft-deleted records of pk or, if pk
// is "", all soft-deleted records.
// Returns number of removed files.
func (s *Store) PurgeDeleted(pk string) int {
	match := filename.IsDeletedFile
	if pk != "" {
		pkToken, ok := s.index.TokenPK(pk)
		if !ok {
			return 0
		}
		match = func(name string) bool {
			return filename.IsDeletedFile(name) && filename.HasPK(name, pkToken)
		}
	}
	n := 0
	for _, name := range s.listNames(match) {
		if err := os.Remove(s.path(name)); err != nil {
			s.fail("purge", err)
			continue
		}
		n++
	}
	log.Event("store.purge", "pk", pk, "removed", n)
	return n
}
