package keyindex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kjk/dirkv/atomicfile"
	"github.com/kjk/dirkv/log"
	"github.com/kjk/dirkv/u"
	"github.com/tidwall/pretty"
)

// FileName is the name of the index file inside a store directory
const FileName = "index.json"

// Store owns the pk / sk KeyIndexes and the file they are saved to
type Store struct {
	path string
	idx  *Pair
}

// NewStore returns an empty Store not bound to any file.
// Tokens can be generated but aren't saved until Open().
func NewStore() *Store {
	return &Store{
		idx: NewPair(),
	}
}

// Path returns path of the index file, "" if not bound
func (s *Store) Path() string {
	return s.path
}

// PK returns the partition key index
func (s *Store) PK() *KeyIndex {
	return s.idx.PK
}

// SK returns the sort key index
func (s *Store) SK() *KeyIndex {
	return s.idx.SK
}

func decodeIndexFile(path string) (*Pair, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}
	idx := NewPair()
	if err = json.Unmarshal(d, idx); err != nil {
		return nil, fmt.Errorf("failed to decode index file '%s': %w", path, err)
	}
	if idx.repair() {
		log.Logf("keyindex: repaired inconsistent maps in '%s'\n", path)
	}
	return idx, nil
}

// Open binds the store to the index file at path, loading it if it exists.
// A "file://" prefix is stripped.
// If the store was bound to a different file, the current index is saved
// there first.
// A missing file is not an error: the store starts empty.
// A file that exists but can't be read or decoded is an error and leaves
// the store as it was.
// If reconcile is true, tokens not used by any file in the index file's
// directory are removed (see Reconcile).
func (s *Store) Open(path string, reconcile bool) error {
	path = u.StripFileScheme(path)
	if path == s.path {
		if reconcile {
			s.Reconcile()
		}
		return nil
	}
	if s.path != "" && u.DirExists(filepath.Dir(s.path)) {
		// flush before switching so that the old directory stays readable
		err := s.Save()
		log.IfErrf(err, "keyindex: failed to save '%s' before switching to '%s': %s", s.path, path, err)
	}

	idx := NewPair()
	if u.FileExists(path) {
		var err error
		idx, err = decodeIndexFile(path)
		if err != nil {
			return err
		}
	}
	s.idx = idx
	s.path = path
	if reconcile {
		s.Reconcile()
	}
	return nil
}

// Save writes the whole index to its file, atomically.
// No-op if the store isn't bound to a file.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	d, err := json.Marshal(s.idx)
	if err != nil {
		return err
	}
	// the index is the only human-readable mapping so keep it diffable
	d = pretty.Pretty(d)
	return atomicfile.WriteFile(s.path, d)
}

func (s *Store) saveLogged() {
	err := s.Save()
	log.IfErrf(err, "keyindex: failed to save '%s': %s", s.path, err)
}

// liveTokens returns pk and sk tokens used by record file names
// (live and soft-deleted) in dir
func liveTokens(dir string) (pks map[string]bool, sks map[string]bool, err error) {
	names, err := u.ListFileNames(dir)
	if err != nil {
		return nil, nil, err
	}
	pks = map[string]bool{}
	sks = map[string]bool{}
	for _, name := range names {
		if !IsRecordFileName(name) {
			continue
		}
		sks[SKToken(name)] = true
		pks[PKToken(name)] = true
	}
	return pks, sks, nil
}

func removeDead(k *KeyIndex, live map[string]bool) int {
	n := 0
	for _, token := range k.Tokens() {
		if !live[token] {
			k.Remove(token)
			n++
		}
	}
	return n
}

// Reconcile removes tokens that are not used by any record file in the
// directory of the index file. Soft-deleted files count as used.
// This permanently forgets the key names of removed tokens.
// Returns number of removed pk and sk tokens.
func (s *Store) Reconcile() (removedPK int, removedSK int) {
	if s.path == "" {
		return 0, 0
	}
	timeStart := time.Now()
	dir := filepath.Dir(s.path)
	pks, sks, err := liveTokens(dir)
	if err != nil {
		// can't tell what's live so don't remove anything
		log.Verbosef("keyindex: Reconcile: failed to list '%s': %s\n", dir, err)
		return 0, 0
	}
	removedPK = removeDead(s.idx.PK, pks)
	removedSK = removeDead(s.idx.SK, sks)
	if removedPK+removedSK > 0 {
		s.saveLogged()
	}
	log.EventWithDuration("index.reconcile", time.Since(timeStart), "dir", dir, "removedpk", removedPK, "removedsk", removedSK)
	return removedPK, removedSK
}

// Generate returns tokens for pk and sk, creating them if needed.
// The index is saved if a new token was created.
func (s *Store) Generate(pk string, sk string) (pkToken string, skToken string) {
	pkToken, isNewPK := s.idx.PK.Generate(pk)
	skToken, isNewSK := s.idx.SK.Generate(sk)
	if isNewPK || isNewSK {
		s.saveLogged()
	}
	return pkToken, skToken
}

// GeneratePK is like Generate but only for partition key
func (s *Store) GeneratePK(pk string) string {
	token, isNew := s.idx.PK.Generate(pk)
	if isNew {
		s.saveLogged()
	}
	return token
}

// GenerateSK is like Generate but only for sort key
func (s *Store) GenerateSK(sk string) string {
	token, isNew := s.idx.SK.Generate(sk)
	if isNew {
		s.saveLogged()
	}
	return token
}

// TokenPK returns existing token for pk, never creates one
func (s *Store) TokenPK(pk string) (string, bool) {
	return s.idx.PK.Token(pk)
}

// TokenSK returns existing token for sk, never creates one
func (s *Store) TokenSK(sk string) (string, bool) {
	return s.idx.SK.Token(sk)
}

// LookupPK returns pk for a token, "" if unknown
func (s *Store) LookupPK(token string) string {
	return s.idx.PK.Lookup(token)
}

// LookupSK returns sk for a token, "" if unknown
func (s *Store) LookupSK(token string) string {
	return s.idx.SK.Lookup(token)
}
