package keyindex

import (
	"slices"

	"github.com/google/uuid"
)

// KeyIndex is a bidirectional name <-> token mapping
type KeyIndex struct {
	// name -> token
	Map map[string]string `json:"map"`
	// token -> name
	RMap map[string]string `json:"rmap"`

	// NewToken generates a candidate token. Defaults to a random UUID.
	// Exposed so that tests can force collisions.
	NewToken func() string `json:"-"`
}

// New returns an empty KeyIndex
func New() *KeyIndex {
	return &KeyIndex{
		Map:  map[string]string{},
		RMap: map[string]string{},
	}
}

func (k *KeyIndex) ensureMaps() {
	if k.Map == nil {
		k.Map = map[string]string{}
	}
	if k.RMap == nil {
		k.RMap = map[string]string{}
	}
}

func (k *KeyIndex) newToken() string {
	if k.NewToken != nil {
		return k.NewToken()
	}
	return uuid.NewString()
}

// Generate returns a token for name. If name didn't have a token yet,
// a new one is created and isNew is true.
func (k *KeyIndex) Generate(name string) (token string, isNew bool) {
	k.ensureMaps()
	if token, ok := k.Map[name]; ok {
		return token, false
	}
	token = k.newToken()
	// re-roll on the (very unlikely) collision
	for {
		if _, taken := k.RMap[token]; !taken {
			break
		}
		token = k.newToken()
	}
	k.Map[name] = token
	k.RMap[token] = name
	return token, true
}

// Token returns token for name without creating it
func (k *KeyIndex) Token(name string) (string, bool) {
	token, ok := k.Map[name]
	return token, ok
}

// Lookup returns name for a token, "" if the token is unknown
func (k *KeyIndex) Lookup(token string) string {
	return k.RMap[token]
}

// Remove forgets the token. No-op if token is unknown.
func (k *KeyIndex) Remove(token string) {
	name, ok := k.RMap[token]
	if !ok {
		return
	}
	delete(k.RMap, token)
	delete(k.Map, name)
}

// Tokens returns all tokens, sorted
func (k *KeyIndex) Tokens() []string {
	res := make([]string, 0, len(k.RMap))
	for token := range k.RMap {
		res = append(res, token)
	}
	slices.Sort(res)
	return res
}

// Len returns number of mapped names
func (k *KeyIndex) Len() int {
	return len(k.Map)
}

// repair makes Map and RMap exact inverses after loading a file
// that might have been edited by hand. RMap is the source of truth
// because that's what decoding file names uses.
// Returns true if anything had to be changed.
func (k *KeyIndex) repair() bool {
	k.ensureMaps()
	changed := false
	for name, token := range k.Map {
		if k.RMap[token] != name {
			delete(k.Map, name)
			changed = true
		}
	}
	for token, name := range k.RMap {
		if existing, ok := k.Map[name]; ok && existing != token {
			// name claimed by two tokens; keep the one Map agrees with
			delete(k.RMap, token)
			changed = true
			continue
		}
		if _, ok := k.Map[name]; !ok {
			k.Map[name] = token
			changed = true
		}
	}
	return changed
}

// Pair holds the two independent key spaces: partition keys and sort keys.
// A pk token can be equal to an sk token, they never meet in a file name
// position.
type Pair struct {
	PK *KeyIndex `json:"pk"`
	SK *KeyIndex `json:"sk"`
}

// NewPair returns a Pair of empty KeyIndexes
func NewPair() *Pair {
	return &Pair{
		PK: New(),
		SK: New(),
	}
}

func (p *Pair) repair() bool {
	if p.PK == nil {
		p.PK = New()
	}
	if p.SK == nil {
		p.SK = New()
	}
	changedPK := p.PK.repair()
	changedSK := p.SK.repair()
	return changedPK || changedSK
}
