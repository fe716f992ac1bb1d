// Package keyindex maps human-readable keys to opaque, filesystem-safe
// tokens and back.
//
// A KeyIndex is a pair of maps (name -> token, token -> name) that are
// exact inverses. Tokens are random UUIDs, generated the first time a name
// is seen and stable afterwards.
//
// A Store holds two independent KeyIndexes, one for partition keys and
// one for sort keys, and persists both in a single JSON file:
//
//	{
//	  "pk": {"map": {"user-1": "<token>"}, "rmap": {"<token>": "user-1"}},
//	  "sk": {"map": {...}, "rmap": {...}}
//	}
//
// The file is the only way to translate token-based file names back to
// keys. Losing it makes record files unreadable by key.
//
// Store is not safe for concurrent use.
package keyindex
