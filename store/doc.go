/*
Package store is a local key-value store that keeps every record as a
JSON file in a directory.

A record is addressed by a partition key (pk) and an optional sort key
(sk). Keys can be any strings: file names are built from opaque tokens
("<skToken>#<pkToken>.json") and index.json in the same directory maps
tokens back to keys (see package keyindex).

# Basic Usage

	s, err := store.Open("./data", nil)
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	s.Set("user-1", "profile", map[string]string{"name": "John"}, false)
	s.Set("user-1", "profile", map[string]string{"age": "30"}, true)
	rec := s.Get("user-1", "profile")
	// rec.Meta: {"name": "John", "age": "30"}

	for _, rec := range s.Scan("user-1") {
		// all records of user-1, by sk
	}

# Deleting

Delete renames the file to "*.json.deleted", Undelete renames it back
and PurgeDeleted removes soft-deleted files for good.

# Errors

Record operations don't return errors: a record that can't be read is
reported as missing and a failed write returns false. Use Options.OnError
or log.Verbose to see why. The errors that are returned come from Bind /
Open: an index.json that can't be decoded or a locked directory.

# Concurrency

Store is not safe for concurrent use. Operations are synchronous and
there's no locking of index.json or record files so two writers, in the
same process or not, can lose index entries or merged values. Use one
Store per directory and serialize calls to it. Options.Lock takes an
exclusive lock file to detect a second process using the same directory.
*/
package store
