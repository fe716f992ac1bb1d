/*
Package atomicfile writes record and index files so that a reader never
sees a partially written file.

Data goes to a temporary file in the destination directory which is
renamed over the destination on Close(). If Write() or Close() fails,
the temporary file is removed and the destination is left untouched.

Files end up with FileMode (0644) permissions.

Temporary files are named ".tmp-<random>" so that a directory scan
looking for "<sk>#<pk>.json" files never picks them up, even if a crash
left one behind.

	func saveRecord(path string, d []byte) error {
		return atomicfile.WriteFile(path, d)
	}

or, when streaming:

	f, err := atomicfile.New(path)
	if err != nil {
		return err
	}
	// calling Close() twice is a no-op
	defer f.Close()
	if err = json.NewEncoder(f).Encode(v); err != nil {
		return err
	}
	return f.Close()
*/
package atomicfile
