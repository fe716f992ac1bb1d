package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert"
)

func TestMarshalEvent(t *testing.T) {
	tm := time.UnixMilli(1700000000123).UTC()
	d := MarshalEvent("store.set", tm, "pk", "user-1", "merge", true)
	s := string(d)
	lines := strings.SplitN(s, "\n", 2)
	assert.Equal(t, 2, len(lines))
	parts := strings.Split(lines[0], " ")
	assert.Equal(t, 4, len(parts), "header: %s", lines[0])
	assert.Equal(t, "---", parts[0])
	assert.Equal(t, "1700000000123", parts[2])
	assert.Equal(t, "store.set", parts[3])
	assert.True(t, strings.Contains(lines[1], "user-1"), "body: %s", lines[1])
	assert.True(t, strings.HasSuffix(s, "\n"))

	d = MarshalEvent("store.purge", tm)
	assert.Equal(t, "--- 0 1700000000123 store.purge\n", string(d))
}

func TestMarshalEventPanicsOnOddVals(t *testing.T) {
	assert.Panics(t, func() {
		MarshalEvent("bad", time.Now(), "pk")
	})
}

func TestInitWritesFiles(t *testing.T) {
	dir := t.TempDir()
	var logged []string
	Quiet = true
	Init(&Config{
		Dir: dir,
		OnLog: func(s string) {
			logged = append(logged, s)
		},
	})
	defer func() {
		Close()
		Quiet = false
	}()

	Logf("hello %s\n", "world")
	Verbosef("not logged\n")
	IfErrf(os.ErrNotExist, "failed with %s", "reason")
	Event("store.delete", "pk", "a", "sk", "b")

	assert.Equal(t, 2, len(logged))
	assert.Equal(t, "hello world\n", logged[0])
	assert.True(t, strings.HasPrefix(logged[1], "failed with reason\n"))

	Close()
	for _, sub := range []string{"log", "errors", "events"} {
		files, err := os.ReadDir(filepath.Join(dir, sub))
		assert.NoError(t, err, "sub: %s", sub)
		assert.Equal(t, 1, len(files), "sub: %s", sub)
	}
}

func TestNilDailyFile(t *testing.T) {
	var d *dailyFile
	n, err := d.Write([]byte("x"))
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, d.Close())
	assert.False(t, IfErrf(nil))
}

func TestDailyFileRotateAndPrune(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := newDailyFile(dir, 2)
	d.now = func() time.Time { return day }
	defer d.Close()

	for i := 0; i < 4; i++ {
		d.WriteString("line\n")
		d.WriteString("line\n")
		day = day.Add(24 * time.Hour)
	}
	// not a log file, never pruned
	err := os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644)
	assert.NoError(t, err)
	d.WriteString("last\n")

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"2026-03-04.txt", "2026-03-05.txt", "notes.txt"}, names)

	got, err := os.ReadFile(filepath.Join(dir, "2026-03-04.txt"))
	assert.NoError(t, err)
	assert.Equal(t, "line\nline\n", string(got))
}

func TestIsDailyFileName(t *testing.T) {
	assert.True(t, isDailyFileName("2026-03-04.txt"))
	assert.False(t, isDailyFileName("2026-13-04.txt"))
	assert.False(t, isDailyFileName("notes.txt"))
	assert.False(t, isDailyFileName("2026-03-04.log"))
}

func TestGetCallstack(t *testing.T) {
	cs := GetCallstack(0)
	first := strings.Split(cs, "\n")[0]
	assert.True(t, strings.Contains(first, "log_test.go:"), "callstack: %s", cs)
}

func TestInitNilConfig(t *testing.T) {
	Init(&Config{Dir: t.TempDir()})
	Init(nil)
	defer Close()
	assert.True(t, logFile == nil)
	assert.True(t, eventsFile == nil)
	Event("store.set", "pk", "a")
	Quiet = true
	Logf("no files\n")
	Quiet = false
}
