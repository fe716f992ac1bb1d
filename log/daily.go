package log

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

const dayFormat = "2006-01-02"

// dailyFile appends to "<dir>/<YYYY-MM-DD>.txt", switching to a new file
// when the UTC day changes. Only the newest maxDays files are kept
// (0 keeps all). Methods are no-ops on a nil receiver.
type dailyFile struct {
	dir     string
	maxDays int
	now     func() time.Time

	mu  sync.Mutex
	day string
	f   *os.File
}

func newDailyFile(dir string, maxDays int) *dailyFile {
	return &dailyFile{
		dir:     dir,
		maxDays: maxDays,
		now:     time.Now,
	}
}

func isDailyFileName(name string) bool {
	day, ok := strings.CutSuffix(name, ".txt")
	if !ok {
		return false
	}
	_, err := time.Parse(dayFormat, day)
	return err == nil
}

func (d *dailyFile) open(day string) error {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(d.dir, day+".txt")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	d.f = f
	d.day = day
	d.prune()
	return nil
}

// prune removes the oldest daily files so that at most maxDays remain.
// File names sort by date.
func (d *dailyFile) prune() {
	if d.maxDays <= 0 {
		return
	}
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && isDailyFileName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	for len(names) > d.maxDays {
		_ = os.Remove(filepath.Join(d.dir, names[0]))
		names = names[1:]
	}
}

func (d *dailyFile) close() error {
	if d.f == nil {
		return nil
	}
	errSync := d.f.Sync()
	err := d.f.Close()
	d.f = nil
	d.day = ""
	if err == nil {
		err = errSync
	}
	return err
}

func (d *dailyFile) Write(p []byte) (int, error) {
	if d == nil {
		return len(p), nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	day := d.now().UTC().Format(dayFormat)
	if d.f != nil && d.day != day {
		if err := d.close(); err != nil {
			return 0, err
		}
	}
	if d.f == nil {
		if err := d.open(day); err != nil {
			return 0, err
		}
	}
	return d.f.Write(p)
}

func (d *dailyFile) WriteString(s string) {
	_, _ = d.Write([]byte(s))
}

func (d *dailyFile) Close() error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.close()
}
