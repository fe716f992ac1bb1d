package log

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

var (
	logFile    *dailyFile
	errorsFile *dailyFile
	eventsFile *dailyFile
	onLog      func(s string)

	// Verbose enables Verbosef() output. The store reports recoverable
	// errors (corrupt records, failed renames) with Verbosef()
	Verbose bool

	// Quiet stops Logf() from printing to stdout. Log files and
	// Config.OnLog still get the message.
	Quiet bool
)

// Config configures where logs go
type Config struct {
	// Dir gets "log", "errors" and "events" sub-directories with one
	// file per day. Empty Dir means no log files.
	Dir string
	// MaxDays is how many daily files are kept in each sub-directory.
	// 0 keeps all.
	MaxDays int
	// OnLog, if set, gets every Logf() message
	OnLog func(s string)
}

// Init sets up logging. Before Init (or after Close) Logf only prints to
// stdout and Event is a no-op. nil config is the same as &Config{}.
func Init(config *Config) {
	Close()
	if config == nil {
		config = &Config{}
	}
	onLog = config.OnLog
	if config.Dir == "" {
		return
	}
	logFile = newDailyFile(filepath.Join(config.Dir, "log"), config.MaxDays)
	errorsFile = newDailyFile(filepath.Join(config.Dir, "errors"), config.MaxDays)
	// files are created on first write
	eventsFile = newDailyFile(filepath.Join(config.Dir, "events"), config.MaxDays)
}

// Close flushes and closes log files
func Close() {
	for _, f := range []**dailyFile{&logFile, &errorsFile, &eventsFile} {
		_ = (*f).Close()
		*f = nil
	}
	onLog = nil
}

// Logf prints a message and writes it to the log file
func Logf(s string, args ...any) {
	if len(args) > 0 {
		s = fmt.Sprintf(s, args...)
	}
	if !Quiet {
		fmt.Print(s)
	}
	logFile.WriteString(s)
	if onLog != nil {
		onLog(s)
	}
}

// Verbosef is Logf() that only logs if Verbose is true
func Verbosef(format string, args ...any) {
	if !Verbose {
		return
	}
	Logf(format, args...)
}

// GetCallstack returns "file:line" of callers, one per line.
// skip 0 is the caller of GetCallstack.
func GetCallstack(skip int) string {
	var pcs [32]uintptr
	n := runtime.Callers(skip+2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	var lines []string
	for {
		frame, more := frames.Next()
		if frame.File != "" {
			lines = append(lines, frame.File+":"+strconv.Itoa(frame.Line))
		}
		if !more {
			break
		}
	}
	return strings.Join(lines, "\n")
}

// Errorf logs a message followed by the callstack. It also goes to
// the errors log.
func Errorf(s string, args ...any) {
	if len(args) > 0 {
		s = fmt.Sprintf(s, args...)
	}
	s = s + "\n" + GetCallstack(1) + "\n"
	Logf("%s", s)
	errorsFile.WriteString(s)
}

// IfErrf logs with Errorf and returns true if err is not nil.
//
//	IfErrf(err)                              // logs err.Error()
//	IfErrf(err, "failed to save '%s'", path) // logs formatted message
func IfErrf(err error, a ...any) bool {
	if err == nil {
		return false
	}
	if len(a) == 0 {
		Errorf("%s", err.Error())
		return true
	}
	s, ok := a[0].(string)
	if !ok {
		s = fmt.Sprint(a[0])
	}
	if len(a) > 1 {
		s = fmt.Sprintf(s, a[1:]...)
	}
	Errorf("%s", s)
	return true
}
