package log

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/toon-format/toon-go"
)

var hdrPrefix = []byte("--- ")

// simpleTypeToStr converts simple types to string
// panics if v is of complex type
func simpleTypeToStr(v any) string {
	rt := reflect.TypeOf(v)
	kind := rt.Kind()
	switch kind {
	case reflect.Array, reflect.Slice, reflect.Struct, reflect.Map, reflect.Chan, reflect.Interface, reflect.Pointer:
		panic(fmt.Sprintf("toStr: value is of kind %v", kind))
	case reflect.String:
		return v.(string)
	}
	return fmt.Sprintf("%v", v)
}

// MarshalEvent serializes an event as:
//
//	--- <len> <unix ms> <name>
//	<data>
//
// data is toon-encoded key / value pairs from vals
func MarshalEvent(name string, t time.Time, vals ...any) []byte {
	n := len(vals)
	if n%2 != 0 {
		panic(fmt.Sprintf("MarshalEvent: odd number of vals (%d)", n))
	}
	var d []byte
	if n > 0 {
		m := map[string]any{}
		for i := 0; i < n; i += 2 {
			k := simpleTypeToStr(vals[i])
			m[k] = vals[i+1]
		}
		d, _ = toon.Marshal(m)
	}

	var wb bytes.Buffer
	wb.Write(hdrPrefix)
	wb.WriteString(strconv.Itoa(len(d)))
	wb.WriteString(" ")
	wb.WriteString(strconv.FormatInt(t.UnixMilli(), 10))
	wb.WriteString(" ")
	wb.WriteString(name)
	wb.WriteByte('\n')
	if len(d) > 0 {
		wb.Write(d)
		if d[len(d)-1] != '\n' {
			wb.WriteByte('\n')
		}
	}
	return wb.Bytes()
}

// Event logs event in toon format to events log
// it's a no-op if Init() wasn't called with a directory
func Event(name string, vals ...any) {
	if eventsFile == nil {
		return
	}
	d := MarshalEvent(name, time.Now().UTC(), vals...)
	_, _ = eventsFile.Write(d)
}

// EventWithDuration is Event with "durmicro" set to dur in microseconds
func EventWithDuration(name string, dur time.Duration, vals ...any) {
	vals = append(vals, "durmicro", dur.Microseconds())
	Event(name, vals...)
}
