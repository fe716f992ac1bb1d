package store

import (
	"encoding/json"
	"errors"
	"maps"
)

// ErrNoData is returned by DecodeData for a record without data
var ErrNoData = errors.New("record has no data")

// Record is a single item in the store, saved as "<sk>#<pk>.json"
type Record struct {
	PK   string            `json:"pk"`
	SK   string            `json:"sk"`
	Meta map[string]string `json:"meta"`
	// optional binary payload, base64 in JSON
	Data []byte `json:"data,omitempty"`
}

// NewRecord returns a record with empty meta and no data
func NewRecord(pk string, sk string) *Record {
	return &Record{
		PK:   pk,
		SK:   sk,
		Meta: map[string]string{},
	}
}

// SetMeta adds values from meta, over-writing existing keys.
// Keys not in meta are kept.
func (r *Record) SetMeta(meta map[string]string) {
	if r.Meta == nil {
		r.Meta = map[string]string{}
	}
	maps.Copy(r.Meta, meta)
}

// SetData encodes v with c and stores it as record's data
func (r *Record) SetData(c Codec, v any) error {
	d, err := c.Marshal(v)
	if err != nil {
		return err
	}
	r.Data = d
	return nil
}

// DecodeData decodes record's data into v with c.
// c must be the codec the data was encoded with.
func (r *Record) DecodeData(c Codec, v any) error {
	if r.Data == nil {
		return ErrNoData
	}
	return c.Unmarshal(r.Data, v)
}

func marshalRecord(r *Record) ([]byte, error) {
	if r.Meta == nil {
		// always write "meta": {} and not "meta": null
		r.Meta = map[string]string{}
	}
	return json.Marshal(r)
}

func unmarshalRecord(d []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(d, &r); err != nil {
		return nil, err
	}
	if r.Meta == nil {
		r.Meta = map[string]string{}
	}
	return &r, nil
}
