package crimeflow

import (
	"strconv"
	"strings"

	"github.com/go-sif/crimeflow/errors"
)

// A Record is an ordered sequence of string fields, typically produced
// by splitting a single line of delimited text
type Record []string

// Field returns the field at index i, or a SchemaError if the Record is too short
func (r Record) Field(i int) (string, error) {
	if i < 0 || i >= len(r) {
		return "", errors.SchemaError{Field: i, Width: len(r), Reason: "field index out of range"}
	}
	return r[i], nil
}

// Int parses the field at index i as a base-10 integer
func (r Record) Int(i int) (int64, error) {
	s, err := r.Field(i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.SchemaError{Field: i, Width: len(r), Value: s, Reason: "not an integer"}
	}
	return v, nil
}

// Set returns a SchemaError if index i is out of range, and otherwise replaces the field at i
func (r Record) Set(i int, value string) error {
	if i < 0 || i >= len(r) {
		return errors.SchemaError{Field: i, Width: len(r), Reason: "field index out of range"}
	}
	r[i] = value
	return nil
}

// Clone returns a copy of this Record which shares no memory with the original
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	c := make(Record, len(r))
	copy(c, r)
	return c
}

// Append returns a copy of this Record with the given fields added to the end
func (r Record) Append(fields ...string) Record {
	c := make(Record, len(r), len(r)+len(fields))
	copy(c, r)
	return append(c, fields...)
}

// String returns a comma-separated representation of the Record
func (r Record) String() string {
	return strings.Join(r, ",")
}

// A KeyedRecord pairs a group key with a payload Record
type KeyedRecord struct {
	Key     string `json:"k"`
	Payload Record `json:"p"`
}

// String returns a textual representation of the KeyedRecord
func (kr KeyedRecord) String() string {
	return kr.Key + " -> [" + kr.Payload.String() + "]"
}
