// Package manifest implements the text format that records one digest and
// one relative path per line:
//
//	<digest-hex> <relative-path>\n
//
// The Writer is strict and refuses any record that would not read back
// unchanged. The Reader only inverts the format: it does not check digest
// shape or ordering.
package manifest

import (
	"errors"
	"fmt"
	"strings"
)

const (
	separator  = ' '
	terminator = '\n'
)

// Record is one line of a manifest.
type Record struct {
	Digest string `json:"digest" yaml:"digest"`
	Path   string `json:"path" yaml:"path"`
}

var (
	// ErrInvalidPath is returned when a path is empty or contains a newline.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidDigest is returned when a digest is empty or contains a space
	// or newline.
	ErrInvalidDigest = errors.New("invalid digest")
	// ErrMalformedRecord matches every *MalformedRecordError.
	ErrMalformedRecord = errors.New("malformed manifest record")
)

// InvalidRecordError reports a record the writer refused.
type InvalidRecordError struct {
	Record Record
	Err    error
}

func (e *InvalidRecordError) Error() string {
	if errors.Is(e.Err, ErrInvalidPath) {
		return fmt.Sprintf("%v: %q", e.Err, e.Record.Path)
	}
	return fmt.Sprintf("%v %q for %q", e.Err, e.Record.Digest, e.Record.Path)
}

func (e *InvalidRecordError) Unwrap() error {
	return e.Err
}

// MalformedRecordError reports a record the reader could not split into a
// digest and a path. Record is the 1-based index of the offending record.
type MalformedRecordError struct {
	Record int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("record %d: %s", e.Record, e.Reason)
}

// Is reports whether target is ErrMalformedRecord.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// Validate checks that rec can be written and read back unchanged.
func Validate(rec Record) error {
	if rec.Path == "" || strings.IndexByte(rec.Path, terminator) >= 0 {
		return &InvalidRecordError{Record: rec, Err: ErrInvalidPath}
	}
	if rec.Digest == "" {
		return &InvalidRecordError{Record: rec, Err: ErrInvalidDigest}
	}
	if strings.ContainsAny(rec.Digest, " \n") {
		return &InvalidRecordError{Record: rec, Err: ErrInvalidDigest}
	}
	return nil
}
