package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
)

// Reader parses records from a byte stream.
type Reader struct {
	r      *bufio.Reader
	record int
}

// NewReader returns a Reader that reads from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Read returns the next record. It returns io.EOF when the input ends before
// the first byte of a record. A record that cannot be split into a non-empty
// digest and a newline-terminated, non-empty path yields a
// *MalformedRecordError; reading may continue after it.
func (r *Reader) Read() (Record, error) {
	digest, err := r.r.ReadString(separator)
	if err != nil {
		if errors.Is(err, io.EOF) {
			if digest == "" {
				return Record{}, io.EOF
			}
			return Record{}, r.malformed("missing path")
		}
		return Record{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	r.record++
	digest = digest[:len(digest)-1]

	path, err := r.r.ReadString(terminator)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, r.current("unterminated path")
		}
		return Record{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	path = path[:len(path)-1]

	switch {
	case digest == "":
		return Record{}, r.current("empty digest")
	case path == "":
		return Record{}, r.current("empty path")
	}
	return Record{Digest: digest, Path: path}, nil
}

// malformed reports an error for a record that was started but not counted.
func (r *Reader) malformed(reason string) error {
	r.record++
	return r.current(reason)
}

func (r *Reader) current(reason string) error {
	return &MalformedRecordError{Record: r.record, Reason: reason}
}

// All returns a sequence over the remaining records. Malformed records are
// yielded as errors and reading continues; any other read error is yielded
// once and ends the sequence.
func (r *Reader) All() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for {
			rec, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(rec, err) {
				return
			}
			if err != nil && !errors.Is(err, ErrMalformedRecord) {
				return
			}
		}
	}
}
