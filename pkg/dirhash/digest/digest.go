// Package digest computes content digests of files and renders them as
// lowercase hexadecimal strings.
package digest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"sync"

	"github.com/spf13/afero"
)

// copyBufferSize is the size of the buffers used to stream file content.
const copyBufferSize = 32 * 1024

var bufferPool = sync.Pool{
	New: func() interface{} {
		buffer := make([]byte, copyBufferSize)
		return &buffer
	},
}

// ErrHash matches every *HashError.
var ErrHash = errors.New("hash failure")

// HashError is returned when a file cannot be opened or read.
type HashError struct {
	Op   string
	Path string
	Err  error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *HashError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrHash.
func (e *HashError) Is(target error) bool {
	return target == ErrHash
}

// Engine hashes byte streams with one algorithm.
// An Engine reuses its hash state and is not safe for concurrent use.
type Engine struct {
	alg Algorithm
	h   hash.Hash
}

// New creates an engine for alg.
func New(alg Algorithm) (*Engine, error) {
	h, err := NewHash(alg)
	if err != nil {
		return nil, err
	}
	return &Engine{alg: alg, h: h}, nil
}

// NewHash returns a fresh hash.Hash for alg, for callers that digest a
// stream as it is written. Hex renders its sum.
func NewHash(alg Algorithm) (hash.Hash, error) {
	ctor, ok := constructors[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, alg)
	}
	return ctor(), nil
}

// Hex returns the lowercase hex form of h's current sum.
func Hex(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// Algorithm returns the engine's algorithm.
func (e *Engine) Algorithm() Algorithm {
	return e.alg
}

// Size returns the length of the hex digests the engine produces.
func (e *Engine) Size() int {
	return e.h.Size() * 2
}

// Sum reads r to the end and returns its hex digest and the number of bytes
// read.
func (e *Engine) Sum(r io.Reader) (string, int64, error) {
	bufPtr := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(bufPtr)

	e.h.Reset()
	n, err := io.CopyBuffer(e.h, r, *bufPtr)
	if err != nil {
		return "", n, err
	}
	return Hex(e.h), n, nil
}

// Bytes returns the hex digest of b.
func (e *Engine) Bytes(b []byte) string {
	e.h.Reset()
	e.h.Write(b)
	return Hex(e.h)
}

// File hashes the whole content of the file at path. Failures are returned
// as *HashError carrying the path and the underlying cause.
func (e *Engine) File(fsys afero.Fs, path string) (string, int64, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", 0, &HashError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	sum, n, err := e.Sum(f)
	if err != nil {
		return "", n, &HashError{Op: "read", Path: path, Err: err}
	}
	return sum, n, nil
}
