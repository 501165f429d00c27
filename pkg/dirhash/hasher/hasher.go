// Package hasher ties the walker, the digest engine and the manifest codec
// together into the operations the command line exposes: hashing a tree
// into a manifest, listing the problems a hash run would hit, and reading a
// manifest file back.
package hasher

import (
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/jamesainslie/dirhash/pkg/dirhash/digest"
	"github.com/jamesainslie/dirhash/pkg/dirhash/logging"
	"github.com/jamesainslie/dirhash/pkg/dirhash/manifest"
	"github.com/jamesainslie/dirhash/pkg/dirhash/walker"
)

// Options configures a Hasher. Zero values select the OS filesystem, the
// default algorithm and the "hasher" component logger.
type Options struct {
	Fs          afero.Fs
	Algorithm   digest.Algorithm
	StopOnError bool
	Logger      *logging.Logger

	// Skip lists manifest paths ("/dir/file") that are left out of every
	// walk, such as a manifest being written inside the tree it describes.
	Skip []string
}

// Summary describes a completed hash run.
type Summary struct {
	Root      string
	Algorithm digest.Algorithm
	Files     int64
	Bytes     int64
	Errors    []error
	Elapsed   time.Duration

	// ManifestDigest is the digest of the manifest bytes written to the
	// sink. Two trees with equal manifests have equal fingerprints.
	ManifestDigest string
}

// Hasher hashes directory trees. It is not safe for concurrent use.
type Hasher struct {
	fs          afero.Fs
	engine      *digest.Engine
	stopOnError bool
	skip        map[string]struct{}
	log         *logging.Logger
}

// New creates a Hasher.
func New(opts Options) (*Hasher, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Algorithm == "" {
		opts.Algorithm = digest.Default
	}
	if opts.Logger == nil {
		opts.Logger = logging.Get("hasher")
	}

	engine, err := digest.New(opts.Algorithm)
	if err != nil {
		return nil, err
	}
	skip := make(map[string]struct{}, len(opts.Skip))
	for _, path := range opts.Skip {
		skip[path] = struct{}{}
	}
	return &Hasher{
		fs:          opts.Fs,
		engine:      engine,
		stopOnError: opts.StopOnError,
		skip:        skip,
		log:         opts.Logger,
	}, nil
}

// Algorithm returns the digest algorithm in use.
func (h *Hasher) Algorithm() digest.Algorithm {
	return h.engine.Algorithm()
}

// each walks root and hashes every file, calling fn with the record and
// the number of bytes hashed, or with the error for the entry. Returning
// false from fn stops the walk.
func (h *Hasher) each(root string, fn func(rec manifest.Record, n int64, err error) bool) {
	for path, err := range walker.Walk(h.fs, root) {
		if err != nil {
			if !fn(manifest.Record{}, 0, err) {
				return
			}
			continue
		}
		if h.skipped(path) {
			continue
		}

		if strings.Contains(path, "\n") {
			err := &manifest.InvalidRecordError{Record: manifest.Record{Path: path}, Err: manifest.ErrInvalidPath}
			if !fn(manifest.Record{}, 0, err) {
				return
			}
			continue
		}

		sum, n, err := h.engine.File(h.fs, walker.AbsPath(root, path))
		if !fn(manifest.Record{Digest: sum, Path: path}, n, err) {
			return
		}
	}
}

func (h *Hasher) skipped(path string) bool {
	_, ok := h.skip[path]
	if ok {
		h.log.Debug("entry skipped by request", "path", path)
	}
	return ok
}

// Records returns a sequence of the manifest records of root in manifest
// order. Entries that cannot be hashed are yielded as errors; paths holding
// a newline are yielded as *manifest.InvalidRecordError. Ranging over the
// sequence again re-reads the tree.
func (h *Hasher) Records(root string) iter.Seq2[manifest.Record, error] {
	return func(yield func(manifest.Record, error) bool) {
		h.each(root, func(rec manifest.Record, _ int64, err error) bool {
			if err != nil {
				return yield(manifest.Record{}, err)
			}
			return yield(rec, nil)
		})
	}
}

// Hash writes the manifest of root to sink. Entry errors are logged and
// collected in the summary; with StopOnError the first one ends the run and
// is returned. A failure to write to sink always ends the run.
func (h *Hasher) Hash(root string, sink io.Writer) (*Summary, error) {
	start := time.Now()
	summary := &Summary{Root: root, Algorithm: h.Algorithm()}

	fingerprint, err := digest.NewHash(h.Algorithm())
	if err != nil {
		return nil, err
	}
	w := manifest.NewWriter(io.MultiWriter(sink, fingerprint))

	h.log.Info("hash started", "root", root, "algorithm", h.Algorithm())

	var runErr error
	h.each(root, func(rec manifest.Record, n int64, err error) bool {
		if err != nil {
			summary.Errors = append(summary.Errors, err)
			h.log.Warn("entry skipped", "error", err)
			if h.stopOnError {
				runErr = err
				return false
			}
			return true
		}

		if err := w.Write(rec); err != nil {
			runErr = fmt.Errorf("failed to write manifest: %w", err)
			return false
		}
		summary.Files++
		summary.Bytes += n
		h.log.Debug("file hashed", "path", rec.Path, "bytes", n)
		return true
	})

	if err := w.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to write manifest: %w", err)
	}

	summary.ManifestDigest = digest.Hex(fingerprint)
	summary.Elapsed = time.Since(start)

	if runErr != nil {
		h.log.Error("hash aborted", "root", root, "error", runErr)
		return summary, runErr
	}
	h.log.Info("hash finished",
		"root", root,
		"files", summary.Files,
		"bytes", summary.Bytes,
		"errors", len(summary.Errors),
		"elapsed", summary.Elapsed,
	)
	return summary, nil
}

// ListErrors walks root without hashing and yields a message for every
// entry a hash run would reject.
func (h *Hasher) ListErrors(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for path, err := range walker.Walk(h.fs, root) {
			if err == nil && h.skipped(path) {
				continue
			}
			if err == nil && strings.Contains(path, "\n") {
				err = &manifest.InvalidRecordError{Record: manifest.Record{Path: path}, Err: manifest.ErrInvalidPath}
			}
			if err == nil {
				continue
			}
			if !yield(err.Error()) {
				return
			}
		}
	}
}

// ReadAll returns a sequence over the records of the manifest file at path.
// The file is opened when iteration starts and closed when it ends, so the
// sequence may be ranged over more than once. A file that cannot be opened
// yields a single error.
func ReadAll(fsys afero.Fs, path string) iter.Seq2[manifest.Record, error] {
	return func(yield func(manifest.Record, error) bool) {
		f, err := fsys.Open(path)
		if err != nil {
			yield(manifest.Record{}, fmt.Errorf("failed to open manifest: %w", err))
			return
		}
		defer f.Close()

		for rec, err := range manifest.NewReader(f).All() {
			if !yield(rec, err) {
				return
			}
		}
	}
}
