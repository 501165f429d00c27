// Package filter selects manifest records by path for display. It never
// changes what a hash run reads or writes.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/jamesainslie/dirhash/pkg/dirhash/manifest"
)

// ErrInvalidPattern is returned for a glob pattern that does not compile.
var ErrInvalidPattern = errors.New("invalid pattern")

// pattern is a compiled glob. Patterns without a "/" match the last path
// element only, so "*.jpg" selects JPEG files at any depth.
type pattern struct {
	source   string
	g        glob.Glob
	baseOnly bool
}

func (p pattern) match(path string) bool {
	if p.baseOnly {
		path = path[strings.LastIndexByte(path, '/')+1:]
	}
	return p.g.Match(path)
}

// Filter selects records by path.
type Filter struct {
	include []pattern
	exclude []pattern

	// Limit bounds the number of records Apply returns. 0 means unlimited.
	Limit int
}

// Option configures a Filter.
type Option func(*options)

type options struct {
	include []string
	exclude []string
	limit   int
}

// WithInclude sets the include patterns. If any are set, a path must match
// at least one of them.
func WithInclude(patterns ...string) Option {
	return func(o *options) {
		o.include = patterns
	}
}

// WithExclude sets the exclude patterns. A path matching any of them is
// dropped, even when it is included.
func WithExclude(patterns ...string) Option {
	return func(o *options) {
		o.exclude = patterns
	}
}

// WithLimit sets the maximum number of records Apply returns.
func WithLimit(n int) Option {
	return func(o *options) {
		o.limit = n
	}
}

// New compiles the configured patterns. Patterns use "/" as the separator:
// "*" stays within one path element and "**" crosses elements.
func New(opts ...Option) (*Filter, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.limit < 0 {
		o.limit = 0
	}

	include, err := compile(o.include)
	if err != nil {
		return nil, err
	}
	exclude, err := compile(o.exclude)
	if err != nil {
		return nil, err
	}
	return &Filter{include: include, exclude: exclude, Limit: o.limit}, nil
}

func compile(sources []string) ([]pattern, error) {
	patterns := make([]pattern, 0, len(sources))
	for _, src := range sources {
		if src == "" {
			continue
		}
		g, err := glob.Compile(src, '/')
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, src, err)
		}
		patterns = append(patterns, pattern{
			source:   src,
			g:        g,
			baseOnly: !strings.Contains(src, "/"),
		})
	}
	return patterns, nil
}

// IsEmpty reports whether the filter keeps every record.
func (f *Filter) IsEmpty() bool {
	return len(f.include) == 0 && len(f.exclude) == 0 && f.Limit == 0
}

// Match reports whether path passes the include and exclude patterns.
func (f *Filter) Match(path string) bool {
	if len(f.include) > 0 && !matchAny(f.include, path) {
		return false
	}
	return !matchAny(f.exclude, path)
}

func matchAny(patterns []pattern, path string) bool {
	for _, p := range patterns {
		if p.match(path) {
			return true
		}
	}
	return false
}

// Select returns the records whose paths match, in their original order.
// The input is not modified.
func (f *Filter) Select(records []manifest.Record) []manifest.Record {
	selected := make([]manifest.Record, 0, len(records))
	for _, rec := range records {
		if f.Match(rec.Path) {
			selected = append(selected, rec)
		}
	}
	return selected
}

// Apply selects the matching records and truncates them to Limit.
func (f *Filter) Apply(records []manifest.Record) []manifest.Record {
	selected := f.Select(records)
	if f.Limit > 0 && len(selected) > f.Limit {
		selected = selected[:f.Limit]
	}
	return selected
}
