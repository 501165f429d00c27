// Package output renders dirhash results in the formats selectable with
// --output: plain, pretty, json, jsonl, yaml and csv.
//
// Formatters register themselves in DefaultRegistry:
//
//	formatter, err := output.Get("json")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, result); err != nil {
//	    return err
//	}
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/dirhash/pkg/dirhash/diff"
	"github.com/jamesainslie/dirhash/pkg/dirhash/manifest"
)

// Summary describes a hash run.
type Summary struct {
	Files          int64         `json:"files" yaml:"files"`
	Bytes          int64         `json:"bytes" yaml:"bytes"`
	Errors         int           `json:"errors" yaml:"errors"`
	Elapsed        time.Duration `json:"elapsed" yaml:"elapsed"`
	ManifestDigest string        `json:"manifest_digest" yaml:"manifest_digest"`
}

// Run is one entry of the run history.
type Run struct {
	ID             string    `json:"id" yaml:"id"`
	Root           string    `json:"root" yaml:"root"`
	Algorithm      string    `json:"algorithm" yaml:"algorithm"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
	Files          int64     `json:"files" yaml:"files"`
	Bytes          int64     `json:"bytes" yaml:"bytes"`
	Errors         int       `json:"errors" yaml:"errors"`
	ManifestDigest string    `json:"manifest_digest" yaml:"manifest_digest"`
}

// Result is everything a command may print. Formatters render the sections
// that are set and skip the rest.
type Result struct {
	// Source names what was read: a manifest file, a directory or a run.
	Source    string `json:"source" yaml:"source"`
	Algorithm string `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`

	Records []manifest.Record `json:"records,omitempty" yaml:"records,omitempty"`
	Diff    *diff.Result      `json:"diff,omitempty" yaml:"diff,omitempty"`
	Runs    []Run             `json:"runs,omitempty" yaml:"runs,omitempty"`
	Summary *Summary          `json:"summary,omitempty" yaml:"summary,omitempty"`
	Errors  []string          `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Formatter renders a Result.
type Formatter interface {
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory creates a Formatter.
type FormatterFactory func() Formatter

// Registry maps names to formatter factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]FormatterFactory)}
}

// Register adds or replaces a formatter.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns the registered names, sorted.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the built-in formatters.
var DefaultRegistry = NewRegistry()

// Register adds a formatter to DefaultRegistry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a formatter from DefaultRegistry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available lists the formatters in DefaultRegistry.
func Available() []string {
	return DefaultRegistry.Available()
}

// Status labels used for diff entries.
const (
	StatusAdded   = "added"
	StatusChanged = "changed"
	StatusMissing = "missing"
)

// diffEntry flattens a diff into one row per path.
type diffEntry struct {
	Status string `json:"status" yaml:"status"`
	Path   string `json:"path" yaml:"path"`
	Old    string `json:"old,omitempty" yaml:"old,omitempty"`
	New    string `json:"new,omitempty" yaml:"new,omitempty"`
}

// diffEntries lists added, changed and missing paths in path order.
func diffEntries(d *diff.Result) []diffEntry {
	if d == nil {
		return nil
	}
	entries := make([]diffEntry, 0, len(d.Added)+len(d.Changed)+len(d.Missing))
	for _, p := range d.Added {
		entries = append(entries, diffEntry{Status: StatusAdded, Path: p})
	}
	for _, c := range d.Changed {
		entries = append(entries, diffEntry{Status: StatusChanged, Path: c.Path, Old: c.Old, New: c.New})
	}
	for _, p := range d.Missing {
		entries = append(entries, diffEntry{Status: StatusMissing, Path: p})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries
}

// shortDigest abbreviates a digest for human-oriented formats.
func shortDigest(d string) string {
	const n = 16
	if len(d) <= n {
		return d
	}
	return d[:n]
}
