// Package diff compares two manifests of the same tree taken at different
// times.
package diff

import (
	"iter"
	"slices"
	"strings"

	"github.com/jamesainslie/dirhash/pkg/dirhash/manifest"
)

// Change is a path whose digest differs between the two manifests.
type Change struct {
	Path string `json:"path" yaml:"path"`
	Old  string `json:"old" yaml:"old"`
	New  string `json:"new" yaml:"new"`
}

// Result partitions the paths of two manifests. All lists are sorted by
// path.
type Result struct {
	Added     []string `json:"added" yaml:"added"`
	Changed   []Change `json:"changed" yaml:"changed"`
	Missing   []string `json:"missing" yaml:"missing"`
	Unchanged int      `json:"unchanged" yaml:"unchanged"`
}

// Empty reports whether the manifests describe the same tree.
func (r *Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Changed) == 0 && len(r.Missing) == 0
}

// Compare reports what happened between known and current: paths only in
// current are added, paths only in known are missing, and paths in both
// with different digests are changed. Neither input needs to be sorted. If
// a path repeats, its last record wins.
func Compare(known, current []manifest.Record) *Result {
	before := index(known)
	after := index(current)

	res := &Result{
		Added:   []string{},
		Changed: []Change{},
		Missing: []string{},
	}
	for path, digest := range after {
		old, ok := before[path]
		switch {
		case !ok:
			res.Added = append(res.Added, path)
		case old != digest:
			res.Changed = append(res.Changed, Change{Path: path, Old: old, New: digest})
		default:
			res.Unchanged++
		}
	}
	for path := range before {
		if _, ok := after[path]; !ok {
			res.Missing = append(res.Missing, path)
		}
	}

	slices.Sort(res.Added)
	slices.Sort(res.Missing)
	slices.SortFunc(res.Changed, func(a, b Change) int {
		return strings.Compare(a.Path, b.Path)
	})
	return res
}

func index(records []manifest.Record) map[string]string {
	m := make(map[string]string, len(records))
	for _, rec := range records {
		m[rec.Path] = rec.Digest
	}
	return m
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq iter.Seq2[manifest.Record, error]) ([]manifest.Record, error) {
	var records []manifest.Record
	for rec, err := range seq {
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}
