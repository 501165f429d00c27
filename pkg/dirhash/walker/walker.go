// Package walker enumerates the regular files below a root directory in
// ascending lexicographic order of their relative paths.
//
// The walk is lazy and pull-based: nothing is read from disk until Next is
// called, and every call does at most one shallow directory listing. Errors
// are yielded inline so that one unreadable subtree or one rejected entry
// never stops the enumeration of the rest of the tree.
//
//	w := walker.New(afero.NewOsFs(), "/srv/data")
//	for {
//	    res, ok := w.Next()
//	    if !ok {
//	        break
//	    }
//	    if res.Err != nil {
//	        log.Print(res.Err)
//	        continue
//	    }
//	    fmt.Println(res.Path)
//	}
package walker

import (
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// Result is one item of a walk: either a file path or an error.
type Result struct {
	Path string
	Err  error
}

// pending is a stack element. Exactly one of dir/err is meaningful.
type pending struct {
	relPath string
	dir     bool
	err     error
}

// sortKey orders siblings so that popping the smallest pending item yields
// files in global lexicographic order. A directory sorts as if its path ended
// in "/", which is where all of its descendants fall.
func (p pending) sortKey() string {
	if p.dir {
		return p.relPath + "/"
	}
	return p.relPath
}

// Walker is a depth-first walk driven by an explicit stack.
// It is not safe for concurrent use.
type Walker struct {
	fs      afero.Fs
	root    string
	stack   []pending
	started bool
}

// New creates a walker over root on the given filesystem.
// The root itself is not touched until the first call to Next.
func New(fsys afero.Fs, root string) *Walker {
	return &Walker{fs: fsys, root: root}
}

// Next returns the next file path or error. ok is false once the walk is
// exhausted.
func (w *Walker) Next() (res Result, ok bool) {
	if !w.started {
		w.started = true
		w.stack = append(w.stack, pending{relPath: "", dir: true})
	}

	for len(w.stack) > 0 {
		top := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		switch {
		case top.err != nil:
			return Result{Err: top.err}, true
		case !top.dir:
			return Result{Path: top.relPath}, true
		}

		if err := w.expand(top.relPath); err != nil {
			return Result{Err: err}, true
		}
	}

	return Result{}, false
}

// expand lists one directory and pushes its children in descending order.
// On a listing failure nothing is pushed.
func (w *Walker) expand(relPath string) error {
	infos, err := afero.ReadDir(w.fs, w.absPath(relPath))
	if err != nil {
		return &IOError{Op: "readdir", Path: displayPath(relPath), Err: err}
	}

	children := make([]pending, 0, len(infos))
	for _, info := range infos {
		childPath := relPath + "/" + info.Name()
		entry, err := Classify(childPath, info)
		if err != nil {
			children = append(children, pending{relPath: childPath, err: err})
			continue
		}
		children = append(children, pending{relPath: childPath, dir: entry.Kind == KindDir})
	}

	slices.SortFunc(children, func(a, b pending) int {
		return strings.Compare(b.sortKey(), a.sortKey())
	})
	w.stack = append(w.stack, children...)
	return nil
}

// absPath maps a relative path back onto the filesystem.
func (w *Walker) absPath(relPath string) string {
	if relPath == "" {
		return w.root
	}
	return filepath.Join(w.root, filepath.FromSlash(relPath))
}

// AbsPath returns the filesystem path of a relative path produced by a walk
// of root.
func AbsPath(root, relPath string) string {
	return (&Walker{root: root}).absPath(relPath)
}

// Walk returns a restartable sequence over the files below root. Every range
// over the sequence re-scans the filesystem with a fresh walker.
func Walk(fsys afero.Fs, root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		w := New(fsys, root)
		for {
			res, ok := w.Next()
			if !ok {
				return
			}
			if !yield(res.Path, res.Err) {
				return
			}
		}
	}
}
