package walker

import (
	"io/fs"
	"unicode/utf8"
)

// Kind is the classification of an accepted entry.
type Kind int

const (
	// KindFile is a regular file.
	KindFile Kind = iota
	// KindDir is a directory.
	KindDir
)

// Entry is one accepted filesystem entry.
type Entry struct {
	Kind Kind
	// RelPath starts with "/" and uses "/" as separator on every platform.
	RelPath string
}

// Classify decides whether info describes a regular file, a directory or
// something that must be rejected. relPath is the entry's relative path and
// is only used to build the result.
//
// The mode bits must come from lstat, otherwise symlinks are invisible.
func Classify(relPath string, info fs.FileInfo) (Entry, error) {
	if !utf8.ValidString(info.Name()) {
		return Entry{}, &RejectedEntryError{Path: relPath, Kind: InvalidName}
	}

	mode := info.Mode()
	switch {
	case mode&fs.ModeSymlink != 0:
		return Entry{}, &RejectedEntryError{Path: relPath, Kind: SymbolicLink}
	case mode.IsDir():
		return Entry{Kind: KindDir, RelPath: relPath}, nil
	case mode.IsRegular():
		return Entry{Kind: KindFile, RelPath: relPath}, nil
	default:
		return Entry{}, &RejectedEntryError{Path: relPath, Kind: UnsupportedType}
	}
}
