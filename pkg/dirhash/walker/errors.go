package walker

import (
	"errors"
	"fmt"
)

// ErrRejectedEntry matches every *RejectedEntryError.
var ErrRejectedEntry = errors.New("rejected entry")

// ErrIO matches every *IOError.
var ErrIO = errors.New("io failure")

// RejectedKind describes why an entry cannot appear in a manifest.
type RejectedKind int

const (
	// SymbolicLink is any symlink, whatever it points to.
	SymbolicLink RejectedKind = iota
	// UnsupportedType is a device, socket, fifo or other special file.
	UnsupportedType
	// InvalidName is a name that is not valid UTF-8.
	InvalidName
)

// String returns the string representation of the kind.
func (k RejectedKind) String() string {
	switch k {
	case SymbolicLink:
		return "symbolic link"
	case UnsupportedType:
		return "unsupported file type"
	case InvalidName:
		return "invalid name"
	default:
		return "unknown"
	}
}

// RejectedEntryError is returned for an entry the classifier refuses.
type RejectedEntryError struct {
	// Path is the relative path of the entry.
	Path string
	// Kind is the reason for the rejection.
	Kind RejectedKind
}

func (e *RejectedEntryError) Error() string {
	return fmt.Sprintf("rejected %s: %q", e.Kind, e.Path)
}

// Is reports whether target is ErrRejectedEntry.
func (e *RejectedEntryError) Is(target error) bool {
	return target == ErrRejectedEntry
}

// IOError is returned when listing a directory fails.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrIO.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// displayPath renders the root, whose relative path is empty, as "/".
func displayPath(relPath string) string {
	if relPath == "" {
		return "/"
	}
	return relPath
}
