// Package types holds helpers shared by the dirhash packages and commands.
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Binary (IEC) size units.
const (
	KiB int64 = 1024
	MiB       = 1024 * KiB
	GiB       = 1024 * MiB
	TiB       = 1024 * GiB
)

var (
	// ErrInvalidSize indicates that a size string could not be parsed.
	ErrInvalidSize = errors.New("invalid size format")
	// ErrNegativeSize indicates a negative size value.
	ErrNegativeSize = errors.New("size cannot be negative")
)

// ParseSize parses sizes such as "512", "512B", "100K", "10MB" or "1.5GiB".
// Units are always binary: "10MB" is 10 MiB. Fractions are truncated to
// whole bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	case strings.HasPrefix(s, "-"):
		return 0, ErrNegativeSize
	}

	normalized := strings.ToUpper(s)
	normalized = strings.TrimSuffix(normalized, "IB")
	normalized = strings.TrimSuffix(normalized, "B")
	if n := len(normalized); n > 0 && strings.ContainsRune("KMGT", rune(normalized[n-1])) {
		normalized += "iB"
	}

	bytes, err := humanize.ParseBytes(normalized)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return int64(bytes), nil
}

// FormatSize renders bytes with binary units, e.g. "1.5 MiB".
func FormatSize(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatCount renders n with thousands separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// FormatAge renders how long ago t was, e.g. "3 hours ago".
func FormatAge(t time.Time) string {
	return humanize.Time(t)
}
