package walker

import (
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInfo struct {
	name string
	mode fs.FileMode
}

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return 0 }
func (f fakeInfo) Mode() fs.FileMode  { return f.mode }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return f.mode.IsDir() }
func (f fakeInfo) Sys() any           { return nil }

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		info     fakeInfo
		wantKind Kind
		rejected bool
		reason   RejectedKind
	}{
		{name: "regular file", info: fakeInfo{name: "f", mode: 0o644}, wantKind: KindFile},
		{name: "directory", info: fakeInfo{name: "d", mode: fs.ModeDir | 0o755}, wantKind: KindDir},
		{name: "symlink", info: fakeInfo{name: "l", mode: fs.ModeSymlink | 0o777}, rejected: true, reason: SymbolicLink},
		{name: "symlink flagged as dir", info: fakeInfo{name: "l", mode: fs.ModeSymlink | fs.ModeDir}, rejected: true, reason: SymbolicLink},
		{name: "named pipe", info: fakeInfo{name: "p", mode: fs.ModeNamedPipe}, rejected: true, reason: UnsupportedType},
		{name: "socket", info: fakeInfo{name: "s", mode: fs.ModeSocket}, rejected: true, reason: UnsupportedType},
		{name: "device", info: fakeInfo{name: "dev", mode: fs.ModeDevice}, rejected: true, reason: UnsupportedType},
		{name: "char device", info: fakeInfo{name: "tty", mode: fs.ModeDevice | fs.ModeCharDevice}, rejected: true, reason: UnsupportedType},
		{name: "invalid utf-8", info: fakeInfo{name: "bad\xfe", mode: 0o644}, rejected: true, reason: InvalidName},
		{name: "unicode name", info: fakeInfo{name: "résumé.pdf", mode: 0o644}, wantKind: KindFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entry, err := Classify("/x/"+tt.info.name, tt.info)
			if tt.rejected {
				var rejected *RejectedEntryError
				require.ErrorAs(t, err, &rejected)
				assert.Equal(t, tt.reason, rejected.Kind)
				assert.Equal(t, "/x/"+tt.info.name, rejected.Path)
				assert.ErrorIs(t, err, ErrRejectedEntry)
				assert.NotErrorIs(t, err, ErrIO)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, entry.Kind)
			assert.Equal(t, "/x/"+tt.info.name, entry.RelPath)
		})
	}
}

func TestRejectedKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "symbolic link", SymbolicLink.String())
	assert.Equal(t, "unsupported file type", UnsupportedType.String())
	assert.Equal(t, "invalid name", InvalidName.String())
	assert.Equal(t, "unknown", RejectedKind(42).String())
}

func TestRejectedEntryError_Message(t *testing.T) {
	t.Parallel()

	err := &RejectedEntryError{Path: "/a/link", Kind: SymbolicLink}
	assert.Equal(t, `rejected symbolic link: "/a/link"`, err.Error())
}
