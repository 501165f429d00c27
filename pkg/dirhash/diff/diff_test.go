package diff

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/dirhash/pkg/dirhash/manifest"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	known := []manifest.Record{
		{Digest: "1", Path: "/same"},
		{Digest: "2", Path: "/edited"},
		{Digest: "3", Path: "/gone"},
		{Digest: "4", Path: "/a/gone-too"},
	}
	current := []manifest.Record{
		{Digest: "9", Path: "/new"},
		{Digest: "1", Path: "/same"},
		{Digest: "8", Path: "/edited"},
		{Digest: "7", Path: "/a/new"},
	}

	res := Compare(known, current)
	assert.Equal(t, []string{"/a/new", "/new"}, res.Added)
	assert.Equal(t, []Change{{Path: "/edited", Old: "2", New: "8"}}, res.Changed)
	assert.Equal(t, []string{"/a/gone-too", "/gone"}, res.Missing)
	assert.Equal(t, 1, res.Unchanged)
	assert.False(t, res.Empty())
}

func TestCompare_Identical(t *testing.T) {
	t.Parallel()

	records := []manifest.Record{{Digest: "1", Path: "/a"}, {Digest: "2", Path: "/b"}}
	res := Compare(records, records)
	assert.True(t, res.Empty())
	assert.Equal(t, 2, res.Unchanged)
	assert.NotNil(t, res.Added)
	assert.NotNil(t, res.Missing)
}

func TestCompare_Empty(t *testing.T) {
	t.Parallel()

	res := Compare(nil, nil)
	assert.True(t, res.Empty())
	assert.Zero(t, res.Unchanged)

	res = Compare(nil, []manifest.Record{{Digest: "1", Path: "/x"}})
	assert.Equal(t, []string{"/x"}, res.Added)

	res = Compare([]manifest.Record{{Digest: "1", Path: "/x"}}, nil)
	assert.Equal(t, []string{"/x"}, res.Missing)
}

func TestCompare_MovedContentIsAddedAndMissing(t *testing.T) {
	t.Parallel()

	res := Compare(
		[]manifest.Record{{Digest: "d", Path: "/old-name"}},
		[]manifest.Record{{Digest: "d", Path: "/new-name"}},
	)
	assert.Equal(t, []string{"/new-name"}, res.Added)
	assert.Equal(t, []string{"/old-name"}, res.Missing)
	assert.Empty(t, res.Changed)
}

func TestCollect(t *testing.T) {
	t.Parallel()

	records, err := Collect(manifest.NewReader(strings.NewReader("a /1\nb /2\n")).All())
	require.NoError(t, err)
	assert.Equal(t, []manifest.Record{{Digest: "a", Path: "/1"}, {Digest: "b", Path: "/2"}}, records)

	records, err = Collect(manifest.NewReader(strings.NewReader("a /1\nb /2")).All())
	assert.True(t, errors.Is(err, manifest.ErrMalformedRecord))
	assert.Len(t, records, 1)
}
