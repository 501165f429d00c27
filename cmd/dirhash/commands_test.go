package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/dirhash/pkg/dirhash/config"
	"github.com/jamesainslie/dirhash/pkg/dirhash/digest"
	"github.com/jamesainslie/dirhash/pkg/dirhash/history"
	"github.com/jamesainslie/dirhash/pkg/dirhash/walker"
)

const emptySHA512 = "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e"

func TestHash_Stdout(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"B": "", "A/A": ""})

	stdout, stderr, err := execute(t, "hash", root)
	require.NoError(t, err)
	assert.Equal(t, emptySHA512+" /A/A\n"+emptySHA512+" /B\n", stdout)
	assert.Empty(t, stderr)
}

func TestHash_OutFilePrintsSummary(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a": "hello", "sub/b": "world!"})
	out := filepath.Join(t.TempDir(), "tree.manifest")

	stdout, _, err := execute(t, "hash", "-o", out, root)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], " /a"))
	assert.True(t, strings.HasSuffix(lines[1], " /sub/b"))

	assert.Contains(t, stdout, "files:")
	assert.Contains(t, stdout, "bytes:       11")
	assert.Contains(t, stdout, "fingerprint:")
}

func TestHash_OutFileInsideRoot(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a": "one", "b": "two"})
	out := filepath.Join(root, "m.txt")

	_, _, err := execute(t, "hash", "-o", out, root)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], " /a"))
	assert.True(t, strings.HasSuffix(lines[1], " /b"))
	assert.NotContains(t, string(data), "/m.txt")

	stdout, _, err := execute(t, "diff", out, root)
	require.NoError(t, err)
	assert.Equal(t, "0 added, 0 changed, 0 missing, 2 unchanged\n", stdout)
}

func TestManifestPathIn(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "r")

	tests := []struct {
		name   string
		file   string
		want   string
		inside bool
	}{
		{name: "top level", file: filepath.Join(root, "m.txt"), want: "/m.txt", inside: true},
		{name: "nested", file: filepath.Join(root, "sub", "m.txt"), want: "/sub/m.txt", inside: true},
		{name: "root itself", file: root},
		{name: "sibling", file: filepath.Join(parent, "m.txt")},
		{name: "shared prefix", file: filepath.Join(parent, "rx", "m.txt")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := manifestPathIn(root, tt.file)
			assert.Equal(t, tt.inside, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHash_Algorithm(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f": ""})

	stdout, _, err := execute(t, "hash", "-a", "sha256", root)
	require.NoError(t, err)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855 /f\n", stdout)

	_, _, err = execute(t, "hash", "-a", "md5", root)
	assert.ErrorIs(t, err, digest.ErrUnknownAlgorithm)
}

func TestHash_AlgorithmFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("DIRHASH_ALGORITHM", "sha256")
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f": ""})

	stdout, _, err := execute(t, "hash", root)
	require.NoError(t, err)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855 /f\n", stdout)
}

func symlinkTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a": "", "c": ""})
	if err := os.Symlink(filepath.Join(root, "a"), filepath.Join(root, "b")); err != nil {
		t.Skipf("symlinks not available: %v", err)
	}
	return root
}

func TestHash_ReportsRejectedEntries(t *testing.T) {
	isolate(t)
	root := symlinkTree(t)

	stdout, stderr, err := execute(t, "hash", root)
	require.Error(t, err)
	assert.Equal(t, "1 entries could not be hashed", err.Error())
	assert.Equal(t, emptySHA512+" /a\n"+emptySHA512+" /c\n", stdout)
	assert.Contains(t, stderr, `error: rejected symbolic link: "/b"`)
}

func TestHash_StopOnError(t *testing.T) {
	isolate(t)
	root := symlinkTree(t)

	stdout, stderr, err := execute(t, "hash", "--stop-on-error", root)
	require.ErrorIs(t, err, walker.ErrRejectedEntry)
	assert.Equal(t, emptySHA512+" /a\n", stdout)
	assert.NotContains(t, stderr, "error: rejected")
}

func TestListErrors(t *testing.T) {
	isolate(t)
	root := symlinkTree(t)

	stdout, _, err := execute(t, "list-errors", root)
	require.Error(t, err)
	assert.Equal(t, "rejected symbolic link: \"/b\"\n", stdout)

	clean := t.TempDir()
	writeTree(t, clean, map[string]string{"x": "1"})
	stdout, _, err = execute(t, "list-errors", clean)
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestRead(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "m")
	require.NoError(t, os.WriteFile(path, []byte("abc /x y\n /bad\ndef /z\n"), 0o644))

	stdout, _, err := execute(t, "read", "-O", "json", path)
	require.Error(t, err)
	assert.Equal(t, "1 manifest errors", err.Error())

	var doc struct {
		Records []struct {
			Digest string `json:"digest"`
			Path   string `json:"path"`
		} `json:"records"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	require.Len(t, doc.Records, 2)
	assert.Equal(t, "/x y", doc.Records[0].Path)
	assert.Equal(t, "def", doc.Records[1].Digest)
	require.Len(t, doc.Errors, 1)
	assert.Contains(t, doc.Errors[0], "record 2: empty digest")
}

func TestRead_MissingFile(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "read", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, stdout, "failed to open manifest")
}

func TestDiff_AgainstDirectory(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"keep": "same", "edit": "before", "gone": "x"})
	manifestPath := filepath.Join(t.TempDir(), "before.manifest")
	_, _, err := execute(t, "hash", "-o", manifestPath, root)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "edit"), []byte("after"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(root, "gone")))
	require.NoError(t, os.WriteFile(filepath.Join(root, "new"), []byte("n"), 0o644))

	stdout, _, err := execute(t, "diff", manifestPath, root)
	require.NoError(t, err)
	assert.Equal(t, "~ /edit\n- /gone\n+ /new\n1 added, 1 changed, 1 missing, 1 unchanged\n", stdout)
}

func TestDiff_TwoManifests(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	older := filepath.Join(dir, "old")
	newer := filepath.Join(dir, "new")
	require.NoError(t, os.WriteFile(older, []byte("aa /a\nbb /b\n"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("aa /a\ncc /b\n"), 0o644))

	stdout, _, err := execute(t, "diff", "-O", "csv", older, newer)
	require.NoError(t, err)
	assert.Contains(t, stdout, "changed,/b,bb,cc")
}

func TestDiff_AlgorithmMismatch(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a": "one"})
	manifestPath := filepath.Join(t.TempDir(), "sha256.manifest")
	_, _, err := execute(t, "hash", "-a", "sha256", "-o", manifestPath, root)
	require.NoError(t, err)

	_, _, err = execute(t, "diff", manifestPath, root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sha512 produces 128")
	assert.Contains(t, err.Error(), "--algorithm")

	stdout, _, err := execute(t, "diff", "-a", "sha256", manifestPath, root)
	require.NoError(t, err)
	assert.Equal(t, "0 added, 0 changed, 0 missing, 1 unchanged\n", stdout)

	otherPath := filepath.Join(t.TempDir(), "sha512.manifest")
	_, _, err = execute(t, "hash", "-o", otherPath, root)
	require.NoError(t, err)
	_, _, err = execute(t, "diff", manifestPath, otherPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different lengths (64 and 128)")
}

func TestHistory_RecordShowDiffRemove(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a": "one"})

	_, _, err := execute(t, "hash", "--record", root)
	require.NoError(t, err)
	writeTree(t, root, map[string]string{"a": "two", "b": ""})
	_, _, err = execute(t, "hash", "--record", root)
	require.NoError(t, err)

	store, err := history.Open(config.DefaultHistoryPath())
	require.NoError(t, err)
	runs, err := store.List(0)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Len(t, runs, 2)
	newest, oldest := runs[0], runs[1]
	absRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, absRoot, newest.Root)
	assert.Equal(t, int64(2), newest.Files)
	assert.Len(t, oldest.Records, 1)

	stdout, _, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, newest.ID)
	assert.Contains(t, stdout, oldest.ID)

	stdout, _, err = execute(t, "history", "--root", root, "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, newest.ID)
	assert.NotContains(t, stdout, oldest.ID)

	stdout, _, err = execute(t, "history", "show", oldest.ID, "-O", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"path": "/a"`)

	stdout, _, err = execute(t, "history", "diff", oldest.ID, newest.ID)
	require.NoError(t, err)
	assert.Equal(t, "~ /a\n+ /b\n1 added, 1 changed, 0 missing, 0 unchanged\n", stdout)

	stdout, _, err = execute(t, "history", "rm", oldest.ID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed run "+oldest.ID)

	_, _, err = execute(t, "history", "show", oldest.ID)
	assert.EqualError(t, err, "no run with id "+oldest.ID)

	stdout, _, err = execute(t, "history", "clean")
	require.NoError(t, err)
	assert.Equal(t, "Removed 0 runs older than 90 days\n", stdout)
}

func TestHistory_RecordFromConfig(t *testing.T) {
	isolate(t)
	t.Setenv("DIRHASH_HISTORY_ENABLED", "true")
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a": ""})

	_, _, err := execute(t, "hash", root)
	require.NoError(t, err)

	stdout, _, err := execute(t, "history", "-O", "jsonl")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(stdout, "\n"))
}

func TestHistory_Empty(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "history")
	require.NoError(t, err)
	assert.Equal(t, "No recorded runs.\n", stdout)
}

func TestHistory_DiffAgainstLatest(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a": "one", "gone": "x"})

	_, _, err := execute(t, "history", "diff", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recorded runs of")

	_, _, err = execute(t, "hash", "--record", "-a", "sha256", root)
	require.NoError(t, err)

	writeTree(t, root, map[string]string{"a": "two", "b": ""})
	require.NoError(t, os.Remove(filepath.Join(root, "gone")))

	stdout, _, err := execute(t, "history", "diff", root)
	require.NoError(t, err)
	assert.Equal(t, "~ /a\n+ /b\n- /gone\n1 added, 1 changed, 1 missing, 0 unchanged\n", stdout)
}

func TestAlgorithms(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "algorithms")
	require.NoError(t, err)
	for _, alg := range digest.Algorithms() {
		assert.Contains(t, stdout, string(alg))
	}
	assert.Regexp(t, `sha512\s+128\s+\(configured\)`, stdout)
}

func TestConfigCommands(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "config", "path")
	require.NoError(t, err)
	path := strings.TrimSpace(stdout)
	assert.Equal(t, filepath.Join("dirhash", "config.yaml"), filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))

	stdout, _, err = execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created default config file")
	assert.FileExists(t, path)

	stdout, _, err = execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "already exists")

	stdout, _, err = execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "algorithm:               sha512")
	assert.Contains(t, stdout, "(none)")
}

func TestVersion(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "dirhash dev\n"))
}

func TestUnknownOutputFormat(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "m")
	require.NoError(t, os.WriteFile(path, []byte("aa /a\n"), 0o644))

	_, _, err := execute(t, "read", "-O", "xml", path)
	assert.EqualError(t, err, "unknown formatter: xml")
}

func TestRead_FilterFlags(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "m")
	require.NoError(t, os.WriteFile(path, []byte("aa /a.go\nbb /b.txt\ncc /sub/c.go\ndd /sub/d.go\n"), 0o644))

	stdout, _, err := execute(t, "read", "-O", "csv", "--include", "*.go", "--exclude", "/sub/d.go", path)
	require.NoError(t, err)
	assert.Equal(t, "digest,path\naa,/a.go\ncc,/sub/c.go\n", stdout)

	stdout, _, err = execute(t, "read", "-O", "csv", "--limit", "1", path)
	require.NoError(t, err)
	assert.Equal(t, "digest,path\naa,/a.go\n", stdout)

	_, _, err = execute(t, "read", "--include", "[", path)
	assert.Error(t, err)
}

func TestDiff_FilterFlags(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	older := filepath.Join(dir, "old")
	newer := filepath.Join(dir, "new")
	require.NoError(t, os.WriteFile(older, []byte("aa /keep/a\nbb /tmp/b\n"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("xx /keep/a\n"), 0o644))

	stdout, _, err := execute(t, "diff", "--exclude", "/tmp/**", older, newer)
	require.NoError(t, err)
	assert.Equal(t, "~ /keep/a\n0 added, 1 changed, 0 missing, 0 unchanged\n", stdout)
}
