package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"

	"github.com/jamesainslie/dirhash/pkg/dirhash/logging"
)

// isolate points HOME and the XDG directories at a temporary directory for
// the duration of the test.
func isolate(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Cleanup(func() {
		_ = logging.Close()
		cfg = nil
		xdg.Reload()
	})

	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))
	xdg.Reload()
	return home
}

// execute runs the root command with args and returns what it wrote.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	verbose, outputFormat = false, ""
	hashOut, hashAlgorithm, hashStopOnError, hashRecord = "", "", false, false
	diffAlgorithm = ""
	historyLimit, historyRoot = 20, ""
	includePatterns, excludePatterns, recordLimit = nil, nil, 0

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeTree creates files below root. Keys ending in "/" are directories.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}
