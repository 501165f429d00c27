package logging_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamesainslie/dirhash/pkg/dirhash/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    logging.Level
		wantErr bool
	}{
		{input: "debug", want: logging.LevelDebug},
		{input: "INFO", want: logging.LevelInfo},
		{input: "warn", want: logging.LevelWarn},
		{input: "warning", want: logging.LevelWarn},
		{input: " error ", want: logging.LevelError},
		{input: "loud", want: logging.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := logging.ParseLevel(tt.input)
			if tt.wantErr {
				if !errors.Is(err, logging.ErrInvalidLevel) {
					t.Errorf("ParseLevel(%q) error = %v, want ErrInvalidLevel", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLevel(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	t.Parallel()

	for level, want := range map[logging.Level]string{
		logging.LevelDebug: "debug",
		logging.LevelInfo:  "info",
		logging.LevelWarn:  "warn",
		logging.LevelError: "error",
		logging.Level(99):  "unknown",
	} {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}

// The tests below share the package-level logging state and must not run
// in parallel.

func TestInit_InvalidLevels(t *testing.T) {
	dir := t.TempDir()

	for name, cfg := range map[string]logging.Config{
		"default level":   {Level: "chatty", Path: filepath.Join(dir, "a.log")},
		"component level": {Level: "info", Path: filepath.Join(dir, "b.log"), Components: map[string]string{"walker": "nope"}},
		"console level":   {Level: "info", Path: filepath.Join(dir, "c.log"), ConsoleLevel: "nope"},
	} {
		if err := logging.Init(cfg); !errors.Is(err, logging.ErrInvalidLevel) {
			t.Errorf("%s: Init() error = %v, want ErrInvalidLevel", name, err)
		}
	}
}

func TestGet_BeforeInitDiscards(t *testing.T) {
	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	logger := logging.Get("walker")
	if logger == nil {
		t.Fatal("Get() returned nil")
	}
	if logger.Component() != "walker" {
		t.Errorf("Component() = %q, want walker", logger.Component())
	}
	logger.Info("nobody hears this")
	if logging.Get("walker") != logger {
		t.Error("Get() returned a different logger for the same component")
	}
}

func TestInit_FileAndComponentLevels(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "dirhash.log")
	err := logging.Init(logging.Config{
		Level:      "warn",
		Path:       logPath,
		Components: map[string]string{"hasher": "debug"},
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = logging.Close() })

	logging.Get("hasher").Debug("hasher detail", "files", 3)
	logging.Get("walker").Info("walker chatter")
	logging.Get("walker").Warn("walker warning")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)
	for _, want := range []string{"hasher detail", "files=3", "walker warning"} {
		if !strings.Contains(content, want) {
			t.Errorf("log missing %q:\n%s", want, content)
		}
	}
	if strings.Contains(content, "walker chatter") {
		t.Errorf("info record written for warn-level component:\n%s", content)
	}
}

func TestInit_Console(t *testing.T) {
	var console bytes.Buffer
	err := logging.Init(logging.Config{
		Level:        "debug",
		Path:         filepath.Join(t.TempDir(), "dirhash.log"),
		ConsoleLevel: "warn",
		Console:      &console,
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = logging.Close() })

	logger := logging.Get("cli").With("root", "/srv")
	logger.Info("quiet on console")
	logger.Error("loud on console")

	out := console.String()
	if !strings.Contains(out, "loud on console") || !strings.Contains(out, "root=/srv") {
		t.Errorf("console output missing error record: %q", out)
	}
	if strings.Contains(out, "quiet on console") {
		t.Errorf("console output contains info record: %q", out)
	}
}

func TestInit_RebuildsExistingLoggers(t *testing.T) {
	_ = logging.Close()
	before := logging.Get("history")

	logPath := filepath.Join(t.TempDir(), "dirhash.log")
	if err := logging.Init(logging.Config{Level: "info", Path: logPath}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = logging.Close() })

	after := logging.Get("history")
	if after == before {
		t.Fatal("Get() after Init() returned the pre-Init logger")
	}
	after.Info("recorded")
	_ = logging.Close()

	data, _ := os.ReadFile(logPath)
	if !strings.Contains(string(data), "recorded") {
		t.Errorf("log missing record: %q", data)
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := logging.DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Level)
	}
	if filepath.Base(cfg.Path) != "dirhash.log" || filepath.Base(filepath.Dir(cfg.Path)) != "dirhash" {
		t.Errorf("Path = %q, want .../dirhash/dirhash.log", cfg.Path)
	}
}
