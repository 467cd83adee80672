package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"

	"github.com/jaminalder/codex-reversi/internal/config"
	"github.com/jaminalder/codex-reversi/internal/domain"
	"github.com/jaminalder/codex-reversi/internal/logging"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return dir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&Options{LogLevel: logging.LevelInfo}, logging.Discard())
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader("d3 c3\n"))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestReplayPrintsFinalPosition(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "replay", "D3C3")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	for _, want := range []string{"  A B C D E F G H", "black 3  white 3", "in progress, black to move"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReplayMovesAndStdin(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "replay", "--moves", "-")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !strings.Contains(out, " 1. black D3") || !strings.Contains(out, " 2. white C3") {
		t.Fatalf("move list missing:\n%s", out)
	}
}

func TestReplayRejectsIllegalTranscript(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "replay", "D3A1")
	if !errors.Is(err, domain.ErrIllegalMove) {
		t.Fatalf("want ErrIllegalMove, got %v", err)
	}
	_, _, err = run(t, "replay", "D3C")
	if !errors.Is(err, domain.ErrBadNotation) {
		t.Fatalf("want ErrBadNotation, got %v", err)
	}
}

func TestReplayRequiresArgument(t *testing.T) {
	isolate(t)
	if _, _, err := run(t, "replay"); err == nil {
		t.Fatal("expected an argument error")
	}
}

func TestConfigInitWritesOnce(t *testing.T) {
	dir := isolate(t)
	out, _, err := run(t, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	want := filepath.Join(dir, "reversi", "config.yaml")
	if strings.TrimSpace(out) != want {
		t.Fatalf("path = %q, want %q", strings.TrimSpace(out), want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, _, err := run(t, "config", "init"); err == nil {
		t.Fatal("second init should refuse to overwrite")
	}
}

func TestConfigInitIgnoresBrokenConfig(t *testing.T) {
	isolate(t)
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("addr: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "-c", bad, "replay", "D3"); err == nil {
		t.Fatal("replay should fail on a broken config")
	}
	if _, _, err := run(t, "-c", bad, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
}

func TestConfigShowUsesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.Default()
	cfg.Addr = ":9999"
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	out, _, err := run(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "addr:") || !strings.Contains(out, ":9999") {
		t.Fatalf("show output missing addr:\n%s", out)
	}
}

func TestLogLevelFlagOverridesConfig(t *testing.T) {
	isolate(t)
	_, stderr, err := run(t, "--log-level", "debug", "replay", "D3")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !strings.Contains(stderr, "transcript replayed") {
		t.Fatalf("debug log missing:\n%s", stderr)
	}
	_, stderr, err = run(t, "replay", "D3")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if strings.Contains(stderr, "transcript replayed") {
		t.Fatalf("debug log written at info level:\n%s", stderr)
	}
}
