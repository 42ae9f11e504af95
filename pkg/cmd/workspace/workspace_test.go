package workspace

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Paintersrp/scenecat/internal/config"
	"github.com/Paintersrp/scenecat/internal/state"
)

const twoWorkspaces = `
current_workspace: archive
workspaces:
  archive:
    root: /data/archive
    export_dir: /data/exports
    term_encoding: euc-kr
  scratch:
    root: ""
`

func newTestState(t *testing.T) (*state.State, string) {
	t.Helper()

	home := t.TempDir()
	path := config.GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(twoWorkspaces), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return &state.State{Config: cfg, Home: home}, home
}

func run(t *testing.T, s *state.State, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := NewCmdWorkspace(s)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("workspace %v failed: %v", args, err)
	}
	return out.String()
}

func TestWorkspaceList(t *testing.T) {
	s, _ := newTestState(t)

	out := run(t, s, "list")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 workspaces, got:\n%s", out)
	}
	if lines[0] != "* archive\t/data/archive" {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if lines[1] != "  scratch\t(no root)" {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}

func TestWorkspaceAddInheritsSettingsAndSwitches(t *testing.T) {
	s, home := newTestState(t)
	root := t.TempDir()

	run(t, s, "add", "--name", "field", "--root", root, "--current")

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if cfg.CurrentWorkspace != "field" {
		t.Fatalf("expected field to be current, got %q", cfg.CurrentWorkspace)
	}
	ws := cfg.Workspaces["field"]
	if ws == nil || ws.Root != root {
		t.Fatalf("expected root %q, got %+v", root, ws)
	}
	if ws.ExportDir != "/data/exports" || ws.TermEncoding != "euc-kr" {
		t.Fatalf("expected settings inherited from archive, got %+v", ws)
	}
}

func TestWorkspaceAddRequiresRoot(t *testing.T) {
	s, _ := newTestState(t)

	cmd := NewCmdWorkspace(s)
	cmd.SetArgs([]string{"add", "--name", "field"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error without --root")
	}
}

func TestWorkspaceSwitchAndRemove(t *testing.T) {
	s, home := newTestState(t)

	run(t, s, "switch", "scratch")
	run(t, s, "remove", "archive")

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if cfg.CurrentWorkspace != "scratch" {
		t.Fatalf("expected scratch to be current, got %q", cfg.CurrentWorkspace)
	}
	if _, ok := cfg.Workspaces["archive"]; ok {
		t.Fatalf("expected archive to be removed")
	}
}
