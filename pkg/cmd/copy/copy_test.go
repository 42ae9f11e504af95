package copy

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Paintersrp/scenecat/internal/handler"
	"github.com/Paintersrp/scenecat/internal/state"
)

func newTestState(t *testing.T, names ...string) *state.State {
	t.Helper()

	root := t.TempDir()
	for _, name := range names {
		if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(root, name, "meta.txt"), []byte(name), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}

	return &state.State{
		Root:    root,
		Handler: handler.NewFileHandler(root, ""),
		Status:  &state.CatalogStatus{},
	}
}

func stubConfirm(t *testing.T, answer bool) *int {
	t.Helper()

	calls := 0
	orig := confirm
	confirm = func(string) (bool, error) {
		calls++
		return answer, nil
	}
	t.Cleanup(func() { confirm = orig })
	return &calls
}

func TestCopyByQueryAndName(t *testing.T) {
	s := newTestState(t, "K3A_A", "K5_B", "K5_C")
	dest := filepath.Join(t.TempDir(), "out")
	calls := stubConfirm(t, false)

	var out bytes.Buffer
	cmd := NewCmdCopy(s)
	cmd.SetArgs([]string{dest, "K3A_A", filepath.Join(s.Root, "K5_B"), "--query", "k5", "--yes"})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("copy failed: %v\n%s", err, out.String())
	}

	if *calls != 0 {
		t.Fatalf("expected --yes to skip the prompt")
	}
	for _, name := range []string{"K3A_A", "K5_B", "K5_C"} {
		if _, err := os.Stat(filepath.Join(dest, name, "meta.txt")); err != nil {
			t.Fatalf("expected %s to be copied: %v", name, err)
		}
	}
	if !strings.Contains(out.String(), "3 copied, 0 failed") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestCopyByTermList(t *testing.T) {
	s := newTestState(t, "K3A_A", "K5_B", "K7_C")
	dest := filepath.Join(t.TempDir(), "out")

	termsPath := filepath.Join(t.TempDir(), "terms.txt")
	if err := os.WriteFile(termsPath, []byte("k3a\nK7_C\n"), 0o644); err != nil {
		t.Fatalf("failed to write terms: %v", err)
	}

	var out bytes.Buffer
	cmd := NewCmdCopy(s)
	cmd.SetArgs([]string{dest, "--terms", termsPath, "--yes"})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("copy failed: %v\n%s", err, out.String())
	}

	for _, name := range []string{"K3A_A", "K7_C"} {
		if _, err := os.Stat(filepath.Join(dest, name, "meta.txt")); err != nil {
			t.Fatalf("expected %s to be copied: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dest, "K5_B")); !os.IsNotExist(err) {
		t.Fatalf("expected K5_B to be left out, stat err %v", err)
	}
}

func TestCopyDeclined(t *testing.T) {
	s := newTestState(t, "K3A_A")
	dest := filepath.Join(t.TempDir(), "out")
	calls := stubConfirm(t, false)

	var out bytes.Buffer
	cmd := NewCmdCopy(s)
	cmd.SetArgs([]string{dest, "K3A_A"})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("copy failed: %v", err)
	}

	if *calls != 1 {
		t.Fatalf("expected one prompt, got %d", *calls)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("expected nothing to be copied, stat err %v", err)
	}
}

func TestCopyReportsCollision(t *testing.T) {
	s := newTestState(t, "K3A_A", "K5_B")
	dest := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dest, "K3A_A"), 0o755); err != nil {
		t.Fatalf("failed to create collision: %v", err)
	}

	var out, errOut bytes.Buffer
	cmd := NewCmdCopy(s)
	cmd.SetArgs([]string{dest, "K3A_A", "K5_B", "-y"})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error when a folder fails")
	}

	if _, err := os.Stat(filepath.Join(dest, "K5_B", "meta.txt")); err != nil {
		t.Fatalf("expected K5_B to be copied despite the collision: %v", err)
	}
	if !strings.Contains(errOut.String(), "Failed K3A_A") {
		t.Fatalf("expected collision in stderr, got %q", errOut.String())
	}
}

func TestCopyRejectsNestedPath(t *testing.T) {
	s := newTestState(t, "K3A_A")

	cmd := NewCmdCopy(s)
	cmd.SetArgs([]string{t.TempDir(), filepath.Join(s.Root, "K3A_A", "nested"), "-y"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error for a nested path")
	}
}
