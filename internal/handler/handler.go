package handler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/otiai10/copy"
	"github.com/rs/zerolog/log"

	"github.com/Paintersrp/scenecat/internal/pathutil"
)

// ErrCollision matches every *CollisionError via errors.Is.
var ErrCollision = errors.New("destination already exists")

// CollisionError reports a copy whose destination folder already exists.
type CollisionError struct {
	Name string
	Dest string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("copy %s: %s already exists", e.Name, e.Dest)
}

func (e *CollisionError) Is(target error) bool { return target == ErrCollision }

// CopyFailure is one folder that could not be copied.
type CopyFailure struct {
	Name string
	Err  error
}

// CopyReport summarizes a batch copy.
type CopyReport struct {
	Copied []string
	Failed []CopyFailure
}

// Err joins every per-item failure, or returns nil when all copies succeeded.
func (r CopyReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f.Err
	}
	return errors.Join(errs...)
}

// FileHandler performs filesystem actions on dataset folders below a root.
type FileHandler struct {
	root        string
	openCommand string
}

func NewFileHandler(root, openCommand string) *FileHandler {
	return &FileHandler{
		root:        pathutil.NormalizePath(root),
		openCommand: strings.TrimSpace(openCommand),
	}
}

// Root returns the catalog root this handler operates on.
func (h *FileHandler) Root() string {
	return h.root
}

// Path joins a folder name onto the root.
func (h *FileHandler) Path(name string) string {
	return filepath.Join(h.root, name)
}

// CopyFolders copies each named folder recursively into dest. A folder that
// already exists at the destination is reported as a *CollisionError and
// left untouched. Failures do not stop the batch.
func (h *FileHandler) CopyFolders(names []string, dest string) CopyReport {
	var report CopyReport
	dest = pathutil.NormalizePath(dest)

	for _, name := range names {
		if err := h.copyFolder(name, dest); err != nil {
			log.Warn().Err(err).Str("name", name).Msg("copy failed")
			report.Failed = append(report.Failed, CopyFailure{Name: name, Err: err})
			continue
		}
		log.Debug().Str("name", name).Str("dest", dest).Msg("copied")
		report.Copied = append(report.Copied, name)
	}
	return report
}

func (h *FileHandler) copyFolder(name, dest string) error {
	src := h.Path(name)
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", name, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("copy %s: not a directory", name)
	}

	target := filepath.Join(dest, name)
	if _, err := os.Lstat(target); err == nil {
		return &CollisionError{Name: name, Dest: target}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("copy %s: %w", name, err)
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("copy %s: creating destination: %w", name, err)
	}

	opts := copy.Options{
		OnSymlink:     func(string) copy.SymlinkAction { return copy.Deep },
		PreserveTimes: true,
	}
	if err := copy.Copy(src, target, opts); err != nil {
		return fmt.Errorf("copy %s: %w", name, err)
	}
	return nil
}

// OpenCommand builds the command that reveals a folder in the platform file
// manager, or in the configured open command when set.
func (h *FileHandler) OpenCommand(name string) (*exec.Cmd, error) {
	path := h.Path(name)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open %s: not a directory", name)
	}

	if h.openCommand != "" {
		fields := strings.Fields(h.openCommand)
		args := append(fields[1:], path)
		return exec.Command(fields[0], args...), nil
	}

	switch runtime.GOOS {
	case "windows":
		return exec.Command("explorer", filepath.FromSlash(path)), nil
	case "darwin":
		return exec.Command("open", path), nil
	default:
		return exec.Command("xdg-open", path), nil
	}
}

// Open launches the file manager on the named folder without waiting.
func (h *FileHandler) Open(name string) error {
	cmd, err := h.OpenCommand(name)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
