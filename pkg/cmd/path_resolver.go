package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/scenecat/internal/pathutil"
	"github.com/Paintersrp/scenecat/internal/state"
)

// ResolveFolderName accepts either a bare folder name or a path to a folder
// below the catalog root and returns the folder name. Paths outside the root
// or nested deeper than one level are rejected.
func ResolveFolderName(s *state.State, arg string) (string, error) {
	if s == nil || s.Root == "" {
		return "", fmt.Errorf("catalog root is not configured")
	}
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("a folder name is required")
	}

	if !filepath.IsAbs(arg) && !strings.ContainsAny(arg, `/\`) {
		if arg == "." || arg == ".." {
			return "", fmt.Errorf("%q is not a folder name", arg)
		}
		return arg, nil
	}

	resolved := pathutil.NormalizePath(arg)
	if !filepath.IsAbs(resolved) {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		resolved = filepath.Join(wd, resolved)
	}

	rel, err := pathutil.RootRelative(s.Root, resolved)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q relative to root %q: %w", arg, s.Root, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("path %q is outside the catalog root %q", arg, s.Root)
	}
	if strings.Contains(rel, "/") {
		return "", fmt.Errorf("path %q is not a top-level folder of %q", arg, s.Root)
	}

	return rel, nil
}
