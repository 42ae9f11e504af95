package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// NormalizePath converts Windows-style separators to the current platform's separator
// and cleans the resulting path.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// ExpandHome replaces a leading ~ with the user's home directory and
// normalizes the result. Paths without ~ are only normalized.
func ExpandHome(p string) string {
	p = strings.TrimSpace(p)
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return NormalizePath(p)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return NormalizePath(p)
	}
	return NormalizePath(filepath.Join(home, p[1:]))
}

// RootRelative returns the path to target relative to root, always with
// forward slashes.
func RootRelative(root, target string) (string, error) {
	rel, err := filepath.Rel(NormalizePath(root), NormalizePath(target))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// TopLevelEntry returns the first component of target below root, which is
// the dataset folder a change belongs to. It returns "" for root itself and
// for paths outside root.
func TopLevelEntry(root, target string) (string, error) {
	rel, err := RootRelative(root, target)
	if err != nil {
		return "", err
	}

	rel = strings.TrimPrefix(rel, "./")
	if rel == "." || rel == "" || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", nil
	}

	first, _, _ := strings.Cut(rel, "/")
	return first, nil
}
