// Package pathutil resolves the pipeline's working directories and discovers
// the image files inside them.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RedactPath shortens a path to .../<parent>/<basename> for log and error output.
// For example, "/home/user/project/data/a.fits" becomes ".../data/a.fits".
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	parent := filepath.Base(filepath.Dir(cleaned))
	base := filepath.Base(cleaned)
	if parent == "." || parent == string(filepath.Separator) {
		return base
	}
	return ".../" + parent + "/" + base
}

// ResolveDir maps a configured directory onto the project root.
// Absolute directories are returned cleaned and unchecked. Relative ones are
// joined onto root and must not escape it, including through symlinks.
// The returned path stays relative when root is relative, so report paths
// read like "data/astronomy_....fits".
func ResolveDir(root, dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("resolving directory: empty path")
	}
	if strings.ContainsRune(dir, '\x00') {
		return "", fmt.Errorf("resolving directory: path contains null byte")
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir), nil
	}

	joined := filepath.Join(root, dir)
	if err := ensureWithin(joined, root); err != nil {
		return "", err
	}
	return joined, nil
}

// ensureWithin checks that path resolves to root or somewhere beneath it.
func ensureWithin(path, root string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving directory: %w", err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	resolvedPath, err := resolveExisting(absPath)
	if err != nil {
		return fmt.Errorf("resolving directory: %w", err)
	}
	resolvedRoot, err := resolveExisting(absRoot)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	if !isSubpath(resolvedPath, resolvedRoot) {
		return fmt.Errorf("directory %q is outside project root", RedactPath(absPath))
	}
	return nil
}

// resolveExisting evaluates symlinks on the deepest existing ancestor of p and
// re-appends the parts that do not exist yet.
func resolveExisting(p string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved, nil
	}
	parent := filepath.Dir(p)
	if parent == p {
		return "", fmt.Errorf("cannot resolve %s", RedactPath(p))
	}
	resolvedParent, err := resolveExisting(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(p)), nil
}

// isSubpath reports whether p equals base or lies beneath it.
func isSubpath(p, base string) bool {
	if p == base {
		return true
	}
	return strings.HasPrefix(p, base+string(os.PathSeparator))
}

// EnsureDir creates dir and any missing parents. It is a no-op when dir exists.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}
