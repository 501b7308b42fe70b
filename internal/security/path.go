// Package security provides the path boundary enforcement for ctfscope.
//
// Every filesystem path a client supplies passes through Path.Validate before
// any I/O happens. The validator is constructed once at startup with the root
// boundary and is immutable and safe for concurrent use afterwards.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

var (
	// ErrPathEscape indicates the requested path resolves outside the root
	// boundary. The error message is intentionally generic: it must never
	// echo the resolved path back to the caller.
	ErrPathEscape = errors.New("access denied: path is outside the allowed root")

	// ErrNotFound indicates no filesystem object exists at the resolved path.
	ErrNotFound = errors.New("path does not exist")

	// ErrNotADirectory indicates the root boundary is not a directory.
	ErrNotADirectory = errors.New("not a directory")
)

// Path validates client-supplied paths against a fixed root boundary.
// Used to prevent path traversal attacks (CWE-22), including traversal
// through symbolic links.
type Path struct {
	root string
}

// NewPath creates a path validator rooted at the given directory.
// The root is canonicalized (absolute, symlinks resolved) once here; it must
// exist and be a directory.
func NewPath(root string) (*Path, error) {
	if root == "" {
		return nil, fmt.Errorf("root boundary is required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}

	// Canonicalize so later containment checks compare real paths with real
	// paths (macOS /var -> /private/var and similar).
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("root %s: %w", root, ErrNotFound)
		}
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}

	info, err := os.Stat(real)
	if err != nil {
		return nil, fmt.Errorf("stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s: %w", root, ErrNotADirectory)
	}

	return &Path{root: real}, nil
}

// Root returns the canonical root boundary.
func (p *Path) Root() string {
	return p.root
}

// Validate resolves a requested path against the root boundary and returns
// the canonical path on success.
//
// An empty path means the root itself; relative paths are joined against the
// root. The candidate is cleaned and checked for containment before any
// filesystem access, then symlinks are resolved and containment is checked
// again on the real path, so neither ".." segments nor symlinks can escape.
//
// Failure modes: ErrPathEscape when the canonical path falls outside the
// boundary, ErrNotFound when nothing exists there. Whether the target is a
// file or a directory is the caller's concern.
func (p *Path) Validate(requested string) (string, error) {
	candidate := requested
	if candidate == "" {
		candidate = "."
	}
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(p.root, candidate)
	}
	candidate = filepath.Clean(candidate)

	// Containment check before touching the filesystem: a traversal attempt
	// is rejected without revealing whether the target exists.
	if !p.contains(candidate) {
		return "", ErrPathEscape
	}

	real, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		// ENOTDIR means the path routes through a regular file; from the
		// caller's point of view nothing exists at that location either.
		if os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, requested)
		}
		return "", fmt.Errorf("resolving path: %w", err)
	}

	// Re-check after symlink resolution: a link inside the boundary may
	// point anywhere.
	if !p.contains(real) {
		return "", ErrPathEscape
	}

	return real, nil
}

// contains reports whether abs is the root or a descendant of it.
// The comparison happens on path-segment boundaries so a root of /home/user
// does not match /home/user2.
func (p *Path) contains(abs string) bool {
	if abs == p.root {
		return true
	}
	return strings.HasPrefix(abs, p.root+string(filepath.Separator))
}
