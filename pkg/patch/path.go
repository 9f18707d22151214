package patch

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrEscapesRoot marks path errors caused by a patch path resolving outside
// the workspace root. It is kept distinct from ordinary path mistakes so
// callers can recognize sandbox violations with errors.Is.
var ErrEscapesRoot = errors.New("path escapes the workspace root")

// PathError reports an invalid or out-of-root patch path.
type PathError struct {
	Path    string
	Message string
	Err     error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid patch path %q: %s", e.Path, e.Message)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Root is a canonicalized workspace directory that every patch path must
// resolve inside.
type Root struct {
	dir string
}

// NewRoot canonicalizes dir once, up front. Failure to canonicalize is a
// setup error, not a per-patch error.
func NewRoot(dir string) (*Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("canonicalize workspace root %q: %w", dir, err)
	}
	return &Root{dir: filepath.Clean(abs)}, nil
}

// Dir returns the canonical root directory.
func (r *Root) Dir() string {
	return r.dir
}

// Resolve validates rel and joins it onto the root, normalizing the result
// purely lexically so that not-yet-existing Add targets resolve too. The
// returned path is guaranteed to lie inside the root.
func (r *Root) Resolve(rel string) (string, error) {
	if rel == "" {
		return "", &PathError{Path: rel, Message: "path is empty"}
	}
	if filepath.IsAbs(rel) {
		return "", &PathError{Path: rel, Message: "path must be relative to the workspace root"}
	}
	// filepath.Join cleans the result: "." components drop out and ".."
	// components pop the previously retained one.
	resolved := filepath.Join(r.dir, rel)
	if !r.contains(resolved) {
		return "", &PathError{Path: rel, Message: ErrEscapesRoot.Error(), Err: ErrEscapesRoot}
	}
	return resolved, nil
}

func (r *Root) contains(resolved string) bool {
	if resolved == r.dir {
		return true
	}
	prefix := r.dir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(resolved, prefix)
}
