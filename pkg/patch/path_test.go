package patch

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolveJoinsInsideRoot(t *testing.T) {
	t.Parallel()

	root, err := NewRoot(t.TempDir())
	if err != nil {
		t.Fatalf("NewRoot returned error: %v", err)
	}

	got, err := root.Resolve("sub/dir/file.txt")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if want := filepath.Join(root.Dir(), "sub", "dir", "file.txt"); got != want {
		t.Fatalf("resolved path mismatch: got %q want %q", got, want)
	}
}

func TestResolveNormalizesDotComponents(t *testing.T) {
	t.Parallel()

	root, err := NewRoot(t.TempDir())
	if err != nil {
		t.Fatalf("NewRoot returned error: %v", err)
	}

	got, err := root.Resolve("./a/b/../c.txt")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if want := filepath.Join(root.Dir(), "a", "c.txt"); got != want {
		t.Fatalf("resolved path mismatch: got %q want %q", got, want)
	}
}

func TestResolveRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	root, err := NewRoot(t.TempDir())
	if err != nil {
		t.Fatalf("NewRoot returned error: %v", err)
	}

	_, err = root.Resolve("")
	var pe *PathError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PathError, got %T (%v)", err, err)
	}
	if errors.Is(err, ErrEscapesRoot) {
		t.Fatalf("empty path must not be reported as a root escape")
	}
}

func TestResolveRejectsAbsolutePath(t *testing.T) {
	t.Parallel()

	root, err := NewRoot(t.TempDir())
	if err != nil {
		t.Fatalf("NewRoot returned error: %v", err)
	}

	_, err = root.Resolve("/etc/passwd")
	var pe *PathError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PathError, got %T (%v)", err, err)
	}
	if errors.Is(err, ErrEscapesRoot) {
		t.Fatalf("absolute path must not be reported as a root escape")
	}
}

func TestResolveRejectsRootEscape(t *testing.T) {
	t.Parallel()

	root, err := NewRoot(t.TempDir())
	if err != nil {
		t.Fatalf("NewRoot returned error: %v", err)
	}

	for _, rel := range []string{"..", "../oops.txt", "a/../../oops.txt", "a/b/../../../oops.txt"} {
		_, err := root.Resolve(rel)
		if !errors.Is(err, ErrEscapesRoot) {
			t.Fatalf("expected root escape for %q, got %v", rel, err)
		}
	}
}

func TestResolveAllowsDotDotThatStaysInside(t *testing.T) {
	t.Parallel()

	root, err := NewRoot(t.TempDir())
	if err != nil {
		t.Fatalf("NewRoot returned error: %v", err)
	}

	got, err := root.Resolve("a/b/../file.txt")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if want := filepath.Join(root.Dir(), "a", "file.txt"); got != want {
		t.Fatalf("resolved path mismatch: got %q want %q", got, want)
	}
}
