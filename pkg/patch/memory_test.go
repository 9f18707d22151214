package patch

import (
	"context"
	"strings"
	"testing"
)

func TestApplyToMemoryUpdatesDocument(t *testing.T) {
	t.Parallel()

	body := strings.Join([]string{
		"*** Begin Patch",
		"*** Update File: notes.txt",
		"@@",
		"-alpha",
		"+gamma",
		"*** End Patch",
	}, "\n")
	patches, err := Parse(body)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	initial := map[string]string{"notes.txt": "alpha\nbeta\n"}
	updated, result, err := ApplyToMemory(context.Background(), initial, patches)
	if err != nil {
		t.Fatalf("ApplyToMemory returned error: %v", err)
	}
	if len(result.ChangedPaths) != 1 || result.ChangedPaths[0] != "notes.txt" {
		t.Fatalf("unexpected changed paths: %#v", result.ChangedPaths)
	}
	if got, want := updated["notes.txt"], "gamma\nbeta\n"; got != want {
		t.Fatalf("updated document mismatch: got %q want %q", got, want)
	}

	// The input map must not be mutated.
	if got, want := initial["notes.txt"], "alpha\nbeta\n"; got != want {
		t.Fatalf("input map mutated: got %q want %q", got, want)
	}
}

func TestApplyToMemoryAddAndDelete(t *testing.T) {
	t.Parallel()

	body := strings.Join([]string{
		"*** Begin Patch",
		"*** Add File: new.txt",
		"+hello",
		"+world",
		"*** Delete File: old.txt",
		"*** End Patch",
	}, "\n")
	patches, err := Parse(body)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	updated, result, err := ApplyToMemory(context.Background(), map[string]string{"old.txt": "bye\n"}, patches)
	if err != nil {
		t.Fatalf("ApplyToMemory returned error: %v", err)
	}
	if got, want := updated["new.txt"], "hello\nworld\n"; got != want {
		t.Fatalf("new file content mismatch: got %q want %q", got, want)
	}
	if _, ok := updated["old.txt"]; ok {
		t.Fatalf("deleted file still present")
	}
	if len(result.ChangedPaths) != 2 {
		t.Fatalf("unexpected changed paths: %#v", result.ChangedPaths)
	}
}

func TestApplyToMemoryRejectsRootEscape(t *testing.T) {
	t.Parallel()

	patches := []Patch{{Op: OpAdd, Path: "../oops.txt", AddLines: []string{"x"}}}
	_, _, err := ApplyToMemory(context.Background(), map[string]string{}, patches)
	if err == nil {
		t.Fatalf("expected root escape error")
	}
}
