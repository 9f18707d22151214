package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func patchBody(lines ...string) string {
	all := append([]string{"*** Begin Patch"}, lines...)
	all = append(all, "*** End Patch")
	return strings.Join(all, "\\n")
}

func TestHandleAppliesPatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("alpha\nbeta\n"), 0o644))

	raw := fmt.Sprintf(`{"patch": "%s", "root": %q}`,
		patchBody("*** Update File: notes.txt", "@@", "-alpha", "+gamma"), dir)

	resp := Handle(context.Background(), []byte(raw), nil)
	require.Equal(t, StatusOK, resp.Status, resp.Error)
	require.Equal(t, []string{"notes.txt"}, resp.Changed)
	require.Contains(t, resp.Output, "Success. Updated the following files:")
	require.Contains(t, resp.Output, "M notes.txt")

	data, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	require.Equal(t, "gamma\nbeta\n", string(data))
}

func TestHandleDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("alpha\n"), 0o644))

	raw := fmt.Sprintf(`{"patch": "%s", "root": %q, "dryRun": true}`,
		patchBody("*** Update File: notes.txt", "@@", "-alpha", "+gamma"), dir)

	resp := Handle(context.Background(), []byte(raw), nil)
	require.Equal(t, StatusOK, resp.Status, resp.Error)
	require.Contains(t, resp.Output, "Dry run")
	require.Empty(t, resp.Changed)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "alpha\n", string(data))
}

func TestHandleRejectsMissingPatchField(t *testing.T) {
	resp := Handle(context.Background(), []byte(`{"root": "."}`), nil)
	require.Equal(t, StatusError, resp.Status)
	require.Contains(t, resp.Error, "invalid request")
}

func TestHandleRejectsUnknownKeys(t *testing.T) {
	raw := fmt.Sprintf(`{"patch": "%s", "force": true}`, patchBody("*** Delete File: a.txt"))
	resp := Handle(context.Background(), []byte(raw), nil)
	require.Equal(t, StatusError, resp.Status)
	require.Contains(t, resp.Error, "invalid request")
}

func TestHandleRejectsNonJSON(t *testing.T) {
	resp := Handle(context.Background(), []byte("*** Begin Patch"), nil)
	require.Equal(t, StatusError, resp.Status)
	require.NotEmpty(t, resp.Error)
}

func TestHandleRejectsEmptyBody(t *testing.T) {
	resp := Handle(context.Background(), []byte("   "), nil)
	require.Equal(t, StatusError, resp.Status)
	require.Contains(t, resp.Error, "empty")
}

func TestHandleSurfacesParseErrors(t *testing.T) {
	resp := Handle(context.Background(), []byte(`{"patch": "not a patch"}`), nil)
	require.Equal(t, StatusError, resp.Status)
	require.Contains(t, resp.Error, "no patch operations")
}

func TestHandleSurfacesApplyErrors(t *testing.T) {
	dir := t.TempDir()
	raw := fmt.Sprintf(`{"patch": "%s", "root": %q}`,
		patchBody("*** Delete File: ghost.txt"), dir)

	resp := Handle(context.Background(), []byte(raw), nil)
	require.Equal(t, StatusError, resp.Status)
	require.Contains(t, resp.Error, "does not exist")
}
