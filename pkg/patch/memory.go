package patch

import (
	"context"
	"path/filepath"
	"strings"
)

// memoryRoot is the virtual workspace root used for in-memory applies. It is
// deliberately not "/" so that ".." traversal still has somewhere to escape to
// and gets caught by the resolver.
const memoryRoot = "/workspace"

// ApplyToMemory applies patches to an in-memory document map keyed by
// relative path, with the same semantics as Apply. The input map is copied
// before mutation and the updated snapshot is returned alongside the result.
func ApplyToMemory(ctx context.Context, files map[string]string, patches []Patch) (map[string]string, *Result, error) {
	snapshot := make(map[string]string, len(files))
	for k, v := range files {
		snapshot[memoryKey(k)] = v
	}
	root, err := NewRoot(memoryRoot)
	if err != nil {
		return nil, nil, err
	}
	ws := &memoryWorkspace{files: snapshot}
	result, err := applyAll(ctx, root, patches, ws)
	if err != nil {
		return nil, nil, err
	}
	out := make(map[string]string, len(ws.files))
	for k, v := range ws.files {
		out[strings.TrimPrefix(k, memoryRoot+"/")] = v
	}
	return out, result, nil
}

// memoryKey normalizes a caller-supplied relative path to the resolved form
// the virtual root produces, so lookups agree with patch paths.
func memoryKey(rel string) string {
	return filepath.Join(memoryRoot, rel)
}

type memoryWorkspace struct {
	files map[string]string
}

func (ws *memoryWorkspace) Exists(path string) (bool, error) {
	_, ok := ws.files[path]
	return ok, nil
}

func (ws *memoryWorkspace) ReadFile(path string) ([]byte, error) {
	return []byte(ws.files[path]), nil
}

func (ws *memoryWorkspace) WriteFile(path string, data []byte) error {
	ws.files[path] = string(data)
	return nil
}

func (ws *memoryWorkspace) Remove(path string) error {
	delete(ws.files, path)
	return nil
}
