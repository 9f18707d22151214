package patch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// workspace abstracts the handful of file operations apply needs so the same
// orchestration drives both the OS filesystem and in-memory documents.
type workspace interface {
	Exists(path string) (bool, error)
	ReadFile(path string) ([]byte, error)
	// WriteFile creates missing parent directories before writing.
	WriteFile(path string, data []byte) error
	Remove(path string) error
}

type osWorkspace struct{}

func (osWorkspace) Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", path)
	}
	return true, nil
}

func (osWorkspace) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (osWorkspace) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (osWorkspace) Remove(path string) error {
	// Now-empty parent directories are left in place.
	return os.Remove(path)
}
