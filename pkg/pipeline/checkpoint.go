package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// Checkpoint is a durable single-value cursor recording the last successfully
// processed pagination token. Load returns "" when no checkpoint exists yet.
// Save must overwrite atomically so a crash can never leave a torn cursor.
type Checkpoint interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileCheckpoint persists the cursor in a single file, written via a temp
// file + rename so the overwrite is atomic on POSIX filesystems.
type FileCheckpoint struct {
	path string
}

// NewFileCheckpoint returns a checkpoint backed by the given file path.
func NewFileCheckpoint(path string) *FileCheckpoint {
	return &FileCheckpoint{path: path}
}

func (c *FileCheckpoint) Load() (string, error) {
	b, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read checkpoint %s: %w", c.path, err)
	}
	return string(b), nil
}

func (c *FileCheckpoint) Save(token string) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp checkpoint: %w", err)
	}
	if _, err := tmp.WriteString(token); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("sync temp checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp checkpoint: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("commit checkpoint %s: %w", c.path, err)
	}
	return nil
}

func (c *FileCheckpoint) Clear() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear checkpoint %s: %w", c.path, err)
	}
	return nil
}
