package session

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileBackend keeps one file per key under a directory. It is meant for the
// CLI, where the "browser" is the operator's home directory. TTLs are ignored.
type FileBackend struct {
	dir string
}

// NewFileBackend returns a backend rooted at dir; the directory is created on
// first write.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, "session-"+hex.EncodeToString([]byte(key)))
}

func (b *FileBackend) Put(_ context.Context, key string, value []byte, _ time.Duration) error {
	if err := os.MkdirAll(b.dir, 0o700); err != nil {
		return fmt.Errorf("session: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(b.dir, ".session-*")
	if err != nil {
		return fmt.Errorf("session: create temp: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("session: write: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("session: chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: close: %w", err)
	}
	return os.Rename(tmp.Name(), b.path(key))
}

func (b *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(b.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (b *FileBackend) Delete(_ context.Context, key string) error {
	err := os.Remove(b.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (b *FileBackend) Ping(context.Context) error {
	return os.MkdirAll(b.dir, 0o700)
}
