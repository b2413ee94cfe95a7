package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"pagebuilder/internal/domain"
)

// FileSlots keeps each slot as <dir>/<key>.json. Writes go through a temp
// file and a rename so readers never see a partial document.
type FileSlots struct {
	dir string
}

// NewFileSlots creates dir if needed.
func NewFileSlots(dir string) (*FileSlots, error) {
	if dir == "" {
		return nil, errors.New("open file slots: empty directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create slot directory: %w", err)
	}
	return &FileSlots{dir: dir}, nil
}

// Dir returns the directory holding the slot files.
func (f *FileSlots) Dir() string { return f.dir }

// Path returns the file backing key.
func (f *FileSlots) Path(key string) string {
	return filepath.Join(f.dir, sanitizeKey(key)+".json")
}

// KeyForPath maps a slot file back to its key; ok is false for foreign files.
func (f *FileSlots) KeyForPath(path string) (key string, ok bool) {
	if filepath.Dir(path) != filepath.Clean(f.dir) {
		return "", false
	}
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".json") || strings.HasPrefix(base, ".") {
		return "", false
	}
	return strings.TrimSuffix(base, ".json"), true
}

func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, key)
}

func (f *FileSlots) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", key, err)
	}
	return data, nil
}

func (f *FileSlots) Put(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, ".slot-*")
	if err != nil {
		return fmt.Errorf("create temp slot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close slot %s: %w", key, err)
	}
	if err := os.Rename(tmpName, f.Path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename slot %s: %w", key, err)
	}
	return nil
}

func (f *FileSlots) Close() error { return nil }
