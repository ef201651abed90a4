package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend хранит коллекции в файлах <name>.json. Изменённые коллекции
// пишутся в runtime-каталог, исходные данные из dataDir не перезаписываются.
type FileBackend struct {
	dataDir    string
	runtimeDir string
}

// NewFileBackend создаёт новый экземпляр FileBackend.
func NewFileBackend(dataDir string) *FileBackend {
	return &FileBackend{
		dataDir:    dataDir,
		runtimeDir: filepath.Join(dataDir, "runtime"),
	}
}

// Read читает runtime-копию, а при её отсутствии исходный файл.
func (b *FileBackend) Read(_ context.Context, name string) ([]byte, error) {
	for _, path := range []string{b.runtimePath(name), b.seedPath(name)} {
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
	return nil, ErrCollectionNotFound
}

// Write записывает коллекцию через временный файл и переименование.
func (b *FileBackend) Write(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(b.runtimeDir, 0o755); err != nil {
		return fmt.Errorf("failed to create runtime dir: %w", err)
	}

	tmp, err := os.CreateTemp(b.runtimeDir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), b.runtimePath(name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

func (b *FileBackend) runtimePath(name string) string {
	return filepath.Join(b.runtimeDir, name+".json")
}

func (b *FileBackend) seedPath(name string) string {
	return filepath.Join(b.dataDir, name+".json")
}
