package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store defines the interface for timesheet file storage backends.
// This allows swapping the local filesystem for a network mount or
// object store later.
type Store interface {
	Save(name string, data io.Reader) (path string, size int64, err error)
	GetPath(name string) (string, error)
	Delete(name string) error
	EnsureDir() error
}

// FileSystemStore stores uploaded timesheets on the local filesystem.
type FileSystemStore struct {
	basePath string
}

// NewFileSystemStore creates a new filesystem storage backend.
func NewFileSystemStore(basePath string) *FileSystemStore {
	return &FileSystemStore{basePath: basePath}
}

// EnsureDir creates the storage directory if it doesn't exist.
func (fs *FileSystemStore) EnsureDir() error {
	if err := os.MkdirAll(fs.basePath, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", fs.basePath, err)
	}
	return nil
}

// Save writes data to a file with the given name under the storage
// directory and returns the resulting path and the number of bytes
// written.
func (fs *FileSystemStore) Save(name string, data io.Reader) (string, int64, error) {
	filePath := filepath.Join(fs.basePath, name)

	file, err := os.Create(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	n, err := io.Copy(file, data)
	if err != nil {
		// Clean up partial file on error
		os.Remove(filePath)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return filePath, n, nil
}

// GetPath returns the path to a stored file.
// Returns an error if the file does not exist.
func (fs *FileSystemStore) GetPath(name string) (string, error) {
	filePath := filepath.Join(fs.basePath, name)

	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file %s not found", name)
		}
		return "", fmt.Errorf("failed to stat file: %w", err)
	}

	return filePath, nil
}

// Delete removes a stored file. Deleting a file that is already gone is
// not an error.
func (fs *FileSystemStore) Delete(name string) error {
	filePath := filepath.Join(fs.basePath, name)
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", filePath, err)
	}
	return nil
}
