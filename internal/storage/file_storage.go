package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"

	errpkg "github.com/veranemoloko/video-downloader/internal/errors"
)

// FileStorage provides access to the download directory and the artifacts in it.
type FileStorage struct {
	dir string
}

// NewFileStorage creates a new FileStorage instance with the given directory.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

// Dir returns the storage directory.
func (s *FileStorage) Dir() string {
	return s.dir
}

// EnsureDir creates the storage directory if it does not exist.
func (s *FileStorage) EnsureDir() error {
	return EnsureDir(s.dir)
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// Resolve returns path unchanged when absolute, otherwise relative to the storage directory.
func (s *FileStorage) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.dir, path)
}

// Stat returns file info for a regular file, or ErrArtifactMissing.
func (s *FileStorage) Stat(path string) (os.FileInfo, error) {
	info, err := os.Stat(s.Resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errpkg.ErrArtifactMissing
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, errpkg.ErrArtifactMissing
	}
	return info, nil
}

// FileExists checks whether a regular file exists at path.
func (s *FileStorage) FileExists(path string) bool {
	_, err := s.Stat(path)
	return err == nil
}

// Open opens the file for reading along with its info. The caller closes the file.
func (s *FileStorage) Open(path string) (*os.File, os.FileInfo, error) {
	info, err := s.Stat(path)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(s.Resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errpkg.ErrArtifactMissing
		}
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, info, nil
}

// Usage describes the filesystem holding the storage directory.
type Usage struct {
	Path        string  `json:"path"`
	Free        uint64  `json:"free"`
	Total       uint64  `json:"total"`
	UsedPercent float64 `json:"usedPercent"`
}

// Usage reports disk usage of the filesystem containing the storage directory.
func (s *FileStorage) Usage() (*Usage, error) {
	stat, err := disk.Usage(s.dir)
	if err != nil {
		return nil, fmt.Errorf("disk usage %s: %w", s.dir, err)
	}
	return &Usage{
		Path:        s.dir,
		Free:        stat.Free,
		Total:       stat.Total,
		UsedPercent: stat.UsedPercent,
	}, nil
}
