package storage

import (
	"company-data-manager/pkg/utils"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrTooLarge    = errors.New("file exceeds the upload size limit")
	ErrInvalidName = errors.New("invalid stored file name")
)

// StoredFile describes a file written by FileStore.
type StoredFile struct {
	Name        string
	Path        string
	ContentType string
	Size        int64
}

// FileStore keeps uploaded bytes in a single flat directory. Files are
// referenced by name only; callers never see the directory layout.
type FileStore struct {
	dir      string
	maxBytes int64
}

func NewFileStore(dir string, maxBytes int64) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, maxBytes: maxBytes}, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

// Save writes r under "<prefix>_<sanitized original name>". When that name is
// taken a short random suffix is inserted before the extension.
func (s *FileStore) Save(ctx context.Context, prefix, originalName string, r io.Reader) (*StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := utils.SanitizeFilename(originalName)
	name := prefix + "_" + base

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		ext := filepath.Ext(base)
		name = fmt.Sprintf("%s_%s_%s%s", prefix, strings.TrimSuffix(base, ext), uuid.NewString()[:8], ext)
		f, err = os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	size, err := s.write(f, r)
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(path); err == nil {
		contentType = mt.String()
	}

	return &StoredFile{
		Name:        name,
		Path:        path,
		ContentType: contentType,
		Size:        size,
	}, nil
}

// write copies r into f and closes it. The file is synced before close so a
// returned success means the bytes reached the disk.
func (s *FileStore) write(f *os.File, r io.Reader) (int64, error) {
	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}

	size, err := io.Copy(f, src)
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("failed to write upload: %w", err)
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		f.Close()
		return 0, ErrTooLarge
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return 0, fmt.Errorf("failed to flush upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close upload: %w", err)
	}

	return size, nil
}

// Open returns the stored file with the given name together with its
// detected content type.
func (s *FileStore) Open(name string) (*os.File, string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(path); err == nil {
		contentType = mt.String()
	}

	return f, contentType, nil
}

// Remove deletes a stored file, used when its reference row could not be written.
func (s *FileStore) Remove(name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// List returns the names of regular files in the store, sorted.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}

// resolve maps a stored name to its path, rejecting anything that is not a
// plain file name.
func (s *FileStore) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}
