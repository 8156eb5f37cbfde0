package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps objects on disk under root/bucket. The HTTP server
// exposes the directory under the configured public URL.
type LocalStorage struct {
	dir       string
	publicURL string
}

func NewLocalStorage(root, bucket, publicURL string) (*LocalStorage, error) {
	dir := filepath.Join(root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{dir: dir, publicURL: publicURL}, nil
}

// Dir returns the directory objects are written to.
func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) resolve(path string) (string, error) {
	cleaned := filepath.Clean("/" + path)
	if path == "" || cleaned == "/" || strings.Contains(path, "..") {
		return "", fmt.Errorf("invalid object path %q", path)
	}
	return filepath.Join(s.dir, cleaned), nil
}

func (s *LocalStorage) Upload(ctx context.Context, path string, reader io.Reader, opts UploadOptions) (*Object, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}
	target, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	if !opts.Overwrite {
		if _, err := os.Stat(target); err == nil {
			return nil, ErrObjectExists
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create object directory: %w", err)
	}

	// write to a temp file in the same directory so readers never see a partial object
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	size, err := io.Copy(tmp, reader)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to write object: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to move object into place: %w", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}
	return &Object{
		Path:         path,
		Size:         size,
		ContentType:  opts.ContentType,
		LastModified: info.ModTime(),
	}, nil
}

func (s *LocalStorage) PublicURL(path string) string {
	return joinURL(s.publicURL, path)
}

func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	target, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *LocalStorage) List(ctx context.Context, prefix string) ([]*Object, error) {
	var objects []*Object
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".upload-") {
			return nil
		}
		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasPrefix(rel, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, &Object{
			Path:         rel,
			Size:         info.Size(),
			ContentType:  mime.TypeByExtension(filepath.Ext(rel)),
			LastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	return objects, nil
}
