// Package storage provides the object storage used for user avatars.
//
// Three drivers implement Interface: an S3-compatible driver built on
// minio-go (AWS S3, MinIO, Supabase storage), Google Cloud Storage, and a
// local filesystem driver for development.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"imagepro-backend/pkg/config"
)

// ErrObjectExists is returned by Upload when Overwrite is false and an
// object is already stored at the path.
var ErrObjectExists = errors.New("object already exists")

// Interface defines the object storage operations the application needs.
type Interface interface {
	// Upload stores the reader's content at path.
	Upload(ctx context.Context, path string, reader io.Reader, opts UploadOptions) (*Object, error)

	// PublicURL returns the URL the object at path is publicly served from.
	// It does not check that the object exists.
	PublicURL(path string) string

	// Delete removes the object at path. Missing objects are not an error.
	Delete(ctx context.Context, path string) error

	// List returns the objects whose path starts with prefix.
	List(ctx context.Context, prefix string) ([]*Object, error)
}

// UploadOptions controls a single upload.
type UploadOptions struct {
	ContentType string
	// Size of the content in bytes, or -1 when unknown
	Size      int64
	Overwrite bool
}

// Object describes a stored object.
type Object struct {
	Path         string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// NewStorage creates the driver selected by cfg.Provider.
func NewStorage(ctx context.Context, cfg config.StorageConfig) (Interface, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	switch strings.ToLower(cfg.Provider) {
	case "", "local", "filesystem":
		root := cfg.Endpoint
		if root == "" {
			root = "./uploads"
		}
		publicURL := cfg.PublicURL
		if publicURL == "" {
			publicURL = "/storage/" + cfg.Bucket
		}
		return NewLocalStorage(root, cfg.Bucket, publicURL)
	case "minio", "s3", "supabase":
		if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, errors.New("endpoint, access key and secret key are required for S3-compatible storage")
		}
		return NewMinioStorage(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Bucket, cfg.UseSSL, cfg.PublicURL)
	case "gcs", "google":
		return NewGCSStorage(ctx, cfg.CredentialsFile, cfg.Bucket, cfg.PublicURL)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}

// DetectImageType sniffs the content type of an image and returns it with
// the file extension to store it under. Unknown content is treated as PNG.
func DetectImageType(head []byte) (contentType, ext string) {
	switch ct := http.DetectContentType(head); ct {
	case "image/jpeg":
		return ct, "jpg"
	case "image/gif":
		return ct, "gif"
	case "image/webp":
		return ct, "webp"
	default:
		return "image/png", "png"
	}
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
