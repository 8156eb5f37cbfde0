package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage stores objects in an S3-compatible bucket.
type MinioStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioStorage(endpoint, accessKeyID, secretAccessKey, bucket string, useSSL bool, publicURL string) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	if publicURL == "" {
		publicURL = client.EndpointURL().String() + "/" + bucket
	}

	return &MinioStorage{
		client:    client,
		bucket:    bucket,
		publicURL: publicURL,
	}, nil
}

func (s *MinioStorage) Upload(ctx context.Context, path string, reader io.Reader, opts UploadOptions) (*Object, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	if !opts.Overwrite {
		_, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
		if err == nil {
			return nil, ErrObjectExists
		}
		if minio.ToErrorResponse(err).StatusCode != http.StatusNotFound {
			return nil, fmt.Errorf("failed to stat object: %w", err)
		}
	}

	size := opts.Size
	if size == 0 {
		size = -1
	}
	info, err := s.client.PutObject(ctx, s.bucket, path, reader, size, minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		CacheControl: "max-age=3600",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put object: %w", err)
	}

	return &Object{
		Path:         path,
		Size:         info.Size,
		ContentType:  opts.ContentType,
		LastModified: info.LastModified,
	}, nil
}

func (s *MinioStorage) PublicURL(path string) string {
	return joinURL(s.publicURL, path)
}

func (s *MinioStorage) Delete(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *MinioStorage) List(ctx context.Context, prefix string) ([]*Object, error) {
	// stops the lister goroutine when we return early
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var objects []*Object
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		objects = append(objects, &Object{
			Path:         object.Key,
			Size:         object.Size,
			ContentType:  object.ContentType,
			LastModified: object.LastModified,
		})
	}
	return objects, nil
}
