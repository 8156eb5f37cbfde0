package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSStorage stores objects in a Google Cloud Storage bucket.
type GCSStorage struct {
	client    *storage.Client
	bucket    *storage.BucketHandle
	publicURL string
}

func NewGCSStorage(ctx context.Context, credentialsFile, bucket, publicURL string) (*GCSStorage, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	if publicURL == "" {
		publicURL = "https://storage.googleapis.com/" + bucket
	}

	return &GCSStorage{
		client:    client,
		bucket:    client.Bucket(bucket),
		publicURL: publicURL,
	}, nil
}

func (s *GCSStorage) Upload(ctx context.Context, path string, reader io.Reader, opts UploadOptions) (*Object, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	obj := s.bucket.Object(path)
	if !opts.Overwrite {
		obj = obj.If(storage.Conditions{DoesNotExist: true})
	}

	// cancelling the writer's context aborts the upload; Close would commit it
	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	writer := obj.NewWriter(writeCtx)
	writer.ContentType = opts.ContentType
	writer.CacheControl = "max-age=3600"

	if _, err := io.Copy(writer, reader); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to write object: %w", err)
	}
	if err := writer.Close(); err != nil {
		var gErr *googleapi.Error
		if errors.As(err, &gErr) && gErr.Code == http.StatusPreconditionFailed {
			return nil, ErrObjectExists
		}
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	attrs := writer.Attrs()
	return &Object{
		Path:         path,
		Size:         attrs.Size,
		ContentType:  attrs.ContentType,
		LastModified: attrs.Updated,
	}, nil
}

func (s *GCSStorage) PublicURL(path string) string {
	return joinURL(s.publicURL, path)
}

func (s *GCSStorage) Delete(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	err := s.bucket.Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *GCSStorage) List(ctx context.Context, prefix string) ([]*Object, error) {
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: prefix})

	var objects []*Object
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate objects: %w", err)
		}
		objects = append(objects, &Object{
			Path:         attrs.Name,
			Size:         attrs.Size,
			ContentType:  attrs.ContentType,
			LastModified: attrs.Updated,
		})
	}
	return objects, nil
}
