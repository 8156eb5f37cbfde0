package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrAvatarTooLarge  = errors.New("avatar exceeds the 5 MiB limit")
	ErrNotAnImage      = errors.New("avatar must be a PNG, JPEG, GIF or WebP image")
)

// DownloadError means the provider avatar could not be fetched.
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to download avatar from %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to download avatar from %s: status %d", e.URL, e.StatusCode)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// UploadError means object storage rejected an avatar write.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload avatar to %s: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
