package usecase

import (
	"context"
	"errors"
	"io"
	"sync"

	"imagepro-backend/internal/profile/domain"
	"imagepro-backend/pkg/storage"
)

type fakeProfileRepo struct {
	mu         sync.Mutex
	profiles   map[string]*domain.Profile
	upsertErr  error
	updateErr  error
	updateHits int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func (r *fakeProfileRepo) Insert(profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.ID]; ok {
		return errors.New("duplicate key value violates unique constraint")
	}
	copied := *profile
	r.profiles[profile.ID] = &copied
	return nil
}

func (r *fakeProfileRepo) Upsert(profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	copied := *profile
	if existing, ok := r.profiles[profile.ID]; ok {
		copied.Email = existing.Email
		copied.Username = existing.Username
		copied.Bio = existing.Bio
		copied.Website = existing.Website
		copied.Location = existing.Location
	}
	r.profiles[profile.ID] = &copied
	return nil
}

func (r *fakeProfileRepo) Update(userID string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateHits++
	if r.updateErr != nil {
		return r.updateErr
	}
	p, ok := r.profiles[userID]
	if !ok {
		return nil
	}
	for k, v := range fields {
		s := v.(string)
		switch k {
		case "full_name":
			p.FullName = s
		case "username":
			p.Username = s
		case "bio":
			p.Bio = s
		case "website":
			p.Website = s
		case "location":
			p.Location = s
		case "avatar_url":
			p.AvatarURL = &s
		}
	}
	return nil
}

func (r *fakeProfileRepo) Select(userID string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProfileRepo) Delete(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, userID)
	return nil
}

// failingStorage wraps a real driver and rejects uploads
type failingStorage struct {
	storage.Interface
}

func (s *failingStorage) Upload(ctx context.Context, path string, reader io.Reader, opts storage.UploadOptions) (*storage.Object, error) {
	return nil, errors.New("bucket quota exceeded")
}

// fakeIdentities records whether the profile was still present when the
// identity was deleted.
type fakeIdentities struct {
	repo                *fakeProfileRepo
	deleted             []string
	profileExistedOnDel bool
}

func (f *fakeIdentities) DeleteUser(ctx context.Context, userID string) error {
	p, _ := f.repo.Select(userID)
	f.profileExistedOnDel = p != nil
	f.deleted = append(f.deleted, userID)
	return nil
}

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	jpegBytes = append([]byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), make([]byte, 64)...)
)
