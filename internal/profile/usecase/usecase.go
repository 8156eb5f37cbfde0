package usecase

import (
	"context"
	"io"

	authdomain "imagepro-backend/internal/auth/domain"
	"imagepro-backend/internal/profile/domain"
	"imagepro-backend/internal/profile/dto"
)

// ProfileUsecase defines the profile business logic
type ProfileUsecase interface {
	GetProfile(userID string) (*domain.Profile, error)

	// UpdateProfile applies the set fields of req and returns the result
	UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*domain.Profile, error)

	// CreateProfile inserts the profile of a new email sign-up
	CreateProfile(userID, email, fullName string) error

	// EnsureProfile inserts a profile for user unless one exists
	EnsureProfile(user *authdomain.User) error

	// RelayAvatar copies the user's provider avatar into object storage and
	// points the profile at the copy. It returns the public URL, or nil on
	// any failure; failures are logged, never returned.
	RelayAvatar(ctx context.Context, user *authdomain.User) *string

	// UploadAvatar stores an avatar uploaded by the user
	UploadAvatar(ctx context.Context, userID string, file io.Reader) (*domain.Profile, error)

	// DeleteAccount removes stored avatars, the profile, then the identity
	DeleteAccount(ctx context.Context, userID string) error
}

// IdentityDeleter removes the identity record of a user
type IdentityDeleter interface {
	DeleteUser(ctx context.Context, userID string) error
}
