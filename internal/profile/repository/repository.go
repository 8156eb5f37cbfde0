package repository

import "imagepro-backend/internal/profile/domain"

// ProfileRepository persists profiles keyed by user ID
type ProfileRepository interface {
	// Insert creates a profile and fails if one already exists for the ID
	Insert(profile *domain.Profile) error
	// Upsert creates the profile or, when it exists, refreshes everything
	// except its email
	Upsert(profile *domain.Profile) error
	Update(userID string, fields map[string]interface{}) error
	// Select returns nil, nil when the user has no profile
	Select(userID string) (*domain.Profile, error)
	Delete(userID string) error
}
