package repository

import (
	"time"

	authdomain "imagepro-backend/internal/auth/domain"
)

// UserRepository defines the interface for identity record operations.
// Finders return nil, nil when the record does not exist.
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)
	Update(user *authdomain.User) error
	Delete(id string) error

	FindRefreshToken(token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(token string) error
	DeleteRefreshTokensByUser(userID string) error
	ReplaceRefreshToken(token *authdomain.RefreshToken) error
	// DeleteExpiredRefreshTokens prunes tokens of every user and returns how many were removed
	DeleteExpiredRefreshTokens(now time.Time) (int64, error)
}

// ResetTokenRepository stores password reset tokens by hash
type ResetTokenRepository interface {
	Save(token *authdomain.PasswordResetToken) error
	FindByHash(hash string) (*authdomain.PasswordResetToken, error)
	Delete(hash string) error
	DeleteByUser(userID string) error
	DeleteExpired(now time.Time) (int64, error)
}
