package domain

import "time"

const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-"` // Never return password in JSON
	Name     string `json:"name"`
	Provider string `json:"provider"` // "email" or "google"
	// ProviderAvatarURL is the avatar hosted by the OAuth provider, set on OAuth sign-in
	ProviderAvatarURL *string   `json:"provider_avatar_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordResetToken is a single-use token mailed to the user. Only the
// SHA-256 hash of the token is stored.
type PasswordResetToken struct {
	TokenHash string    `gorm:"primaryKey"`
	UserID    string    `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

// Session is proof of authentication issued by the identity provider and
// carried by the browser in cookies.
type Session struct {
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}
