package domain

import "time"

// Profile is the user-facing display record. Its ID is the user's ID, so a
// user has at most one profile.
type Profile struct {
	ID       string `json:"id" gorm:"primaryKey"`
	FullName string `json:"full_name"`
	// Email is recorded when the profile is created and never updated
	Email    string `json:"email"`
	Username string `json:"username" gorm:"index"`
	Bio      string `json:"bio"`
	Website  string `json:"website"`
	Location string `json:"location"`
	// AvatarURL points at the avatar in our own object storage, or at the
	// provider avatar until the relay has copied it
	AvatarURL       *string   `json:"avatar_url"`
	GoogleAvatarURL *string   `json:"google_avatar_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
