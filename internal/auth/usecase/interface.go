package usecase

import (
	"context"

	authdomain "imagepro-backend/internal/auth/domain"
	"imagepro-backend/pkg/googleauth"
)

// AuthUsecase is the identity provider. Operations that read or write
// session cookies take the carrier bound to the current request.
type AuthUsecase interface {
	// ExchangeCodeForSession trades an OAuth authorization code for a session
	// and writes the session cookies through carrier.
	ExchangeCodeForSession(ctx context.Context, carrier authdomain.SessionCarrier, code string) (*authdomain.Session, error)

	// GetSession returns the session carried by the request, or nil when
	// there is none. An expired access token is renewed from the refresh token.
	GetSession(ctx context.Context, carrier authdomain.SessionCarrier) (*authdomain.Session, error)

	SignInWithPassword(ctx context.Context, carrier authdomain.SessionCarrier, email, password string) (*authdomain.Session, error)
	SignUp(ctx context.Context, carrier authdomain.SessionCarrier, email, password, fullName string) (*authdomain.Session, error)

	// SignInWithOAuth starts an OAuth flow and returns the provider URL to send the browser to.
	SignInWithOAuth(ctx context.Context, carrier authdomain.SessionCarrier, provider, redirectTo string) (string, error)

	SignOut(ctx context.Context, carrier authdomain.SessionCarrier) error

	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	ResetPassword(ctx context.Context, token, password string) error
	UpdateUser(ctx context.Context, userID, password string) error
	DeleteUser(ctx context.Context, userID string) error

	// SetProfileProvisioner registers the hook that creates a profile for new sign-ups
	SetProfileProvisioner(p ProfileProvisioner)
}

// ProfileProvisioner creates the profile record of a newly registered user
type ProfileProvisioner interface {
	CreateProfile(userID, email, fullName string) error
}

// OAuthClient is the OAuth provider used for "google" sign-ins
type OAuthClient interface {
	RedirectURI() string
	AuthCodeURL(verifier string) string
	Exchange(ctx context.Context, code, verifier string) (*googleauth.Identity, error)
}
