package delivery

import (
	"context"
	"time"

	authdomain "imagepro-backend/internal/auth/domain"
	"imagepro-backend/internal/auth/usecase"
)

// fakeAuth is a programmable AuthUsecase. Unset hooks return zero values.
type fakeAuth struct {
	exchange      func(ctx context.Context, carrier authdomain.SessionCarrier, code string) (*authdomain.Session, error)
	getSession    func(ctx context.Context, carrier authdomain.SessionCarrier) (*authdomain.Session, error)
	signIn        func(ctx context.Context, carrier authdomain.SessionCarrier, email, password string) (*authdomain.Session, error)
	signUp        func(ctx context.Context, carrier authdomain.SessionCarrier, email, password, fullName string) (*authdomain.Session, error)
	resetForEmail func(ctx context.Context, email, redirectTo string) error

	exchangeCalls   int
	getSessionCalls int
	signOutCalls    int
	exchangeCtx     context.Context
	updatedUserID   string
}

var _ usecase.AuthUsecase = (*fakeAuth)(nil)

func (f *fakeAuth) ExchangeCodeForSession(ctx context.Context, carrier authdomain.SessionCarrier, code string) (*authdomain.Session, error) {
	f.exchangeCalls++
	f.exchangeCtx = ctx
	if f.exchange == nil {
		return nil, nil
	}
	return f.exchange(ctx, carrier, code)
}

func (f *fakeAuth) GetSession(ctx context.Context, carrier authdomain.SessionCarrier) (*authdomain.Session, error) {
	f.getSessionCalls++
	if f.getSession == nil {
		return nil, nil
	}
	return f.getSession(ctx, carrier)
}

func (f *fakeAuth) SignInWithPassword(ctx context.Context, carrier authdomain.SessionCarrier, email, password string) (*authdomain.Session, error) {
	if f.signIn == nil {
		return nil, authdomain.ErrInvalidCredentials
	}
	return f.signIn(ctx, carrier, email, password)
}

func (f *fakeAuth) SignUp(ctx context.Context, carrier authdomain.SessionCarrier, email, password, fullName string) (*authdomain.Session, error) {
	if f.signUp == nil {
		return nil, authdomain.ErrEmailTaken
	}
	return f.signUp(ctx, carrier, email, password, fullName)
}

func (f *fakeAuth) SignInWithOAuth(ctx context.Context, carrier authdomain.SessionCarrier, provider, redirectTo string) (string, error) {
	carrier.Set(authdomain.CodeVerifierCookie, "verifier", authdomain.CookieOptions{Path: "/", MaxAge: 600, HTTPOnly: true})
	return "https://accounts.google.com/o/oauth2/auth?client_id=test", nil
}

func (f *fakeAuth) SignOut(ctx context.Context, carrier authdomain.SessionCarrier) error {
	f.signOutCalls++
	carrier.Remove(authdomain.AccessTokenCookie, authdomain.CookieOptions{Path: "/"})
	carrier.Remove(authdomain.RefreshTokenCookie, authdomain.CookieOptions{Path: "/"})
	return nil
}

func (f *fakeAuth) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	if f.resetForEmail == nil {
		return nil
	}
	return f.resetForEmail(ctx, email, redirectTo)
}

func (f *fakeAuth) ResetPassword(ctx context.Context, token, password string) error {
	if token != "good-token" {
		return authdomain.ErrInvalidResetToken
	}
	return nil
}

func (f *fakeAuth) UpdateUser(ctx context.Context, userID, password string) error {
	f.updatedUserID = userID
	return nil
}

func (f *fakeAuth) DeleteUser(ctx context.Context, userID string) error { return nil }

func (f *fakeAuth) SetProfileProvisioner(p usecase.ProfileProvisioner) {}

// sessionFor returns a session that also writes the cookies, as the real
// exchange does.
func sessionFor(user *authdomain.User) func(ctx context.Context, carrier authdomain.SessionCarrier, code string) (*authdomain.Session, error) {
	return func(ctx context.Context, carrier authdomain.SessionCarrier, code string) (*authdomain.Session, error) {
		carrier.Set(authdomain.AccessTokenCookie, "access-"+user.ID, authdomain.CookieOptions{Path: "/", MaxAge: 900, HTTPOnly: true})
		carrier.Set(authdomain.RefreshTokenCookie, "refresh-"+user.ID, authdomain.CookieOptions{Path: "/", MaxAge: 3600, HTTPOnly: true})
		return &authdomain.Session{
			AccessToken:  "access-" + user.ID,
			RefreshToken: "refresh-" + user.ID,
			ExpiresAt:    time.Now().Add(15 * time.Minute),
			User:         user,
		}, nil
	}
}

func signedIn(user *authdomain.User) func(ctx context.Context, carrier authdomain.SessionCarrier) (*authdomain.Session, error) {
	return func(ctx context.Context, carrier authdomain.SessionCarrier) (*authdomain.Session, error) {
		return &authdomain.Session{User: user, ExpiresAt: time.Now().Add(time.Minute)}, nil
	}
}

type fakeProfileSync struct {
	relayed  []string
	ensured  []string
	panicMsg string
}

func (f *fakeProfileSync) RelayAvatar(ctx context.Context, user *authdomain.User) *string {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	f.relayed = append(f.relayed, user.ID)
	url := "https://cdn.test/avatars/" + user.ID + "/avatar.png"
	return &url
}

func (f *fakeProfileSync) EnsureProfile(user *authdomain.User) error {
	f.ensured = append(f.ensured, user.ID)
	return nil
}
