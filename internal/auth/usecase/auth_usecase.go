package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	authdomain "imagepro-backend/internal/auth/domain"
	"imagepro-backend/internal/auth/repository"
	"imagepro-backend/pkg/config"
	"imagepro-backend/pkg/mailer"

	"github.com/sirupsen/logrus"
)

const resetTokenTTL = time.Hour

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo    repository.UserRepository
	resetRepo   repository.ResetTokenRepository
	oauth       OAuthClient
	mailer      mailer.Sender
	provisioner ProfileProvisioner
	config      *config.Config
	log         logrus.FieldLogger
	now         func() time.Time
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, resetRepo repository.ResetTokenRepository, oauth OAuthClient, mail mailer.Sender, cfg *config.Config, log logrus.FieldLogger) AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		oauth:     oauth,
		mailer:    mail,
		config:    cfg,
		log:       log.WithField("component", "auth"),
		now:       time.Now,
	}
}

func (u *authUsecase) SetProfileProvisioner(p ProfileProvisioner) {
	u.provisioner = p
}

func (u *authUsecase) SignInWithPassword(ctx context.Context, carrier authdomain.SessionCarrier, email, password string) (*authdomain.Session, error) {
	user, err := u.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil {
		return nil, &authdomain.RepositoryError{Message: "Could not load your account", Err: err}
	}

	if user == nil {
		return nil, authdomain.ErrInvalidCredentials
	}

	if user.Password == "" {
		return nil, authdomain.ErrUseGoogleSignIn
	}

	if !repository.CheckPasswordHash(password, user.Password) {
		return nil, authdomain.ErrInvalidCredentials
	}

	return u.issueSession(carrier, user)
}

func (u *authUsecase) SignUp(ctx context.Context, carrier authdomain.SessionCarrier, email, password, fullName string) (*authdomain.Session, error) {
	email = normalizeEmail(email)
	if len(password) < 6 {
		return nil, authdomain.ErrWeakPassword
	}

	existing, err := u.userRepo.FindByEmail(email)
	if err != nil {
		return nil, &authdomain.RepositoryError{Message: "Could not create your account", Err: err}
	}

	if existing != nil {
		return nil, authdomain.ErrEmailTaken
	}

	hashedPassword, err := repository.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		Email:    email,
		Password: hashedPassword,
		Name:     strings.TrimSpace(fullName),
		Provider: authdomain.ProviderEmail,
	}

	if err := u.userRepo.Create(user); err != nil {
		return nil, &authdomain.RepositoryError{Message: "Could not create your account", Err: err}
	}

	if u.provisioner != nil {
		if err := u.provisioner.CreateProfile(user.ID, user.Email, user.Name); err != nil {
			// the user row goes too, so the address can sign up again
			if delErr := u.userRepo.Delete(user.ID); delErr != nil {
				u.log.WithError(delErr).WithField("user_id", user.ID).Error("failed to roll back user after profile failure")
			}
			return nil, &authdomain.RepositoryError{Message: "Could not create your profile", Err: err}
		}
	}

	return u.issueSession(carrier, user)
}

func (u *authUsecase) GetSession(ctx context.Context, carrier authdomain.SessionCarrier) (*authdomain.Session, error) {
	accessToken, hasAccess := carrier.Get(authdomain.AccessTokenCookie)
	refreshToken, hasRefresh := carrier.Get(authdomain.RefreshTokenCookie)
	if !hasAccess && !hasRefresh {
		return nil, nil
	}

	if hasAccess && accessToken != "" {
		if claims, err := u.parseToken(accessToken, tokenTypeAccess); err == nil {
			user, err := u.userRepo.FindByID(claims.UserID)
			if err != nil {
				return nil, &authdomain.RepositoryError{Message: "Could not load your session", Err: err}
			}
			if user != nil {
				return &authdomain.Session{
					AccessToken:  accessToken,
					RefreshToken: refreshToken,
					ExpiresAt:    claims.ExpiresAt.Time,
					User:         user,
				}, nil
			}
		}
	}

	if hasRefresh && refreshToken != "" {
		session, err := u.refreshSession(carrier, refreshToken)
		if err != nil || session != nil {
			return session, err
		}
	}

	u.clearSessionCookies(carrier)
	return nil, nil
}

// refreshSession issues a new access token from a stored, unexpired refresh
// token. It returns nil, nil when the refresh token is not usable.
func (u *authUsecase) refreshSession(carrier authdomain.SessionCarrier, refreshToken string) (*authdomain.Session, error) {
	claims, err := u.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, nil
	}

	storedToken, err := u.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, &authdomain.RepositoryError{Message: "Could not load your session", Err: err}
	}
	if storedToken == nil || storedToken.ExpiresAt.Before(u.now()) {
		return nil, nil
	}

	user, err := u.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, &authdomain.RepositoryError{Message: "Could not load your session", Err: err}
	}
	if user == nil {
		return nil, nil
	}

	accessToken, expiresAt, err := u.generateAccessToken(user, u.now())
	if err != nil {
		return nil, err
	}
	carrier.Set(authdomain.AccessTokenCookie, accessToken, u.cookieOptions(u.config.JWTAccessExpiry))

	return &authdomain.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         user,
	}, nil
}

func (u *authUsecase) SignOut(ctx context.Context, carrier authdomain.SessionCarrier) error {
	defer u.clearSessionCookies(carrier)

	refreshToken, ok := carrier.Get(authdomain.RefreshTokenCookie)
	if !ok || refreshToken == "" {
		return nil
	}
	if err := u.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return &authdomain.RepositoryError{Message: "Could not sign you out", Err: err}
	}
	return nil
}

func (u *authUsecase) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	user, err := u.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil {
		return &authdomain.RepositoryError{Message: "Could not start password reset", Err: err}
	}
	if user == nil {
		// unknown addresses get the same response as known ones
		u.log.WithField("email", email).Debug("password reset requested for unknown email")
		return nil
	}
	if user.Password == "" {
		// Google-only accounts have no password to reset
		u.log.WithField("user_id", user.ID).Debug("password reset requested for account without password")
		return nil
	}

	rawToken, err := randomToken()
	if err != nil {
		return err
	}

	if err := u.resetRepo.DeleteByUser(user.ID); err != nil {
		return &authdomain.RepositoryError{Message: "Could not start password reset", Err: err}
	}
	if err := u.resetRepo.Save(&authdomain.PasswordResetToken{
		TokenHash: hashToken(rawToken),
		UserID:    user.ID,
		ExpiresAt: u.now().Add(resetTokenTTL),
	}); err != nil {
		return &authdomain.RepositoryError{Message: "Could not start password reset", Err: err}
	}

	link, err := withQuery(redirectTo, "token", rawToken)
	if err != nil {
		return err
	}

	err = u.mailer.Send(ctx, mailer.Message{
		To:      user.Email,
		Subject: "Reset your ImagePro password",
		Text:    fmt.Sprintf("Follow this link to reset your password: %s\n\nThe link expires in one hour.", link),
		HTML:    fmt.Sprintf(`<p>Follow <a href="%s">this link</a> to reset your password.</p><p>The link expires in one hour.</p>`, link),
	})
	if err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	u.log.WithField("user_id", user.ID).Info("password reset email sent")
	return nil
}

func (u *authUsecase) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < 6 {
		return authdomain.ErrWeakPassword
	}

	hash := hashToken(token)
	stored, err := u.resetRepo.FindByHash(hash)
	if err != nil {
		return &authdomain.RepositoryError{Message: "Could not reset your password", Err: err}
	}
	if stored == nil {
		return authdomain.ErrInvalidResetToken
	}
	if stored.ExpiresAt.Before(u.now()) {
		_ = u.resetRepo.Delete(hash)
		return authdomain.ErrInvalidResetToken
	}

	if err := u.setPassword(stored.UserID, password); err != nil {
		return err
	}

	if err := u.resetRepo.Delete(hash); err != nil {
		return &authdomain.RepositoryError{Message: "Could not reset your password", Err: err}
	}
	// sign out every other browser
	if err := u.userRepo.DeleteRefreshTokensByUser(stored.UserID); err != nil {
		return &authdomain.RepositoryError{Message: "Could not reset your password", Err: err}
	}
	return nil
}

func (u *authUsecase) UpdateUser(ctx context.Context, userID, password string) error {
	if len(password) < 6 {
		return authdomain.ErrWeakPassword
	}
	return u.setPassword(userID, password)
}

func (u *authUsecase) setPassword(userID, password string) error {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return &authdomain.RepositoryError{Message: "Could not update your password", Err: err}
	}
	if user == nil {
		return authdomain.ErrUserNotFound
	}

	hashedPassword, err := repository.HashPassword(password)
	if err != nil {
		return err
	}
	user.Password = hashedPassword
	if err := u.userRepo.Update(user); err != nil {
		return &authdomain.RepositoryError{Message: "Could not update your password", Err: err}
	}
	return nil
}

func (u *authUsecase) DeleteUser(ctx context.Context, userID string) error {
	if err := u.resetRepo.DeleteByUser(userID); err != nil {
		return &authdomain.RepositoryError{Message: "Could not delete your account", Err: err}
	}
	if err := u.userRepo.Delete(userID); err != nil {
		return &authdomain.RepositoryError{Message: "Could not delete your account", Err: err}
	}
	u.log.WithField("user_id", userID).Info("user deleted")
	return nil
}

// issueSession creates a token pair for user, persists the refresh token
// and writes both cookies through carrier.
func (u *authUsecase) issueSession(carrier authdomain.SessionCarrier, user *authdomain.User) (*authdomain.Session, error) {
	now := u.now()

	accessToken, expiresAt, err := u.generateAccessToken(user, now)
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.generateRefreshToken(user, now)
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.ReplaceRefreshToken(&authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: now.Add(u.config.JWTRefreshExpiry),
	}); err != nil {
		return nil, &authdomain.RepositoryError{Message: "Could not start your session", Err: err}
	}

	carrier.Set(authdomain.AccessTokenCookie, accessToken, u.cookieOptions(u.config.JWTAccessExpiry))
	carrier.Set(authdomain.RefreshTokenCookie, refreshToken, u.cookieOptions(u.config.JWTRefreshExpiry))

	return &authdomain.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         user,
	}, nil
}

func (u *authUsecase) clearSessionCookies(carrier authdomain.SessionCarrier) {
	carrier.Remove(authdomain.AccessTokenCookie, u.cookieOptions(0))
	carrier.Remove(authdomain.RefreshTokenCookie, u.cookieOptions(0))
}

func (u *authUsecase) cookieOptions(maxAge time.Duration) authdomain.CookieOptions {
	return authdomain.CookieOptions{
		MaxAge:   int(maxAge.Seconds()),
		Path:     "/",
		Domain:   u.config.CookieDomain,
		Secure:   u.config.CookieSecure,
		HTTPOnly: true,
		SameSite: u.config.CookieSameSite,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func withQuery(rawURL, key, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid redirect URL: %w", err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
