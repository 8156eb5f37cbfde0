package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	authdomain "imagepro-backend/internal/auth/domain"
	"imagepro-backend/pkg/googleauth"

	"github.com/sirupsen/logrus"
)

const codeVerifierTTL = 10 * time.Minute

func (u *authUsecase) SignInWithOAuth(ctx context.Context, carrier authdomain.SessionCarrier, provider, redirectTo string) (string, error) {
	if !strings.EqualFold(provider, authdomain.ProviderGoogle) || u.oauth == nil {
		return "", authdomain.ErrUnsupportedProvider
	}
	// Google only redirects to registered URIs, so the callback cannot vary per request
	if redirectTo != "" && redirectTo != u.oauth.RedirectURI() {
		return "", errors.New("redirect URL is not registered with the provider")
	}

	verifier := googleauth.GenerateVerifier()
	carrier.Set(authdomain.CodeVerifierCookie, verifier, u.cookieOptions(codeVerifierTTL))

	return u.oauth.AuthCodeURL(verifier), nil
}

func (u *authUsecase) ExchangeCodeForSession(ctx context.Context, carrier authdomain.SessionCarrier, code string) (*authdomain.Session, error) {
	if u.oauth == nil {
		return nil, &authdomain.ExchangeError{Message: "OAuth sign-in is not configured"}
	}

	verifier, ok := carrier.Get(authdomain.CodeVerifierCookie)
	if ok {
		// the verifier is single use, like the code
		carrier.Remove(authdomain.CodeVerifierCookie, u.cookieOptions(0))
	}
	if !ok || verifier == "" {
		return nil, &authdomain.ExchangeError{Message: "Your sign-in attempt expired, please try again"}
	}

	identity, err := u.oauth.Exchange(ctx, code, verifier)
	if err != nil {
		if errors.Is(err, googleauth.ErrCodeRejected) {
			return nil, &authdomain.ExchangeError{Message: "Invalid or expired authorization code", Err: err}
		}
		return nil, &authdomain.NetworkError{Message: "Could not reach the sign-in provider, please try again", Err: err}
	}

	if identity.Email == "" || !identity.EmailVerified {
		return nil, &authdomain.ExchangeError{Message: "Your Google email address is not verified"}
	}

	user, err := u.upsertOAuthUser(identity)
	if err != nil {
		return nil, err
	}

	session, err := u.issueSession(carrier, user)
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"provider": authdomain.ProviderGoogle,
	}).Info("session established from authorization code")
	return session, nil
}

// upsertOAuthUser finds the account for the Google identity by email, or
// creates it, and records the latest name and provider avatar.
func (u *authUsecase) upsertOAuthUser(identity *googleauth.Identity) (*authdomain.User, error) {
	email := normalizeEmail(identity.Email)

	user, err := u.userRepo.FindByEmail(email)
	if err != nil {
		return nil, &authdomain.RepositoryError{Message: "Could not load your account", Err: err}
	}

	var avatar *string
	if identity.Picture != "" {
		picture := identity.Picture
		avatar = &picture
	}

	if user == nil {
		user = &authdomain.User{
			Email:             email,
			Name:              identity.Name,
			Provider:          authdomain.ProviderGoogle,
			ProviderAvatarURL: avatar,
		}
		if err := u.userRepo.Create(user); err != nil {
			return nil, &authdomain.RepositoryError{Message: "Could not create your account", Err: err}
		}
		return user, nil
	}

	if identity.Name != "" {
		user.Name = identity.Name
	}
	user.ProviderAvatarURL = avatar
	if err := u.userRepo.Update(user); err != nil {
		return nil, &authdomain.RepositoryError{Message: "Could not update your account", Err: err}
	}
	return user, nil
}
