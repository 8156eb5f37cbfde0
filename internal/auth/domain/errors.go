package domain

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUseGoogleSignIn     = errors.New("please use Google Sign-In for this account")
	ErrEmailTaken          = errors.New("email already registered")
	ErrUserNotFound        = errors.New("user not found")
	ErrNoSession           = errors.New("no active session")
	ErrInvalidResetToken   = errors.New("reset link is invalid or has expired")
	ErrUnsupportedProvider = errors.New("unsupported OAuth provider")
	ErrWeakPassword        = errors.New("password must be at least 6 characters")
)

// ExchangeError means the identity provider rejected an authorization code
// (unknown, expired, already used, or missing its PKCE verifier).
type ExchangeError struct {
	Message string
	Err     error
}

func (e *ExchangeError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ExchangeError) Unwrap() error { return e.Err }

// NetworkError means the identity provider could not be reached.
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RepositoryError means a record store rejected a read or a write.
type RepositoryError struct {
	Message string
	Err     error
}

func (e *RepositoryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// UserMessage returns the human-readable message of an ExchangeError,
// NetworkError or RepositoryError, and false for any other error.
func UserMessage(err error) (string, bool) {
	var exchangeErr *ExchangeError
	if errors.As(err, &exchangeErr) {
		return exchangeErr.Message, true
	}
	var networkErr *NetworkError
	if errors.As(err, &networkErr) {
		return networkErr.Message, true
	}
	var repoErr *RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.Message, true
	}
	return "", false
}
