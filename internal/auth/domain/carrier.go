package domain

import "net/http"

const (
	AccessTokenCookie  = "imagepro-access-token"
	RefreshTokenCookie = "imagepro-refresh-token"
	CodeVerifierCookie = "imagepro-code-verifier"
)

// CookieOptions are the standard attributes applied when a cookie is set
type CookieOptions struct {
	MaxAge   int
	Path     string
	Domain   string
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
}

// SessionCarrier reads and writes named cookies for exactly one
// request/response pair. Writes land on the response being built.
type SessionCarrier interface {
	Get(name string) (string, bool)
	Set(name, value string, opts CookieOptions)
	Remove(name string, opts CookieOptions)
}
