// Package googleauth runs the Google OAuth 2.0 authorization code flow with
// PKCE and resolves the signed-in Google account.
package googleauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// ErrCodeRejected wraps token endpoint rejections (invalid_grant and friends).
var ErrCodeRejected = errors.New("authorization code rejected")

var defaultScopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// Identity is the Google account behind an exchanged authorization code
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

type Client struct {
	config           *oauth2.Config
	httpClient       *http.Client
	userinfoEndpoint string
}

type Option func(*Client)

// WithEndpoint overrides Google's authorization and token endpoints.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(c *Client) {
		c.config.Endpoint = endpoint
	}
}

// WithUserinfoEndpoint overrides the base URL of the userinfo API.
func WithUserinfoEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.userinfoEndpoint = endpoint
	}
}

func NewClient(clientID, clientSecret, redirectURI string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Endpoint:     google.Endpoint,
			Scopes:       defaultScopes,
		},
		httpClient: httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RedirectURI returns the registered callback URL
func (c *Client) RedirectURI() string {
	return c.config.RedirectURL
}

// AuthCodeURL builds the consent screen URL with an S256 challenge for verifier.
func (c *Client) AuthCodeURL(verifier string) string {
	return c.config.AuthCodeURL("",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.S256ChallengeOption(verifier),
	)
}

// Exchange trades the code for a token and loads the account's userinfo.
// Token endpoint rejections are wrapped with ErrCodeRejected; any other
// failure means Google could not be reached or answered unexpectedly.
func (c *Client) Exchange(ctx context.Context, code, verifier string) (*Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil && retrieveErr.Response.StatusCode < http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: %v", ErrCodeRejected, err)
		}
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	opts := []option.ClientOption{option.WithHTTPClient(c.config.Client(ctx, token))}
	if c.userinfoEndpoint != "" {
		opts = append(opts, option.WithEndpoint(c.userinfoEndpoint))
	}
	svc, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to fetch userinfo: %w", err)
	}

	return &Identity{
		Subject:       info.Id,
		Email:         info.Email,
		EmailVerified: info.VerifiedEmail != nil && *info.VerifiedEmail,
		Name:          info.Name,
		Picture:       info.Picture,
	}, nil
}

// GenerateVerifier returns a new random PKCE code verifier
func GenerateVerifier() string {
	return oauth2.GenerateVerifier()
}
