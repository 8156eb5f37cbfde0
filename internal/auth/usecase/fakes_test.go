package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	authdomain "imagepro-backend/internal/auth/domain"
	"imagepro-backend/pkg/googleauth"
	"imagepro-backend/pkg/mailer"

	"github.com/google/uuid"
)

type fakeUserRepo struct {
	mu            sync.Mutex
	users         map[string]*authdomain.User
	refreshTokens map[string]*authdomain.RefreshToken
	failWith      error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:         make(map[string]*authdomain.User),
		refreshTokens: make(map[string]*authdomain.RefreshToken),
	}
}

func (r *fakeUserRepo) Create(user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Update(user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	for token, rt := range r.refreshTokens {
		if rt.UserID == id {
			delete(r.refreshTokens, token)
		}
	}
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshTokens[token], nil
}

func (r *fakeUserRepo) DeleteRefreshToken(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.refreshTokens, token)
	return nil
}

func (r *fakeUserRepo) DeleteRefreshTokensByUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, rt := range r.refreshTokens {
		if rt.UserID == userID {
			delete(r.refreshTokens, token)
		}
	}
	return nil
}

func (r *fakeUserRepo) ReplaceRefreshToken(token *authdomain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshTokens[token.Token] = token
	return nil
}

func (r *fakeUserRepo) DeleteExpiredRefreshTokens(now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for token, rt := range r.refreshTokens {
		if rt.ExpiresAt.Before(now) {
			delete(r.refreshTokens, token)
			n++
		}
	}
	return n, nil
}

type fakeResetRepo struct {
	tokens map[string]*authdomain.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]*authdomain.PasswordResetToken)}
}

func (r *fakeResetRepo) Save(token *authdomain.PasswordResetToken) error {
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *fakeResetRepo) FindByHash(hash string) (*authdomain.PasswordResetToken, error) {
	return r.tokens[hash], nil
}

func (r *fakeResetRepo) Delete(hash string) error {
	delete(r.tokens, hash)
	return nil
}

func (r *fakeResetRepo) DeleteByUser(userID string) error {
	for hash, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, hash)
		}
	}
	return nil
}

func (r *fakeResetRepo) DeleteExpired(now time.Time) (int64, error) {
	var n int64
	for hash, t := range r.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.tokens, hash)
			n++
		}
	}
	return n, nil
}

type fakeOAuth struct {
	identity     *googleauth.Identity
	err          error
	gotCode      string
	gotVerifier  string
	exchangeHits int
}

func (f *fakeOAuth) RedirectURI() string { return "https://imagepro.test/auth/callback" }

func (f *fakeOAuth) AuthCodeURL(verifier string) string {
	return "https://accounts.google.com/o/oauth2/auth?challenge-for=" + verifier
}

func (f *fakeOAuth) Exchange(ctx context.Context, code, verifier string) (*googleauth.Identity, error) {
	f.exchangeHits++
	f.gotCode = code
	f.gotVerifier = verifier
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeProvisioner struct {
	created []string
	err     error
}

func (p *fakeProvisioner) CreateProfile(userID, email, fullName string) error {
	if p.err != nil {
		return p.err
	}
	p.created = append(p.created, userID)
	return nil
}

// memoryCarrier is a cookie jar for one request. Removed cookies are
// tracked separately so tests can assert on deletions.
type memoryCarrier struct {
	cookies map[string]string
	opts    map[string]authdomain.CookieOptions
	removed map[string]bool
}

func newMemoryCarrier(cookies map[string]string) *memoryCarrier {
	if cookies == nil {
		cookies = make(map[string]string)
	}
	return &memoryCarrier{
		cookies: cookies,
		opts:    make(map[string]authdomain.CookieOptions),
		removed: make(map[string]bool),
	}
}

func (c *memoryCarrier) Get(name string) (string, bool) {
	v, ok := c.cookies[name]
	return v, ok
}

func (c *memoryCarrier) Set(name, value string, opts authdomain.CookieOptions) {
	c.cookies[name] = value
	c.opts[name] = opts
	delete(c.removed, name)
}

func (c *memoryCarrier) Remove(name string, opts authdomain.CookieOptions) {
	delete(c.cookies, name)
	c.removed[name] = true
}

var errDatabaseDown = errors.New("connection refused")
