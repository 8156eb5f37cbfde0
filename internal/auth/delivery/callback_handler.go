package delivery

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	authdomain "imagepro-backend/internal/auth/domain"
	"imagepro-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	dashboardPath = "/dashboard"
	loginPath     = "/login"

	unexpectedErrorMessage = "An unexpected error occurred"
)

// ProfileSync keeps the profile record in step with the identity after a
// successful OAuth sign-in. Both calls are best effort.
type ProfileSync interface {
	RelayAvatar(ctx context.Context, user *authdomain.User) *string
	EnsureProfile(user *authdomain.User) error
}

type CallbackHandler struct {
	authUsecase usecase.AuthUsecase
	profiles    ProfileSync
	log         logrus.FieldLogger
}

func NewCallbackHandler(authUsecase usecase.AuthUsecase, profiles ProfileSync, log logrus.FieldLogger) *CallbackHandler {
	return &CallbackHandler{
		authUsecase: authUsecase,
		profiles:    profiles,
		log:         log.WithField("component", "auth_callback"),
	}
}

// Callback completes the OAuth redirect. It always answers with a redirect.
// GET /auth/callback?code=...
func (h *CallbackHandler) Callback(c *gin.Context) {
	// the browser may go away mid-exchange; the session and profile
	// writes still have to finish
	ctx := context.WithoutCancel(c.Request.Context())

	defer func() {
		if r := recover(); r != nil {
			h.log.WithField("panic", r).Error("auth callback panicked")
			c.Redirect(http.StatusFound, loginErrorURL(unexpectedErrorMessage))
		}
	}()

	if providerErr := c.Query("error"); providerErr != "" {
		message := c.Query("error_description")
		if message == "" {
			message = providerErr
		}
		h.log.WithField("error", providerErr).Warn("provider returned an error to the callback")
		c.Redirect(http.StatusFound, loginErrorURL(message))
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}

	session, err := h.authUsecase.ExchangeCodeForSession(ctx, NewCookieCarrier(c), code)
	if err != nil {
		message, known := authdomain.UserMessage(err)
		if !known {
			message = unexpectedErrorMessage
		}
		h.log.WithError(err).Warn("code exchange failed")
		c.Redirect(http.StatusFound, loginErrorURL(message))
		return
	}

	h.syncProfile(ctx, session.User)

	c.Redirect(http.StatusFound, dashboardPath)
}

func (h *CallbackHandler) syncProfile(ctx context.Context, user *authdomain.User) {
	if h.profiles == nil || user == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			h.log.WithFields(logrus.Fields{"user_id": user.ID, "panic": r}).Error("profile sync panicked")
		}
	}()

	if user.ProviderAvatarURL != nil && *user.ProviderAvatarURL != "" {
		h.profiles.RelayAvatar(ctx, user)
		return
	}
	if err := h.profiles.EnsureProfile(user); err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Warn("failed to ensure profile")
	}
}

// loginErrorURL encodes spaces as %20 rather than '+'
func loginErrorURL(message string) string {
	return loginPath + "?error=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}
