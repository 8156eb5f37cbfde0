package delivery

import (
	"errors"
	"net/http"

	authdomain "imagepro-backend/internal/auth/domain"
	authdto "imagepro-backend/internal/auth/dto"
	"imagepro-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	siteURL     string
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, siteURL string) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		siteURL:     siteURL,
	}
}

// GoogleSignIn starts the Google OAuth flow
// GET /auth/google?redirect_to=
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	authURL, err := h.authUsecase.SignInWithOAuth(c.Request.Context(), NewCookieCarrier(c), authdomain.ProviderGoogle, c.Query("redirect_to"))
	if err != nil {
		c.Redirect(http.StatusFound, loginErrorURL(err.Error()))
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// Login signs in with email and password
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.authUsecase.SignInWithPassword(c.Request.Context(), NewCookieCarrier(c), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, authdto.NewSessionResponse(session))
}

// SignUp registers an email/password account
// POST /api/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req authdto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.authUsecase.SignUp(c.Request.Context(), NewCookieCarrier(c), req.Email, req.Password, req.FullName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authdto.NewSessionResponse(session))
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUsecase.SignOut(c.Request.Context(), NewCookieCarrier(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// Session returns the current session's user
// GET /api/auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	session, err := h.authUsecase.GetSession(c.Request.Context(), NewCookieCarrier(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if session == nil {
		respondError(c, authdomain.ErrNoSession)
		return
	}
	c.JSON(http.StatusOK, authdto.NewSessionResponse(session))
}

// ForgotPassword mails a reset link. The response does not reveal
// whether the address is registered.
// POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req authdto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authUsecase.ResetPasswordForEmail(c.Request.Context(), req.Email, h.siteURL+"/reset-password"); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "if the address is registered, a reset link has been sent"})
}

// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req authdto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authUsecase.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// UpdatePassword changes the password of the signed-in user
// PUT /api/auth/password
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID := c.GetString("userID")

	var req authdto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authUsecase.UpdateUser(c.Request.Context(), userID, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrNoSession):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, authdomain.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, authdomain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, authdomain.ErrUseGoogleSignIn),
		errors.Is(err, authdomain.ErrInvalidResetToken),
		errors.Is(err, authdomain.ErrUnsupportedProvider),
		errors.Is(err, authdomain.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if message, ok := authdomain.UserMessage(err); ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
