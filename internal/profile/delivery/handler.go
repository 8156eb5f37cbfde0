package delivery

import (
	"context"
	"errors"
	"net/http"

	authdelivery "imagepro-backend/internal/auth/delivery"
	authdomain "imagepro-backend/internal/auth/domain"
	"imagepro-backend/internal/profile/domain"
	"imagepro-backend/internal/profile/dto"
	"imagepro-backend/internal/profile/usecase"

	"github.com/gin-gonic/gin"
)

// SessionEnder clears the caller's session cookies
type SessionEnder interface {
	SignOut(ctx context.Context, carrier authdomain.SessionCarrier) error
}

type ProfileHandler struct {
	profileUsecase usecase.ProfileUsecase
	sessions       SessionEnder
}

func NewProfileHandler(profileUsecase usecase.ProfileUsecase, sessions SessionEnder) *ProfileHandler {
	return &ProfileHandler{
		profileUsecase: profileUsecase,
		sessions:       sessions,
	}
}

// GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetString("userID")

	profile, err := h.profileUsecase.GetProfile(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile edits the display fields of the profile
// PATCH /api/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString("userID")

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileUsecase.UpdateProfile(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UploadAvatar replaces the avatar with the multipart "avatar" file
// PUT /api/profile/avatar
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetString("userID")

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	if fileHeader.Size > usecase.MaxAvatarSize {
		respondError(c, domain.ErrAvatarTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	profile, err := h.profileUsecase.UploadAvatar(c.Request.Context(), userID, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DeleteAccount removes the caller's profile, avatars and identity, then
// ends the session
// DELETE /api/account
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.profileUsecase.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.sessions.SignOut(c.Request.Context(), authdelivery.NewCookieCarrier(c)); err != nil {
		// the account is gone either way; the cookies were cleared
		c.Error(err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

func respondError(c *gin.Context, err error) {
	var uploadErr *domain.UploadError
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAvatarTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotAnImage):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	case errors.As(err, &uploadErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not store the avatar, please try again"})
	default:
		if message, ok := authdomain.UserMessage(err); ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
