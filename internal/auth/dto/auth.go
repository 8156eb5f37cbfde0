package dto

import authdomain "imagepro-backend/internal/auth/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdatePasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

type SessionResponse struct {
	User      *authdomain.User `json:"user"`
	ExpiresAt int64            `json:"expires_at"`
}

func NewSessionResponse(session *authdomain.Session) *SessionResponse {
	return &SessionResponse{
		User:      session.User,
		ExpiresAt: session.ExpiresAt.Unix(),
	}
}
