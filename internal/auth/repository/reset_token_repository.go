package repository

import (
	"errors"
	"time"

	authdomain "imagepro-backend/internal/auth/domain"

	"gorm.io/gorm"
)

type resetTokenRepository struct {
	db *gorm.DB
}

func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) Save(token *authdomain.PasswordResetToken) error {
	token.CreatedAt = time.Now()
	return r.db.Create(token).Error
}

func (r *resetTokenRepository) FindByHash(hash string) (*authdomain.PasswordResetToken, error) {
	var token authdomain.PasswordResetToken
	err := r.db.Where("token_hash = ?", hash).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *resetTokenRepository) Delete(hash string) error {
	return r.db.Where("token_hash = ?", hash).Delete(&authdomain.PasswordResetToken{}).Error
}

func (r *resetTokenRepository) DeleteByUser(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&authdomain.PasswordResetToken{}).Error
}

func (r *resetTokenRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", now).Delete(&authdomain.PasswordResetToken{})
	return result.RowsAffected, result.Error
}
