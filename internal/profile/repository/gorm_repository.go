package repository

import (
	"errors"
	"time"

	"imagepro-backend/internal/profile/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormProfileRepository struct {
	db *gorm.DB
}

func NewGormProfileRepository(db *gorm.DB) ProfileRepository {
	return &gormProfileRepository{db: db}
}

func (r *gormProfileRepository) Insert(profile *domain.Profile) error {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	return r.db.Create(profile).Error
}

func (r *gormProfileRepository) Upsert(profile *domain.Profile) error {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "avatar_url", "google_avatar_url", "updated_at"}),
	}).Create(profile).Error
}

func (r *gormProfileRepository) Update(userID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()
	return r.db.Model(&domain.Profile{}).Where("id = ?", userID).Updates(fields).Error
}

func (r *gormProfileRepository) Select(userID string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.Where("id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *gormProfileRepository) Delete(userID string) error {
	return r.db.Delete(&domain.Profile{}, "id = ?", userID).Error
}
