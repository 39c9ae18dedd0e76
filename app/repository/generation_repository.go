package repository

import (
	"gorm.io/gorm"

	"github.com/fashionai/fashionai/app/models"
)

// generationRepository implements the GenerationRepository interface
type generationRepository struct {
	db *gorm.DB
}

// NewGenerationRepository creates a new generation repository instance
func NewGenerationRepository(db *gorm.DB) GenerationRepository {
	return &generationRepository{db: db}
}

// Create persists a completed try-on result.
func (r *generationRepository) Create(image *models.GeneratedImage) error {
	return r.db.Create(image).Error
}

// ListByUser returns a user's generated images, newest first.
func (r *generationRepository) ListByUser(userID uint, offset, limit int) ([]models.GeneratedImage, error) {
	var images []models.GeneratedImage
	q := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&images).Error
	return images, err
}

// CountByUser counts a user's generated images.
func (r *generationRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.GeneratedImage{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
