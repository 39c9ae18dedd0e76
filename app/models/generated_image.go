package models

import "time"

// GeneratedImage records one completed virtual try-on result.
type GeneratedImage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	ClothType  string    `gorm:"type:varchar(16);not null" json:"cloth_type"`
	GarmentURL string    `gorm:"type:varchar(512);not null" json:"garment_url"`
	ResultURL  string    `gorm:"type:varchar(512);not null" json:"result_url"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
