package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// BusinessMedia is a portfolio item (image or video) on a business profile.
// Uploads are gated by the owner's subscription plan quota.
type BusinessMedia struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BusinessID uuid.UUID      `gorm:"type:uuid;not null;index" json:"business_id"`
	MediaURL   string         `gorm:"not null" json:"media_url"`
	MediaType  string         `gorm:"not null;default:image" json:"media_type"`
	Caption    string         `json:"caption"`
	ServiceTag string         `json:"service_tag"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *BusinessMedia) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
