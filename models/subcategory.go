package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subcategory is a concrete service type under a category, e.g. "Santexnik"
// under "Ev təmiri". Businesses attach themselves to subcategories.
type Subcategory struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CategoryID uuid.UUID      `gorm:"type:uuid;not null;index" json:"category_id"`
	Category   *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name       string         `gorm:"not null" json:"name"`
	NameAz     string         `gorm:"not null;index" json:"name_az"`
	Slug       string         `gorm:"uniqueIndex;not null" json:"slug"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Subcategory) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
