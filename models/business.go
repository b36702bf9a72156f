package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Business is a provider profile. Newly created businesses are invisible to
// the public listing until an admin approves them: is_approved and is_active
// must both hold.
type Business struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID       uuid.UUID         `gorm:"type:uuid;uniqueIndex;not null" json:"owner_id"`
	Owner         *User             `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name          string            `gorm:"not null" json:"name"`
	Description   string            `gorm:"type:text" json:"description"`
	LogoURL       string            `json:"logo_url"`
	CoverImageURL string            `json:"cover_image_url"`
	Phone         string            `json:"phone"`
	Whatsapp      string            `json:"whatsapp"`
	Instagram     string            `json:"instagram"`
	Address       string            `json:"address"`
	City          string            `gorm:"default:Bakı" json:"city"`
	MinPrice      *float64          `json:"min_price"`
	MaxPrice      *float64          `json:"max_price"`
	PriceNote     string            `json:"price_note"`
	IsActive      bool              `gorm:"default:false" json:"is_active"`
	IsApproved    bool              `gorm:"default:false" json:"is_approved"`
	AverageRating float64           `gorm:"default:0" json:"average_rating"`
	TotalReviews  int               `gorm:"default:0" json:"total_reviews"`
	TotalViews    int               `gorm:"default:0" json:"total_views"`
	Media         []BusinessMedia   `gorm:"foreignKey:BusinessID" json:"media,omitempty"`
	Services      []BusinessService `gorm:"foreignKey:BusinessID" json:"services,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BusinessService links a business to a subcategory it serves.
type BusinessService struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BusinessID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_business_subcategory" json:"business_id"`
	SubcategoryID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_business_subcategory" json:"subcategory_id"`
	Subcategory   *Subcategory `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (s *BusinessService) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
