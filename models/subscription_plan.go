package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan names double as entitlement keys for media quotas. The names are
// display strings, so keep them in sync with DefaultSubscriptionPlans.
const (
	PlanStarter      = "Başlanğıc"
	PlanProfessional = "Professional"
	PlanPremium      = "Premium"
)

// starterImageLimit is the image quota for the free tier and for businesses
// with no subscription at all.
const starterImageLimit = 5

type SubscriptionPlan struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Price          float64        `gorm:"not null;default:0" json:"price"`
	DurationMonths int            `gorm:"not null;default:1" json:"duration_months"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *SubscriptionPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DefaultSubscriptionPlans returns the built-in plan set. The IDs are fixed
// so that a lazily seeded database matches rows referenced by clients that
// fell back to these defaults.
func DefaultSubscriptionPlans() []SubscriptionPlan {
	return []SubscriptionPlan{
		{
			ID:             uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			Name:           PlanStarter,
			Price:          0,
			DurationMonths: 12,
			IsActive:       true,
		},
		{
			ID:             uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			Name:           PlanProfessional,
			Price:          29,
			DurationMonths: 1,
			IsActive:       true,
		},
		{
			ID:             uuid.MustParse("33333333-3333-3333-3333-333333333333"),
			Name:           PlanPremium,
			Price:          49,
			DurationMonths: 1,
			IsActive:       true,
		},
	}
}

// CheckMediaLimit reports whether a business on the named plan may add one
// more media item of the given type when it already has currentCount of
// them. An empty planName means no active subscription, which gets the
// starter quota. Unknown plan names allow nothing.
func CheckMediaLimit(planName string, currentCount int, mediaType string) bool {
	switch planName {
	case "":
		return mediaType == MediaTypeImage && currentCount < starterImageLimit
	case PlanStarter:
		return mediaType == MediaTypeImage && currentCount < starterImageLimit
	case PlanProfessional:
		return mediaType == MediaTypeImage
	case PlanPremium:
		return mediaType == MediaTypeImage || mediaType == MediaTypeVideo
	}
	return false
}
