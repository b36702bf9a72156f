package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

// BusinessSubscription ties a business to a plan for a period. Only one row
// per business may be active; Subscribe cancels the previous one inside the
// same transaction before inserting the replacement.
type BusinessSubscription struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BusinessID uuid.UUID         `gorm:"type:uuid;not null;index" json:"business_id"`
	PlanID     uuid.UUID         `gorm:"type:uuid;not null" json:"plan_id"`
	Plan       *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Status     string            `gorm:"not null;default:active;index" json:"status"`
	StartDate  time.Time         `gorm:"not null" json:"start_date"`
	EndDate    time.Time         `gorm:"not null" json:"end_date"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (s *BusinessSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
