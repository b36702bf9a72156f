package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewReply is a business owner's public answer to a review.
type ReviewReply struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ReviewID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"review_id"`
	BusinessID uuid.UUID      `gorm:"type:uuid;not null;index" json:"business_id"`
	ReplyText  string         `gorm:"type:text;not null" json:"reply_text"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *ReviewReply) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
