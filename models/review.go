package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// ReviewCommentVersion is the current payload version written by Encode.
	ReviewCommentVersion = 1

	CommentKindPlain     = "plain"
	CommentKindAnonymous = "anonymous"
)

// Review is a rating left on a business. UserID is nil for anonymous reviews,
// which instead carry a display name inside the comment payload.
type Review struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BusinessID uuid.UUID      `gorm:"type:uuid;not null;index" json:"business_id"`
	UserID     *uuid.UUID     `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User       *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Rating     int            `gorm:"not null" json:"rating"`
	Comment    datatypes.JSON `json:"comment,omitempty"`
	Replies    []ReviewReply  `gorm:"foreignKey:ReviewID" json:"replies,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReviewComment is the comment payload stored on a review row. It replaces
// the old duck-typed column (either a bare string or an ad-hoc JSON blob)
// with a versioned, discriminated envelope.
type ReviewComment struct {
	Version int      `json:"version"`
	Kind    string   `json:"kind"`
	Text    string   `json:"text"`
	Name    string   `json:"name,omitempty"`
	Images  []string `json:"images,omitempty"`
}

// PlainComment builds the payload for a signed-in reviewer.
func PlainComment(text string) ReviewComment {
	return ReviewComment{Version: ReviewCommentVersion, Kind: CommentKindPlain, Text: text}
}

// AnonymousComment builds the payload for an anonymous reviewer.
func AnonymousComment(name, text string, images []string) ReviewComment {
	return ReviewComment{
		Version: ReviewCommentVersion,
		Kind:    CommentKindAnonymous,
		Text:    text,
		Name:    name,
		Images:  images,
	}
}

// Encode serializes the payload for storage.
func (rc ReviewComment) Encode() (datatypes.JSON, error) {
	if rc.Version == 0 {
		rc.Version = ReviewCommentVersion
	}
	raw, err := json.Marshal(rc)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// DecodeReviewComment parses a stored comment column. Envelopes are decoded
// exhaustively: an unknown version or kind is an error, not a silent
// fallback. Two legacy shapes predate the envelope and decode as plain text:
// a JSON string and raw unencoded text.
func DecodeReviewComment(raw datatypes.JSON) (ReviewComment, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return PlainComment(""), nil
	}

	switch trimmed[0] {
	case '{':
		var rc ReviewComment
		if err := json.Unmarshal(trimmed, &rc); err != nil {
			return ReviewComment{}, fmt.Errorf("malformed comment payload: %w", err)
		}
		if rc.Version != ReviewCommentVersion {
			return ReviewComment{}, fmt.Errorf("unsupported comment payload version %d", rc.Version)
		}
		switch rc.Kind {
		case CommentKindPlain:
			return rc, nil
		case CommentKindAnonymous:
			if rc.Name == "" {
				return ReviewComment{}, fmt.Errorf("anonymous comment payload missing name")
			}
			return rc, nil
		default:
			return ReviewComment{}, fmt.Errorf("unknown comment payload kind %q", rc.Kind)
		}
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return ReviewComment{}, fmt.Errorf("malformed legacy comment: %w", err)
		}
		return PlainComment(text), nil
	default:
		// Pre-envelope rows stored the comment as raw text.
		return PlainComment(string(trimmed)), nil
	}
}
