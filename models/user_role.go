package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	RoleCustomer = "customer"
	RoleBusiness = "business"
	RoleAdmin    = "admin"
)

// UserRole holds a user's role in a dedicated table with one row per user.
// Roles never live on the users table so that promoting a customer to a
// business owner is a single upsert keyed on user_id.
type UserRole struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Role      string    `gorm:"not null;default:customer" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *UserRole) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleBusiness, RoleAdmin:
		return true
	}
	return false
}

// UpsertUserRole creates or updates the single role row for a user.
// The conflict target is user_id, which keeps the at-most-one-row-per-user
// invariant even when signup and business creation race.
func UpsertUserRole(db *gorm.DB, userID uuid.UUID, role string) error {
	row := UserRole{
		ID:     uuid.New(),
		UserID: userID,
		Role:   role,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"role": role, "updated_at": time.Now()}),
	}).Create(&row).Error
}

// LookupUserRole returns the role for a user, or "" when no row exists.
func LookupUserRole(db *gorm.DB, userID uuid.UUID) (string, error) {
	var row UserRole
	err := db.Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return row.Role, nil
}
