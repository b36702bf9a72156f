package database

import (
	"fmt"
	"log"
	"os"

	"yerli-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=yerli port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Category{},
		&models.Subcategory{},
		&models.Business{},
		&models.BusinessService{},
		&models.BusinessMedia{},
		&models.Review{},
		&models.ReviewReply{},
		&models.SubscriptionPlan{},
		&models.BusinessSubscription{},
		&models.RefreshToken{},
		&models.PasswordResetToken{},
	)
}

func CreateDefaultAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@yerli.az"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var existingUser models.User
	result := db.Where("email = ?", adminEmail).First(&existingUser)
	if result.Error == nil {
		// Admin already exists; make sure the role row does too.
		return models.UpsertUserRole(db, existingUser.ID, models.RoleAdmin)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    adminEmail,
		Password: string(hashedPassword),
		FullName: "Yerli Admin",
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	if err := models.UpsertUserRole(db, admin.ID, models.RoleAdmin); err != nil {
		return err
	}

	log.Printf("Default admin created: %s", adminEmail)
	return nil
}

// SeedSubscriptionPlans inserts the built-in plans when the table is empty.
// The same healing happens lazily in the subscription handler; running it at
// startup just makes the common path cheaper.
func SeedSubscriptionPlans(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.SubscriptionPlan{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, plan := range models.DefaultSubscriptionPlans() {
		p := plan
		if err := db.Create(&p).Error; err != nil {
			return fmt.Errorf("failed to seed plan %s: %w", plan.Name, err)
		}
	}

	log.Println("Seeded default subscription plans")
	return nil
}
