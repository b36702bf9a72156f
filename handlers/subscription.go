package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"yerli-backend/models"
	"yerli-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionHandler struct {
	DB *gorm.DB
}

// GetPlans lists active plans ordered by price. When the table is empty or
// the query fails, the built-in defaults are returned so the pricing page
// always renders, and the missing rows are seeded best-effort.
func (h *SubscriptionHandler) GetPlans(c *gin.Context) {
	var plans []models.SubscriptionPlan
	err := h.DB.Where("is_active = ?", true).Order("price asc").Find(&plans).Error
	if err != nil || len(plans) == 0 {
		if err != nil {
			log.Printf("Failed to fetch subscription plans, serving defaults: %v", err)
		}
		defaults := models.DefaultSubscriptionPlans()
		for _, plan := range defaults {
			p := plan
			if seedErr := h.DB.Create(&p).Error; seedErr != nil {
				log.Printf("Failed to seed plan %s: %v", plan.Name, seedErr)
			}
		}
		c.JSON(http.StatusOK, defaults)
		return
	}

	c.JSON(http.StatusOK, plans)
}

// isForeignKeyViolation matches FK errors across postgres and sqlite; the
// drivers disagree on error types, so fall back to message sniffing.
func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key")
}

// Subscribe switches the owner's business onto a plan. The previous active
// subscription is cancelled and the new row inserted inside one transaction,
// so exactly one active subscription exists at any moment. When the plan row
// is missing (a database seeded lazily from client-side defaults), the
// default plan is inserted and the subscription retried once.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req struct {
		PlanID string `json:"plan_id" binding:"required,uuid"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	planID := uuid.MustParse(req.PlanID)

	var business models.Business
	if err := h.DB.Where("owner_id = ?", userID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	subscription, err := h.subscribe(business.ID, planID)
	if err != nil && (errors.Is(err, gorm.ErrRecordNotFound) || isForeignKeyViolation(err)) {
		// The plan row can be missing on databases that were never seeded.
		// Heal it from the built-in defaults once, then retry.
		if healErr := h.insertDefaultPlan(planID); healErr != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscription plan not found"})
			return
		}
		subscription, err = h.subscribe(business.ID, planID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscription plan not found"})
			return
		}
		log.Printf("Subscribe failed for business %s: %v", business.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}

	c.JSON(http.StatusCreated, subscription)
}

func (h *SubscriptionHandler) subscribe(businessID, planID uuid.UUID) (*models.BusinessSubscription, error) {
	var subscription models.BusinessSubscription

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var plan models.SubscriptionPlan
		if err := tx.Where("id = ? AND is_active = ?", planID, true).First(&plan).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.BusinessSubscription{}).
			Where("business_id = ? AND status = ?", businessID, models.SubscriptionStatusActive).
			Update("status", models.SubscriptionStatusCancelled).Error; err != nil {
			return err
		}

		start := time.Now()
		subscription = models.BusinessSubscription{
			BusinessID: businessID,
			PlanID:     plan.ID,
			Status:     models.SubscriptionStatusActive,
			StartDate:  start,
			EndDate:    start.AddDate(0, plan.DurationMonths, 0),
		}
		if err := tx.Create(&subscription).Error; err != nil {
			return err
		}

		subscription.Plan = &plan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// insertDefaultPlan inserts the built-in plan with the given id, when one
// exists.
func (h *SubscriptionHandler) insertDefaultPlan(planID uuid.UUID) error {
	for _, plan := range models.DefaultSubscriptionPlans() {
		if plan.ID == planID {
			p := plan
			return h.DB.Create(&p).Error
		}
	}
	return gorm.ErrRecordNotFound
}

// GetSubscription returns the business's current active subscription.
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var business models.Business
	if err := h.DB.Where("owner_id = ?", userID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	var subscription models.BusinessSubscription
	err := h.DB.Preload("Plan").
		Where("business_id = ? AND status = ?", business.ID, models.SubscriptionStatusActive).
		Order("created_at desc").
		First(&subscription).Error
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"subscription": nil})
		return
	}

	if subscription.EndDate.Before(time.Now()) {
		// Lazily expire on read; the reconciler also sweeps these.
		h.DB.Model(&subscription).Update("status", models.SubscriptionStatusExpired)
		c.JSON(http.StatusOK, gin.H{"subscription": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": subscription})
}

// CancelSubscription ends the active subscription immediately.
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var business models.Business
	if err := h.DB.Where("owner_id = ?", userID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	result := h.DB.Model(&models.BusinessSubscription{}).
		Where("business_id = ? AND status = ?", business.ID, models.SubscriptionStatusActive).
		Update("status", models.SubscriptionStatusCancelled)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel subscription"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription cancelled"})
}

// StartSubscriptionReconciler sweeps expired subscriptions on an interval
// until the context is cancelled. Expiry is a status flip; quota checks treat
// businesses without an active row as the starter tier.
func StartSubscriptionReconciler(db *gorm.DB, interval time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				result := db.Model(&models.BusinessSubscription{}).
					Where("status = ? AND end_date < ?", models.SubscriptionStatusActive, time.Now()).
					Update("status", models.SubscriptionStatusExpired)
				if result.Error != nil {
					log.Printf("Subscription reconciler sweep failed: %v", result.Error)
				} else if result.RowsAffected > 0 {
					log.Printf("Subscription reconciler expired %d subscriptions", result.RowsAffected)
				}
			}
		}
	}()
}
