package handlers

import (
	"net/http"

	"yerli-backend/models"
	"yerli-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct {
	DB *gorm.DB
}

// GetPendingBusinesses lists profiles awaiting approval, oldest first so the
// queue is worked in order.
func (h *AdminHandler) GetPendingBusinesses(c *gin.Context) {
	var businesses []models.Business
	query := h.DB.Preload("Owner").Preload("Services.Subcategory").
		Where("is_approved = ?", false)

	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("name LIKE ?", like)
	}

	if err := query.Order("created_at asc").Find(&businesses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch businesses"})
		return
	}

	c.JSON(http.StatusOK, businesses)
}

func (h *AdminHandler) GetApprovedBusinesses(c *gin.Context) {
	var businesses []models.Business
	query := h.DB.Preload("Owner").Where("is_approved = ?", true)

	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("name LIKE ?", like)
	}

	if err := query.Order("created_at desc").Find(&businesses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch businesses"})
		return
	}

	c.JSON(http.StatusOK, businesses)
}

// ApproveBusiness makes a profile publicly visible and notifies the owner.
func (h *AdminHandler) ApproveBusiness(c *gin.Context) {
	id := c.Param("id")

	var business models.Business
	if err := h.DB.Preload("Owner").Where("id = ?", id).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	if err := h.DB.Model(&business).Updates(map[string]interface{}{
		"is_approved": true,
		"is_active":   true,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve business"})
		return
	}

	if business.Owner != nil {
		utils.SendBusinessApprovedEmail(business.Owner.Email, business.Owner.FullName, business.Name)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Business approved"})
}

// RejectBusiness declines a pending profile and notifies the owner with the
// given reason. The row is kept so the owner can edit and resubmit.
func (h *AdminHandler) RejectBusiness(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	var business models.Business
	if err := h.DB.Preload("Owner").Where("id = ?", id).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	if err := h.DB.Model(&business).Updates(map[string]interface{}{
		"is_approved": false,
		"is_active":   false,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject business"})
		return
	}

	if business.Owner != nil {
		utils.SendBusinessRejectedEmail(business.Owner.Email, business.Owner.FullName, business.Name, req.Reason)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Business rejected"})
}

// ToggleBusinessActive flips visibility of an approved business without
// touching its approval state.
func (h *AdminHandler) ToggleBusinessActive(c *gin.Context) {
	id := c.Param("id")

	var business models.Business
	if err := h.DB.Where("id = ?", id).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	if err := h.DB.Model(&business).Update("is_active", !business.IsActive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update business"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_active": !business.IsActive})
}

// ListUsers returns all users with their roles joined in.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var users []models.User
	query := h.DB.Model(&models.User{})

	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("email LIKE ? OR full_name LIKE ?", like, like)
	}

	if err := query.Order("created_at desc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	var roles []models.UserRole
	h.DB.Find(&roles)
	roleByUser := make(map[string]string, len(roles))
	for _, r := range roles {
		roleByUser[r.UserID.String()] = r.Role
	}

	out := make([]gin.H, 0, len(users))
	for _, user := range users {
		out = append(out, gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"full_name":  user.FullName,
			"phone":      user.Phone,
			"is_blocked": user.IsBlocked,
			"role":       roleByUser[user.ID.String()],
			"created_at": user.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, out)
}

// BlockUser toggles the blocked flag on a user account.
func (h *AdminHandler) BlockUser(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Blocked *bool `json:"blocked" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var user models.User
	if err := h.DB.Where("id = ?", id).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	role, _ := models.LookupUserRole(h.DB, user.ID)
	if role == models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot block an admin"})
		return
	}

	if err := h.DB.Model(&user).Update("is_blocked", *req.Blocked).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_blocked": *req.Blocked})
}

// GetStats summarizes platform totals for the admin dashboard.
func (h *AdminHandler) GetStats(c *gin.Context) {
	var totalUsers, totalBusinesses, pendingBusinesses, totalReviews int64

	h.DB.Model(&models.User{}).Count(&totalUsers)
	h.DB.Model(&models.Business{}).Count(&totalBusinesses)
	h.DB.Model(&models.Business{}).Where("is_approved = ?", false).Count(&pendingBusinesses)
	h.DB.Model(&models.Review{}).Count(&totalReviews)

	var activeSubscriptions int64
	h.DB.Model(&models.BusinessSubscription{}).
		Where("status = ?", models.SubscriptionStatusActive).
		Count(&activeSubscriptions)

	c.JSON(http.StatusOK, gin.H{
		"total_users":          totalUsers,
		"total_businesses":     totalBusinesses,
		"pending_businesses":   pendingBusinesses,
		"total_reviews":        totalReviews,
		"active_subscriptions": activeSubscriptions,
	})
}
