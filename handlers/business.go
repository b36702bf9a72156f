package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"yerli-backend/firebase"
	"yerli-backend/models"
	"yerli-backend/session"
	"yerli-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessHandler struct {
	DB       *gorm.DB
	Storage  firebase.StorageClient
	Sessions *session.Registry
}

// publicBusinesses scopes a query to listings visible to anonymous visitors.
func publicBusinesses(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ? AND is_approved = ?", true, true)
}

// GetBusinesses lists approved, active businesses ordered by rating. Supports
// filtering by city, subcategory slug and a name/description search term.
func (h *BusinessHandler) GetBusinesses(c *gin.Context) {
	query := publicBusinesses(h.DB.Model(&models.Business{})).
		Preload("Media").
		Preload("Services.Subcategory")

	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}

	if subcategorySlug := c.Query("subcategory"); subcategorySlug != "" {
		query = query.
			Joins("JOIN business_services ON business_services.business_id = businesses.id").
			Joins("JOIN subcategories ON subcategories.id = business_services.subcategory_id").
			Where("subcategories.slug = ?", subcategorySlug)
	}

	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("businesses.name LIKE ? OR businesses.description LIKE ?", like, like)
	}

	limit := 20
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	offset := 0
	if o, err := strconv.Atoi(c.Query("offset")); err == nil && o > 0 {
		offset = o
	}

	var businesses []models.Business
	if err := query.Order("average_rating desc, total_reviews desc").
		Limit(limit).Offset(offset).
		Find(&businesses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch businesses"})
		return
	}

	c.JSON(http.StatusOK, businesses)
}

// GetBusiness returns one public profile and counts the visit. The view
// counter is bumped with a single column-level expression so concurrent
// visitors never lose increments.
func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	id := c.Param("id")

	var business models.Business
	if err := publicBusinesses(h.DB).
		Preload("Media").
		Preload("Services.Subcategory").
		Where("id = ?", id).
		First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	if err := h.DB.Model(&business).
		UpdateColumn("total_views", gorm.Expr("total_views + ?", 1)).Error; err != nil {
		log.Printf("Failed to increment views for business %s: %v", business.ID, err)
	}
	business.TotalViews++

	c.JSON(http.StatusOK, business)
}

// CreateBusiness opens a provider profile for the signed-in user and promotes
// them to the business role. The profile starts unapproved and inactive, so
// it stays off the public listing until an admin reviews it.
func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		Phone       string   `json:"phone"`
		Whatsapp    string   `json:"whatsapp"`
		Instagram   string   `json:"instagram"`
		Address     string   `json:"address"`
		City        string   `json:"city"`
		MinPrice    *float64 `json:"min_price"`
		MaxPrice    *float64 `json:"max_price"`
		PriceNote   string   `json:"price_note"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_price cannot exceed max_price"})
		return
	}

	var existing models.Business
	if err := h.DB.Where("owner_id = ?", userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have a business profile"})
		return
	}

	business := models.Business{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		Phone:       req.Phone,
		Whatsapp:    req.Whatsapp,
		Instagram:   req.Instagram,
		Address:     req.Address,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		PriceNote:   req.PriceNote,
	}
	if req.City != "" {
		business.City = req.City
	}

	if err := h.DB.Create(&business).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create business"})
		return
	}

	// Opening a profile promotes the owner to the business role.
	if err := models.UpsertUserRole(h.DB, userID, models.RoleBusiness); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}
	if h.Sessions != nil {
		h.Sessions.Refresh(userID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"business": business,
		"message":  "Business created. It will appear publicly once approved.",
	})
}

func (h *BusinessHandler) GetMyBusiness(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var business models.Business
	if err := h.DB.Preload("Media").Preload("Services.Subcategory").
		Where("owner_id = ?", userID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	c.JSON(http.StatusOK, business)
}

func (h *BusinessHandler) UpdateMyBusiness(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var business models.Business
	if err := h.DB.Where("owner_id = ?", userID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Phone       *string  `json:"phone"`
		Whatsapp    *string  `json:"whatsapp"`
		Instagram   *string  `json:"instagram"`
		Address     *string  `json:"address"`
		City        *string  `json:"city"`
		MinPrice    *float64 `json:"min_price"`
		MaxPrice    *float64 `json:"max_price"`
		PriceNote   *string  `json:"price_note"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.Name != nil {
		business.Name = *req.Name
	}
	if req.Description != nil {
		business.Description = *req.Description
	}
	if req.Phone != nil {
		business.Phone = *req.Phone
	}
	if req.Whatsapp != nil {
		business.Whatsapp = *req.Whatsapp
	}
	if req.Instagram != nil {
		business.Instagram = *req.Instagram
	}
	if req.Address != nil {
		business.Address = *req.Address
	}
	if req.City != nil {
		business.City = *req.City
	}
	if req.MinPrice != nil {
		business.MinPrice = req.MinPrice
	}
	if req.MaxPrice != nil {
		business.MaxPrice = req.MaxPrice
	}
	if req.PriceNote != nil {
		business.PriceNote = *req.PriceNote
	}

	if business.MinPrice != nil && business.MaxPrice != nil && *business.MinPrice > *business.MaxPrice {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_price cannot exceed max_price"})
		return
	}

	if err := h.DB.Save(&business).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update business"})
		return
	}

	c.JSON(http.StatusOK, business)
}

func (h *BusinessHandler) UploadLogo(c *gin.Context) {
	h.uploadProfileImage(c, "logo")
}

func (h *BusinessHandler) UploadCover(c *gin.Context) {
	h.uploadProfileImage(c, "cover")
}

func (h *BusinessHandler) uploadProfileImage(c *gin.Context, kind string) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var business models.Business
	if err := h.DB.Where("owner_id = ?", userID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	if err := utils.ValidateImageUpload(fileHeader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	var url string
	var column string
	if kind == "logo" {
		url, err = h.Storage.UploadBusinessLogo(file, fileHeader.Filename, contentType)
		column = "logo_url"
	} else {
		url, err = h.Storage.UploadBusinessCover(file, fileHeader.Filename, contentType)
		column = "cover_image_url"
	}
	if err != nil {
		log.Printf("Upload failed for business %s: %v", business.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	if err := h.DB.Model(&business).UpdateColumn(column, url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// activePlanName returns the display name of the business's active
// subscription plan, or "" when it has none.
func (h *BusinessHandler) activePlanName(businessID uuid.UUID) string {
	var sub models.BusinessSubscription
	err := h.DB.Preload("Plan").
		Where("business_id = ? AND status = ? AND end_date > ?",
			businessID, models.SubscriptionStatusActive, time.Now()).
		First(&sub).Error
	if err != nil || sub.Plan == nil {
		return ""
	}
	return sub.Plan.Name
}

// UploadMedia adds a portfolio item, enforcing the plan quota before any
// bytes leave the server.
func (h *BusinessHandler) UploadMedia(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var business models.Business
	if err := h.DB.Where("owner_id = ?", userID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	mediaType := c.DefaultPostForm("media_type", models.MediaTypeImage)
	if mediaType != models.MediaTypeImage && mediaType != models.MediaTypeVideo {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media_type must be image or video"})
		return
	}

	var currentCount int64
	h.DB.Model(&models.BusinessMedia{}).
		Where("business_id = ? AND media_type = ?", business.ID, mediaType).
		Count(&currentCount)

	planName := h.activePlanName(business.ID)
	if !models.CheckMediaLimit(planName, int(currentCount), mediaType) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your subscription plan does not allow more uploads of this type"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	if err := utils.ValidateMediaUpload(fileHeader, mediaType); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	url, err := h.Storage.UploadBusinessMedia(file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("Media upload failed for business %s: %v", business.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	media := models.BusinessMedia{
		BusinessID: business.ID,
		MediaURL:   url,
		MediaType:  mediaType,
		Caption:    c.PostForm("caption"),
		ServiceTag: c.PostForm("service_tag"),
	}

	if err := h.DB.Create(&media).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save media"})
		return
	}

	c.JSON(http.StatusCreated, media)
}

// DeleteMedia removes a portfolio item. The storage object is deleted on a
// best-effort basis; a dangling object is preferable to a dangling row.
func (h *BusinessHandler) DeleteMedia(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	mediaID := c.Param("id")

	var business models.Business
	if err := h.DB.Where("owner_id = ?", userID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	var media models.BusinessMedia
	if err := h.DB.Where("id = ? AND business_id = ?", mediaID, business.ID).First(&media).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Media not found"})
		return
	}

	if err := h.DB.Delete(&media).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete media"})
		return
	}

	if objectPath := firebase.ObjectPathFromPublicURL(media.MediaURL); objectPath != "" {
		if err := h.Storage.DeleteFile(objectPath); err != nil {
			log.Printf("Failed to delete storage object %s: %v", objectPath, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Media deleted"})
}

// UpdateServices replaces the set of subcategories the business serves.
func (h *BusinessHandler) UpdateServices(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var business models.Business
	if err := h.DB.Where("owner_id = ?", userID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	var req struct {
		SubcategoryIDs []string `json:"subcategory_ids" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	subcategoryIDs := make([]uuid.UUID, 0, len(req.SubcategoryIDs))
	for _, raw := range req.SubcategoryIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subcategory id: " + raw})
			return
		}
		subcategoryIDs = append(subcategoryIDs, id)
	}

	if len(subcategoryIDs) > 0 {
		var count int64
		h.DB.Model(&models.Subcategory{}).Where("id IN ?", subcategoryIDs).Count(&count)
		if count != int64(len(subcategoryIDs)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "One or more subcategories do not exist"})
			return
		}
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ?", business.ID).Delete(&models.BusinessService{}).Error; err != nil {
			return err
		}
		for _, subID := range subcategoryIDs {
			svc := models.BusinessService{BusinessID: business.ID, SubcategoryID: subID}
			if err := tx.Create(&svc).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update services"})
		return
	}

	var services []models.BusinessService
	h.DB.Preload("Subcategory").Where("business_id = ?", business.ID).Find(&services)

	c.JSON(http.StatusOK, services)
}

// GetDashboard summarizes the owner's profile performance.
func (h *BusinessHandler) GetDashboard(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var business models.Business
	if err := h.DB.Where("owner_id = ?", userID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	var mediaCount int64
	h.DB.Model(&models.BusinessMedia{}).Where("business_id = ?", business.ID).Count(&mediaCount)

	var recentReviews []models.Review
	h.DB.Where("business_id = ?", business.ID).
		Order("created_at desc").Limit(5).Find(&recentReviews)

	reviews := make([]gin.H, 0, len(recentReviews))
	for _, review := range recentReviews {
		comment, err := models.DecodeReviewComment(review.Comment)
		if err != nil {
			log.Printf("Skipping undecodable review comment %s: %v", review.ID, err)
			continue
		}
		reviews = append(reviews, gin.H{
			"id":         review.ID,
			"rating":     review.Rating,
			"comment":    comment,
			"created_at": review.CreatedAt,
		})
	}

	planName := h.activePlanName(business.ID)

	c.JSON(http.StatusOK, gin.H{
		"business_id":    business.ID,
		"is_approved":    business.IsApproved,
		"is_active":      business.IsActive,
		"total_views":    business.TotalViews,
		"total_reviews":  business.TotalReviews,
		"average_rating": business.AverageRating,
		"media_count":    mediaCount,
		"plan":           planName,
		"recent_reviews": reviews,
	})
}
