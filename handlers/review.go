package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"yerli-backend/firebase"
	"yerli-backend/models"
	"yerli-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewHandler struct {
	DB      *gorm.DB
	Storage firebase.StorageClient
}

// maxReviewImages caps attachments on an anonymous review.
const maxReviewImages = 3

// recomputeBusinessRating refreshes the denormalized aggregate columns in one
// statement, so concurrent submissions always converge on the true average.
func recomputeBusinessRating(db *gorm.DB, businessID uuid.UUID) error {
	return db.Exec(`
		UPDATE businesses SET
			total_reviews = (SELECT COUNT(*) FROM reviews WHERE business_id = ? AND deleted_at IS NULL),
			average_rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE business_id = ? AND deleted_at IS NULL), 0)
		WHERE id = ?`,
		businessID, businessID, businessID).Error
}

// GetReviews lists a business's reviews, newest first, with decoded comment
// payloads and owner replies.
func (h *ReviewHandler) GetReviews(c *gin.Context) {
	businessID := c.Param("id")

	var business models.Business
	if err := h.DB.Where("id = ?", businessID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	var reviews []models.Review
	if err := h.DB.Preload("User").Preload("Replies").
		Where("business_id = ?", business.ID).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	out := make([]gin.H, 0, len(reviews))
	for _, review := range reviews {
		comment, err := models.DecodeReviewComment(review.Comment)
		if err != nil {
			log.Printf("Skipping undecodable review comment %s: %v", review.ID, err)
			continue
		}

		item := gin.H{
			"id":         review.ID,
			"rating":     review.Rating,
			"comment":    comment,
			"replies":    review.Replies,
			"created_at": review.CreatedAt,
		}
		if review.User != nil {
			item["author"] = gin.H{"id": review.User.ID, "full_name": review.User.FullName}
		} else if comment.Name != "" {
			item["author"] = gin.H{"full_name": comment.Name}
		}
		out = append(out, item)
	}

	c.JSON(http.StatusOK, out)
}

// CreateReview records a review from a signed-in customer. The rating is
// validated before anything is written.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	businessID := c.Param("id")

	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var business models.Business
	if err := publicBusinesses(h.DB).Where("id = ?", businessID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	if business.OwnerID == userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot review your own business"})
		return
	}

	var existing models.Review
	if err := h.DB.Where("business_id = ? AND user_id = ?", business.ID, userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this business"})
		return
	}

	payload, err := models.PlainComment(req.Comment).Encode()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode comment"})
		return
	}

	review := models.Review{
		BusinessID: business.ID,
		UserID:     &userID,
		Rating:     req.Rating,
		Comment:    payload,
	}

	if err := h.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	if err := recomputeBusinessRating(h.DB, business.ID); err != nil {
		log.Printf("Failed to recompute rating for business %s: %v", business.ID, err)
	}

	c.JSON(http.StatusCreated, review)
}

// CreateAnonymousReview accepts a multipart submission from a visitor without
// an account: a rating, a display name, optional text and up to three images.
// Rating and name are validated before any upload or insert happens; a failed
// image upload is logged and skipped rather than failing the review.
func (h *ReviewHandler) CreateAnonymousReview(c *gin.Context) {
	businessID := c.Param("id")

	rating, err := strconv.Atoi(c.PostForm("rating"))
	if err != nil || rating < 1 || rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	var business models.Business
	if err := publicBusinesses(h.DB).Where("id = ?", businessID).First(&business).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
		return
	}

	files := form.File["images"]
	if len(files) > maxReviewImages {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At most 3 images are allowed"})
		return
	}

	imageURLs := make([]string, 0, len(files))
	for _, fileHeader := range files {
		if err := utils.ValidateImageUpload(fileHeader); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			log.Printf("Skipping review image %s: %v", fileHeader.Filename, err)
			continue
		}

		url, err := h.Storage.UploadReviewImage(file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
		file.Close()
		if err != nil {
			// The review is still worth keeping without this attachment.
			log.Printf("Review image upload failed for %s: %v", fileHeader.Filename, err)
			continue
		}
		imageURLs = append(imageURLs, url)
	}

	payload, err := models.AnonymousComment(name, c.PostForm("comment"), imageURLs).Encode()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode comment"})
		return
	}

	review := models.Review{
		BusinessID: business.ID,
		Rating:     rating,
		Comment:    payload,
	}

	if err := h.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	if err := recomputeBusinessRating(h.DB, business.ID); err != nil {
		log.Printf("Failed to recompute rating for business %s: %v", business.ID, err)
	}

	c.JSON(http.StatusCreated, review)
}

// ReplyToReview lets the business owner answer a review on their own profile.
func (h *ReviewHandler) ReplyToReview(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	reviewID := c.Param("id")

	var req struct {
		ReplyText string `json:"reply_text" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var review models.Review
	if err := h.DB.Where("id = ?", reviewID).First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	var business models.Business
	if err := h.DB.Where("id = ? AND owner_id = ?", review.BusinessID, userID).First(&business).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only reply to reviews on your own business"})
		return
	}

	reply := models.ReviewReply{
		ReviewID:   review.ID,
		BusinessID: business.ID,
		ReplyText:  req.ReplyText,
	}

	if err := h.DB.Create(&reply).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reply"})
		return
	}

	c.JSON(http.StatusCreated, reply)
}
