package handlers

import (
	"net/http"

	"yerli-backend/models"
	"yerli-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	DB *gorm.DB
}

// GetCategories returns all categories with their subcategories, ordered by
// name for stable menus.
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.DB.Preload("Subcategories").Order("name asc").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategoryBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var category models.Category
	if err := h.DB.Preload("Subcategories").Where("slug = ?", slug).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// GetSubcategories returns all subcategories, optionally narrowed to one
// category via ?category_id=. Service pickers use this without loading the
// whole category tree.
func (h *CategoryHandler) GetSubcategories(c *gin.Context) {
	query := h.DB.Preload("Category").Order("name asc")
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var subcategories []models.Subcategory
	if err := query.Find(&subcategories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subcategories"})
		return
	}

	c.JSON(http.StatusOK, subcategories)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		NameAz      string `json:"name_az"`
		Slug        string `json:"slug" binding:"required"`
		ImageURL    string `json:"image_url"`
		Description string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var existing models.Category
	if err := h.DB.Where("slug = ?", req.Slug).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A category with this slug already exists"})
		return
	}

	category := models.Category{
		Name:        req.Name,
		NameAz:      req.NameAz,
		Slug:        req.Slug,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	}

	if err := h.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id := c.Param("id")

	var category models.Category
	if err := h.DB.Where("id = ?", id).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		NameAz      *string `json:"name_az"`
		Slug        *string `json:"slug"`
		ImageURL    *string `json:"image_url"`
		Description *string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.NameAz != nil {
		category.NameAz = *req.NameAz
	}
	if req.Slug != nil && *req.Slug != category.Slug {
		var existing models.Category
		if err := h.DB.Where("slug = ? AND id != ?", *req.Slug, category.ID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "A category with this slug already exists"})
			return
		}
		category.Slug = *req.Slug
	}
	if req.ImageURL != nil {
		category.ImageURL = *req.ImageURL
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := h.DB.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory refuses to remove a category that still has subcategories so
// businesses never end up pointing at orphaned services.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id := c.Param("id")

	var category models.Category
	if err := h.DB.Where("id = ?", id).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var subCount int64
	h.DB.Model(&models.Subcategory{}).Where("category_id = ?", category.ID).Count(&subCount)
	if subCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Category has subcategories; delete them first"})
		return
	}

	if err := h.DB.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

func (h *CategoryHandler) CreateSubcategory(c *gin.Context) {
	var req struct {
		CategoryID string `json:"category_id" binding:"required,uuid"`
		Name       string `json:"name" binding:"required"`
		NameAz     string `json:"name_az"`
		Slug       string `json:"slug" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var category models.Category
	if err := h.DB.Where("id = ?", req.CategoryID).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var existing models.Subcategory
	if err := h.DB.Where("slug = ?", req.Slug).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A subcategory with this slug already exists"})
		return
	}

	subcategory := models.Subcategory{
		CategoryID: category.ID,
		Name:       req.Name,
		NameAz:     req.NameAz,
		Slug:       req.Slug,
	}

	if err := h.DB.Create(&subcategory).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subcategory"})
		return
	}

	c.JSON(http.StatusCreated, subcategory)
}

func (h *CategoryHandler) UpdateSubcategory(c *gin.Context) {
	id := c.Param("id")

	var subcategory models.Subcategory
	if err := h.DB.Where("id = ?", id).First(&subcategory).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subcategory not found"})
		return
	}

	var req struct {
		Name   *string `json:"name"`
		NameAz *string `json:"name_az"`
		Slug   *string `json:"slug"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.Name != nil {
		subcategory.Name = *req.Name
	}
	if req.NameAz != nil {
		subcategory.NameAz = *req.NameAz
	}
	if req.Slug != nil && *req.Slug != subcategory.Slug {
		var existing models.Subcategory
		if err := h.DB.Where("slug = ? AND id != ?", *req.Slug, subcategory.ID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "A subcategory with this slug already exists"})
			return
		}
		subcategory.Slug = *req.Slug
	}

	if err := h.DB.Save(&subcategory).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subcategory"})
		return
	}

	c.JSON(http.StatusOK, subcategory)
}

func (h *CategoryHandler) DeleteSubcategory(c *gin.Context) {
	id := c.Param("id")

	var subcategory models.Subcategory
	if err := h.DB.Where("id = ?", id).First(&subcategory).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subcategory not found"})
		return
	}

	var linkCount int64
	h.DB.Model(&models.BusinessService{}).Where("subcategory_id = ?", subcategory.ID).Count(&linkCount)
	if linkCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Subcategory is in use by businesses"})
		return
	}

	if err := h.DB.Delete(&subcategory).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subcategory"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subcategory deleted"})
}
