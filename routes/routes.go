package routes

import (
	"net/http"
	"time"

	"yerli-backend/firebase"
	"yerli-backend/handlers"
	"yerli-backend/middleware"
	"yerli-backend/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, storage firebase.StorageClient, sessions *session.Registry) {
	authHandler := &handlers.AuthHandler{DB: db, Sessions: sessions}
	categoryHandler := &handlers.CategoryHandler{DB: db}
	businessHandler := &handlers.BusinessHandler{DB: db, Storage: storage, Sessions: sessions}
	reviewHandler := &handlers.ReviewHandler{DB: db, Storage: storage}
	subscriptionHandler := &handlers.SubscriptionHandler{DB: db}
	adminHandler := &handlers.AdminHandler{DB: db}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Brute-force protection on credential endpoints.
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authLimiter.Middleware(), authHandler.Register)
		auth.POST("/login", authLimiter.Middleware(), authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshTokenHandler)
		auth.POST("/forgot-password", authLimiter.Middleware(), authHandler.ForgotPassword)
		auth.POST("/reset-password", authLimiter.Middleware(), authHandler.ResetPassword)
		auth.GET("/google", authHandler.GoogleLogin)
		auth.GET("/google/callback", authHandler.GoogleCallback)
	}

	// Public catalog and discovery.
	api.GET("/categories", categoryHandler.GetCategories)
	api.GET("/categories/:slug", categoryHandler.GetCategoryBySlug)
	api.GET("/subcategories", categoryHandler.GetSubcategories)
	api.GET("/businesses", businessHandler.GetBusinesses)
	api.GET("/businesses/:id", businessHandler.GetBusiness)
	api.GET("/businesses/:id/reviews", middleware.OptionalAuthMiddleware(), reviewHandler.GetReviews)
	api.GET("/plans", subscriptionHandler.GetPlans)

	// Anonymous reviews are public but rate limited.
	reviewLimiter := middleware.NewRateLimiter(5, time.Minute)
	api.POST("/businesses/:id/reviews/anonymous", reviewLimiter.Middleware(), middleware.OptionalAuthMiddleware(), reviewHandler.CreateAnonymousReview)

	// Signed-in users.
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/profile", authHandler.GetProfile)
		protected.PUT("/profile", authHandler.UpdateProfile)
		protected.PUT("/profile/password", authHandler.ChangePassword)

		protected.POST("/businesses", businessHandler.CreateBusiness)
		protected.POST("/businesses/:id/reviews", reviewHandler.CreateReview)
	}

	// Business owners.
	business := api.Group("/business")
	business.Use(middleware.AuthMiddleware(), middleware.BusinessMiddleware())
	{
		business.GET("/me", businessHandler.GetMyBusiness)
		business.PUT("/me", businessHandler.UpdateMyBusiness)
		business.POST("/me/logo", businessHandler.UploadLogo)
		business.POST("/me/cover", businessHandler.UploadCover)
		business.POST("/me/media", businessHandler.UploadMedia)
		business.DELETE("/me/media/:id", businessHandler.DeleteMedia)
		business.PUT("/me/services", businessHandler.UpdateServices)
		business.GET("/me/dashboard", businessHandler.GetDashboard)
		business.POST("/reviews/:id/reply", reviewHandler.ReplyToReview)

		business.GET("/me/subscription", subscriptionHandler.GetSubscription)
		business.POST("/me/subscription", subscriptionHandler.Subscribe)
		business.DELETE("/me/subscription", subscriptionHandler.CancelSubscription)
	}

	// Admin panel.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/businesses/pending", adminHandler.GetPendingBusinesses)
		admin.GET("/businesses/approved", adminHandler.GetApprovedBusinesses)
		admin.PUT("/businesses/:id/approve", adminHandler.ApproveBusiness)
		admin.PUT("/businesses/:id/reject", adminHandler.RejectBusiness)
		admin.PUT("/businesses/:id/toggle-active", adminHandler.ToggleBusinessActive)
		admin.GET("/users", adminHandler.ListUsers)
		admin.PUT("/users/:id/block", adminHandler.BlockUser)
		admin.GET("/stats", adminHandler.GetStats)

		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)
		admin.POST("/subcategories", categoryHandler.CreateSubcategory)
		admin.PUT("/subcategories/:id", categoryHandler.UpdateSubcategory)
		admin.DELETE("/subcategories/:id", categoryHandler.DeleteSubcategory)
	}
}
