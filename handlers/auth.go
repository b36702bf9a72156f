package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"yerli-backend/config"
	"yerli-backend/models"
	"yerli-backend/session"
	"yerli-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB       *gorm.DB
	Sessions *session.Registry
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
		Role     string `json:"role" binding:"omitempty,oneof=customer business"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.Role == "" {
		req.Role = models.RoleCustomer
	}

	var existingUser models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
		Phone:    req.Phone,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// One role row per user; business signups land directly in the business
	// role, everything else starts as customer.
	if err := models.UpsertUserRole(h.DB, user.ID, req.Role); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign role"})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, req.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, user.Email, req.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
		return
	}

	rt := models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	h.DB.Create(&rt)

	if h.Sessions != nil {
		h.Sessions.Establish(user.ID, user.Email)
	}

	utils.SendWelcomeEmail(user.Email, user.FullName)

	c.JSON(http.StatusCreated, gin.H{
		"token":         token,
		"refresh_token": refreshToken,
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
			"phone":     user.Phone,
			"role":      req.Role,
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if user.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your account has been blocked. Please contact support."})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	role, err := models.LookupUserRole(h.DB, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, user.Email, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
		return
	}

	rt := models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	h.DB.Create(&rt)

	if h.Sessions != nil {
		h.Sessions.Establish(user.ID, user.Email)
	}

	response := gin.H{
		"token":         token,
		"refresh_token": refreshToken,
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
			"phone":     user.Phone,
			"role":      role,
		},
	}

	var business models.Business
	if err := h.DB.Where("owner_id = ?", user.ID).First(&business).Error; err == nil {
		response["business"] = gin.H{
			"id":          business.ID,
			"name":        business.Name,
			"is_approved": business.IsApproved,
			"is_active":   business.IsActive,
		}
	}

	c.JSON(http.StatusOK, response)
}

func googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_OAUTH_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_OAUTH_CLIENT_SECRET"),
		RedirectURL:  config.GetEnv("GOOGLE_OAUTH_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

// GoogleLogin starts the redirect-based OAuth flow.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	cfg := googleOAuthConfig()
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google sign-in is not configured"})
		return
	}

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start sign-in"})
		return
	}
	state := hex.EncodeToString(stateBytes)

	c.SetCookie("oauth_state", state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, cfg.AuthCodeURL(state))
}

// GoogleCallback finishes the OAuth flow: exchanges the code, looks up or
// creates the user, and redirects back to the frontend with tokens in the
// fragment.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	cfg := googleOAuthConfig()

	expectedState, err := c.Cookie("oauth_state")
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	oauthToken, err := cfg.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Code exchange failed"})
		return
	}

	resp, err := cfg.Client(c.Request.Context(), oauthToken).Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch profile"})
		return
	}
	defer resp.Body.Close()

	var profile struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil || profile.Email == "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to decode profile"})
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", profile.Email).First(&user).Error; err != nil {
		// First social sign-in creates the account with an unusable password.
		randomPw := make([]byte, 32)
		rand.Read(randomPw)
		hashed, hashErr := bcrypt.GenerateFromPassword(randomPw, bcrypt.DefaultCost)
		if hashErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		user = models.User{
			Email:     profile.Email,
			Password:  string(hashed),
			FullName:  profile.Name,
			AvatarURL: profile.Picture,
		}
		if err := h.DB.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		if err := models.UpsertUserRole(h.DB, user.ID, models.RoleCustomer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign role"})
			return
		}
	}

	if user.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your account has been blocked. Please contact support."})
		return
	}

	role, err := models.LookupUserRole(h.DB, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID, user.Email, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
		return
	}

	h.DB.Create(&models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	})

	if h.Sessions != nil {
		h.Sessions.Establish(user.ID, user.Email)
	}

	frontendURL := config.GetEnv("FRONTEND_URL", "http://localhost:5173")
	c.Redirect(http.StatusTemporaryRedirect,
		frontendURL+"/auth/callback#access_token="+token+"&refresh_token="+refreshToken)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user models.User
	if err := h.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Prefer the registry's resolved role; fall back to a direct lookup when
	// the session predates this process.
	role := ""
	if h.Sessions != nil {
		if s, ok := h.Sessions.Get(user.ID); ok {
			role = s.Role
		}
	}
	if role == "" {
		role, _ = models.LookupUserRole(h.DB, user.ID)
	}

	response := gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"full_name":  user.FullName,
		"phone":      user.Phone,
		"avatar_url": user.AvatarURL,
		"role":       role,
	}

	var business models.Business
	if err := h.DB.Preload("Media").Preload("Services").Where("owner_id = ?", user.ID).First(&business).Error; err == nil {
		response["business"] = business
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		FullName *string `json:"full_name"`
		Phone    *string `json:"phone"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var user models.User
	if err := h.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := h.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
		"phone":     user.Phone,
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var user models.User
	if err := h.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	h.DB.Model(&user).Update("password", string(hashedPassword))
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	// Always return 200 to prevent email enumeration
	successMsg := gin.H{"message": "If an account with that email exists, a password reset link has been sent."}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusOK, successMsg)
		return
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate reset token"})
		return
	}
	token := hex.EncodeToString(tokenBytes)

	resetToken := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	if err := h.DB.Create(&resetToken).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reset token"})
		return
	}

	role, _ := models.LookupUserRole(h.DB, user.ID)
	frontendURL := config.GetEnv("FRONTEND_URL", "http://localhost:5173")
	if role == models.RoleAdmin {
		frontendURL = config.GetEnv("ADMIN_URL", frontendURL)
	}
	utils.SendPasswordResetEmail(user.Email, user.FullName, token, frontendURL)

	c.JSON(http.StatusOK, successMsg)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var resetToken models.PasswordResetToken
	if err := h.DB.Where("token = ? AND used_at IS NULL AND expires_at > ?", req.Token, time.Now()).First(&resetToken).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	h.DB.Model(&resetToken).Update("used_at", &now)
	h.DB.Model(&models.User{}).Where("id = ?", resetToken.UserID).Update("password", string(hashedPassword))

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (h *AuthHandler) RefreshTokenHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var rt models.RefreshToken
	if err := h.DB.Where("token = ? AND revoked_at IS NULL AND expires_at > ?", req.RefreshToken, time.Now()).First(&rt).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	// Rotate: revoke the old token before issuing a replacement.
	now := time.Now()
	h.DB.Model(&rt).Update("revoked_at", &now)

	var user models.User
	if err := h.DB.Where("id = ?", rt.UserID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	if user.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your account has been blocked"})
		return
	}

	role, err := models.LookupUserRole(h.DB, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
		return
	}

	newToken, err := utils.GenerateToken(user.ID, user.Email, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	newRefreshToken, err := utils.GenerateRefreshToken(user.ID, user.Email, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
		return
	}

	h.DB.Create(&models.RefreshToken{
		UserID:    user.ID,
		Token:     newRefreshToken,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	})

	c.JSON(http.StatusOK, gin.H{
		"token":         newToken,
		"refresh_token": newRefreshToken,
	})
}

// Logout revokes the presented refresh token and drops the in-memory session.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	// Body is optional; logout still succeeds without a refresh token.
	_ = c.ShouldBindJSON(&req)

	if req.RefreshToken != "" {
		now := time.Now()
		h.DB.Model(&models.RefreshToken{}).
			Where("token = ? AND revoked_at IS NULL", req.RefreshToken).
			Update("revoked_at", &now)
	}

	if userID, exists := c.Get("user_id"); exists && h.Sessions != nil {
		if uid, ok := userID.(uuid.UUID); ok {
			h.Sessions.Revoke(uid)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
