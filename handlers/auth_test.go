package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yerli-backend/models"

	"github.com/google/uuid"
)

func TestRegisterSuccess(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	body := map[string]string{
		"email":     "newuser@test.com",
		"password":  "password123",
		"full_name": "New User",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/register", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["token"] == nil || resp["token"] == "" {
		t.Error("expected token in response")
	}
	user := resp["user"].(map[string]interface{})
	if user["email"] != "newuser@test.com" {
		t.Errorf("expected email newuser@test.com, got %v", user["email"])
	}
	if user["role"] != "customer" {
		t.Errorf("expected role customer, got %v", user["role"])
	}
}

func TestRegisterCreatesRoleRow(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	body := map[string]string{
		"email":    "rolerow@test.com",
		"password": "password123",
		"role":     "business",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/register", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var user models.User
	if err := db.Where("email = ?", "rolerow@test.com").First(&user).Error; err != nil {
		t.Fatalf("user not created: %v", err)
	}

	role, err := models.LookupUserRole(db, user.ID)
	if err != nil {
		t.Fatalf("role lookup failed: %v", err)
	}
	if role != models.RoleBusiness {
		t.Errorf("expected role business, got %q", role)
	}

	var roleCount int64
	db.Model(&models.UserRole{}).Where("user_id = ?", user.ID).Count(&roleCount)
	if roleCount != 1 {
		t.Errorf("expected exactly 1 role row, got %d", roleCount)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	body := map[string]string{
		"email":    "badrole@test.com",
		"password": "password123",
		"role":     "superadmin",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/register", body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	seedTestUser(db, "existing@test.com", "customer")

	body := map[string]string{
		"email":    "existing@test.com",
		"password": "password123",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/register", body))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["error"] != "Email already registered" {
		t.Errorf("expected 'Email already registered', got %v", resp["error"])
	}
}

func TestRegisterValidationShortPassword(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	body := map[string]string{
		"email":    "short@test.com",
		"password": "short",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/register", body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginSuccess(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	seedTestUser(db, "login@test.com", "customer")

	body := map[string]string{
		"email":    "login@test.com",
		"password": "password123",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["token"] == nil || resp["token"] == "" {
		t.Error("expected token in response")
	}
	user := resp["user"].(map[string]interface{})
	if user["role"] != "customer" {
		t.Errorf("expected role customer, got %v", user["role"])
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	seedTestUser(db, "wrongpwd@test.com", "customer")

	body := map[string]string{
		"email":    "wrongpwd@test.com",
		"password": "wrongpassword",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", body))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginBlockedUser(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	user, _ := seedTestUser(db, "blocked@test.com", "customer")
	db.Model(&user).Update("is_blocked", true)

	body := map[string]string{
		"email":    "blocked@test.com",
		"password": "password123",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", body))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginIncludesBusinessSummary(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	owner, _ := seedTestUser(db, "bizlogin@test.com", "business")
	seedBusiness(db, owner.ID, "Usta Kamran", true)

	body := map[string]string{
		"email":    "bizlogin@test.com",
		"password": "password123",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	business, ok := resp["business"].(map[string]interface{})
	if !ok {
		t.Fatal("expected business summary in login response")
	}
	if business["name"] != "Usta Kamran" {
		t.Errorf("expected business name Usta Kamran, got %v", business["name"])
	}
}

func TestGetProfile(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	_, token := seedTestUser(db, "profile@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/profile", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["email"] != "profile@test.com" {
		t.Errorf("expected email profile@test.com, got %v", resp["email"])
	}
	if resp["role"] != "customer" {
		t.Errorf("expected role customer, got %v", resp["role"])
	}
}

func TestGetProfileUnauthorized(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/profile", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateProfile(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	user, token := seedTestUser(db, "update@test.com", "customer")

	body := map[string]string{
		"full_name": "Updated Name",
		"phone":     "+994501234567",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/profile", body, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.User
	db.First(&updated, "id = ?", user.ID)
	if updated.FullName != "Updated Name" {
		t.Errorf("expected full name updated, got %q", updated.FullName)
	}
	if updated.Phone != "+994501234567" {
		t.Errorf("expected phone updated, got %q", updated.Phone)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	_, token := seedTestUser(db, "changepwd@test.com", "customer")

	body := map[string]string{
		"old_password": "not-the-password",
		"new_password": "newpassword123",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/profile/password", body, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	seedTestUser(db, "refresh@test.com", "customer")

	loginBody := map[string]string{
		"email":    "refresh@test.com",
		"password": "password123",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", loginBody))
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d: %s", w.Code, w.Body.String())
	}
	refreshToken := parseResponse(w)["refresh_token"].(string)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/refresh", map[string]string{"refresh_token": refreshToken}))
	if w.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["token"] == nil || resp["refresh_token"] == nil {
		t.Fatal("expected new token pair")
	}

	// The old refresh token is revoked; a second use must fail.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/refresh", map[string]string{"refresh_token": refreshToken}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for reused refresh token, got %d", w.Code)
	}
}

func TestForgotPasswordUnknownEmailStillOK(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	body := map[string]string{"email": "nobody@test.com"}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/forgot-password", body))

	// Always 200 to prevent email enumeration.
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var tokenCount int64
	db.Model(&models.PasswordResetToken{}).Count(&tokenCount)
	if tokenCount != 0 {
		t.Errorf("expected no reset tokens for unknown email, got %d", tokenCount)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	user, _ := seedTestUser(db, "reset@test.com", "customer")

	resetToken := models.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     "test-reset-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	db.Create(&resetToken)

	body := map[string]string{
		"token":    "test-reset-token",
		"password": "brandnewpassword",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/reset-password", body))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	// New password now works, old one does not.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", map[string]string{
		"email":    "reset@test.com",
		"password": "brandnewpassword",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("login with new password failed: %d: %s", w.Code, w.Body.String())
	}

	// The token is single use.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/reset-password", body))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for reused token, got %d", w.Code)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	user, _ := seedTestUser(db, "expired@test.com", "customer")

	resetToken := models.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	db.Create(&resetToken)

	body := map[string]string{
		"token":    "expired-token",
		"password": "whateverpassword",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/reset-password", body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	seedTestUser(db, "logout@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", map[string]string{
		"email":    "logout@test.com",
		"password": "password123",
	}))
	resp := parseResponse(w)
	token := resp["token"].(string)
	refreshToken := resp["refresh_token"].(string)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/auth/logout", map[string]string{"refresh_token": refreshToken}, token))
	if w.Code != http.StatusOK {
		t.Fatalf("logout failed: %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/refresh", map[string]string{"refresh_token": refreshToken}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 after logout, got %d", w.Code)
	}
}
