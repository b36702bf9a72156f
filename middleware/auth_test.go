package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"yerli-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")
}

func setupTestRouter() *gin.Engine {
	r := gin.New()

	// Protected endpoint for testing AuthMiddleware
	protected := r.Group("/api")
	protected.Use(AuthMiddleware())
	protected.GET("/test", func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		role, _ := c.Get("user_role")
		c.JSON(http.StatusOK, gin.H{
			"user_id": userID,
			"role":    role,
		})
	})

	// Optional-auth endpoint: anonymous and signed-in callers both pass.
	optional := r.Group("/api/optional")
	optional.Use(OptionalAuthMiddleware())
	optional.GET("/test", func(c *gin.Context) {
		userID, authenticated := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{
			"user_id":       userID,
			"authenticated": authenticated,
		})
	})

	// Admin endpoint for testing AdminMiddleware
	admin := r.Group("/api/admin")
	admin.Use(AuthMiddleware())
	admin.Use(AdminMiddleware())
	admin.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "admin access granted"})
	})

	// Business endpoint for testing BusinessMiddleware
	business := r.Group("/api/business")
	business.Use(AuthMiddleware())
	business.Use(BusinessMiddleware())
	business.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "business access granted"})
	})

	return r
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	router := setupTestRouter()

	userID := uuid.New()
	token, err := utils.GenerateToken(userID, "test@test.com", "customer")
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := setupTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/test", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareMalformedToken(t *testing.T) {
	router := setupTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set("Authorization", "Bearer not-a-valid-token")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	router := setupTestRouter()

	// Create an expired token manually
	secret := os.Getenv("JWT_SECRET")
	claims := utils.Claims{
		UserID: uuid.New(),
		Email:  "expired@test.com",
		Role:   "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			Issuer:    "yerli-backend",
		},
	}
	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, _ := tokenObj.SignedString([]byte(secret))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set("Authorization", "Bearer "+expiredToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareInvalidFormatNoBearer(t *testing.T) {
	router := setupTestRouter()

	token, _ := utils.GenerateToken(uuid.New(), "test@test.com", "customer")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/test", nil)
	// Missing "Bearer " prefix
	req.Header.Set("Authorization", token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	router := setupTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/optional/test", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestOptionalAuthResolvesToken(t *testing.T) {
	router := setupTestRouter()

	token, _ := utils.GenerateToken(uuid.New(), "opt@test.com", "customer")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/optional/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestOptionalAuthIgnoresBadToken(t *testing.T) {
	router := setupTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/optional/test", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(w, req)

	// Invalid token degrades to anonymous instead of failing.
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminMiddlewareAllowsAdmin(t *testing.T) {
	router := setupTestRouter()

	token, _ := utils.GenerateToken(uuid.New(), "admin@test.com", "admin")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/admin/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminMiddlewareBlocksCustomer(t *testing.T) {
	router := setupTestRouter()

	token, _ := utils.GenerateToken(uuid.New(), "customer@test.com", "customer")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/admin/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBusinessMiddlewareAllowsBusiness(t *testing.T) {
	router := setupTestRouter()

	token, _ := utils.GenerateToken(uuid.New(), "owner@test.com", "business")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/business/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBusinessMiddlewareBlocksCustomer(t *testing.T) {
	router := setupTestRouter()

	token, _ := utils.GenerateToken(uuid.New(), "customer@test.com", "customer")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/business/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}
