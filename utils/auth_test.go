package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookpos-backend/config"
)

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", AuthMiddleware(), func(c *gin.Context) {
		companyID, _ := CompanyID(c)
		userID, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"company": companyID, "user": userID, "role": Role(c)})
	})
	r.GET("/owners", AuthMiddleware(), RequireRole("company_owner"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("secret124", hash))
}

func TestAuthMiddleware(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	userID, companyID := uuid.New(), uuid.New()
	token, err := GenerateToken(userID.String(), companyID.String(), "staff")
	require.NoError(t, err)
	r := authRouter()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), companyID.String())
	assert.Contains(t, w.Body.String(), `"role":"staff"`)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/owners", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	r := authRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGenerateToken_RequiresSecret(t *testing.T) {
	config.AppConfig.JWTSecret = ""
	_, err := GenerateToken("u", "c", "staff")
	assert.Error(t, err)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(6)
	assert.Len(t, s, 6)
	assert.Regexp(t, `^[0-9A-F]{6}$`, s)
	assert.Len(t, GenerateRandomString(100), 32)
}
