// internal/interfaces/http/middleware/middleware_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/tireshop-backend/internal/config"
	"github.com/your-org/tireshop-backend/internal/pkg/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.Security.CORSAllowedOrigins = []string{"http://localhost:3000", "*.tireshop.example"}
	cfg.Security.CORSAllowedMethods = []string{"GET", "POST"}
	cfg.Security.CORSAllowedHeaders = []string{"Content-Type", "Authorization"}
	return cfg
}

func signAccessToken(t *testing.T, isAdmin bool) string {
	t.Helper()

	now := time.Now().UTC()
	claims := &auth.Claims{
		UserID:    7,
		Email:     "caller@example.com",
		IsAdmin:   isAdmin,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return signed
}

func performRequest(handler http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(AuthMiddleware(testConfig()))
	router.GET("/protected", func(c *gin.Context) {
		userID, ok := GetUserIDFromContext(c)
		assert.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	t.Run("valid token passes", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/protected", map[string]string{
			"Authorization": "Bearer " + signAccessToken(t, false),
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":7`)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/protected", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/protected", map[string]string{
			"Authorization": "Token abc",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/protected", map[string]string{
			"Authorization": "Bearer not.a.token",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAdminMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(AuthMiddleware(testConfig()), AdminMiddleware())
	router.GET("/admin", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("admin passes", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/admin", map[string]string{
			"Authorization": "Bearer " + signAccessToken(t, true),
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/admin", map[string]string{
			"Authorization": "Bearer " + signAccessToken(t, false),
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS(&testConfig().Security))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin echoed", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/", map[string]string{
			"Origin": "http://localhost:3000",
		})
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("wildcard subdomain allowed", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/", map[string]string{
			"Origin": "https://shop.tireshop.example",
		})
		assert.Equal(t, "https://shop.tireshop.example", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/", map[string]string{
			"Origin": "https://evil.example",
		})
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		w := performRequest(router, http.MethodOptions, "/", map[string]string{
			"Origin": "http://localhost:3000",
		})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeaders())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := performRequest(router, http.MethodGet, "/", nil)

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "Tire Shop API", w.Header().Get("Server"))
}

func TestTimeout(t *testing.T) {
	router := gin.New()
	router.Use(Timeout(20 * time.Millisecond))
	router.GET("/slow", func(c *gin.Context) {
		// Blocks until the middleware cancels the request context
		<-c.Request.Context().Done()
	})
	router.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := performRequest(router, http.MethodGet, "/slow", nil)
	assert.Equal(t, http.StatusRequestTimeout, w.Code)

	w = performRequest(router, http.MethodGet, "/fast", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.InfoLevel)

	router := gin.New()
	router.Use(Logger(log))
	router.GET("/orders", func(c *gin.Context) { c.Status(http.StatusOK) })

	performRequest(router, http.MethodGet, "/orders", nil)

	entry := hook.LastEntry()
	assert.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "GET", entry.Data["method"])
	assert.Equal(t, "/orders", entry.Data["path"])
	assert.Equal(t, http.StatusOK, entry.Data["status_code"])
}
