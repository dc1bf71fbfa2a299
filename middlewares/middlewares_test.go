package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/tablesession-api/models"
	"github.com/yeremiapane/tablesession-api/services"
	"github.com/yeremiapane/tablesession-api/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	utils.InfoLogger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func setupRouter(tokens *utils.JWTManager) *gin.Engine {
	r := gin.New()
	r.Use(LoggerMiddleware())
	r.GET("/sessions/active", AuthMiddleware(tokens), RequireOperation(services.OpSessionListActive), func(c *gin.Context) {
		actor := CurrentActor(c)
		c.JSON(http.StatusOK, gin.H{"company_id": actor.CompanyID, "role": actor.Role})
	})
	return r
}

func request(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/sessions/active", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewJWTManager("secret", time.Hour)
	r := setupRouter(tokens)

	w := request(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(r, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := tokens.GenerateToken("u1", "c1", string(models.RoleBackoffice))
	require.NoError(t, err)
	w = request(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"company_id":"c1","role":"backoffice"}`, w.Body.String())
}

func TestRequireOperation(t *testing.T) {
	tokens := utils.NewJWTManager("secret", time.Hour)
	r := setupRouter(tokens)

	token, err := tokens.GenerateToken("u1", "c1", string(models.RoleFrontdesk))
	require.NoError(t, err)

	w := request(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"status":false`)
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiter(2, time.Hour).RateLimit())
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// another client has its own bucket
	req, _ := http.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSecurityAndCORSHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(), CORSMiddlewares("https://pos.example.com"))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodOptions, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://pos.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestCORSWildcardOmitsCredentials(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddlewares("*"))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}
