package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/policy"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

type validatorStub map[string]*models.JWTClaims

func (v validatorStub) ValidateToken(ctx context.Context, token string) (*models.JWTClaims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

var testTokens = validatorStub{
	"admin-token":   {UserID: "1", Role: models.RoleAdmin},
	"student-token": {UserID: "3", Role: models.RoleStudent},
}

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, claims.UserID)
	})
	router.GET("/", handlers...)
	return router
}

func serve(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestJWTRequiresBearerToken(t *testing.T) {
	router := newTestRouter(JWT(testTokens))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic admin-token", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer admin-token", http.StatusOK},
		{"lowercase scheme", "bearer student-token", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, serve(router, tc.header).Code)
		})
	}
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	router := newTestRouter(OptionalJWT(testTokens))

	w := serve(router, "Bearer nope")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = serve(router, "Bearer student-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", w.Body.String())
}

func TestRequirePolicy(t *testing.T) {
	router := newTestRouter(OptionalJWT(testTokens), RequirePolicy(policy.CanModerateEvent, "admins only"))

	assert.Equal(t, http.StatusUnauthorized, serve(router, "").Code)

	w := serve(router, "Bearer student-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "admins only")

	assert.Equal(t, http.StatusOK, serve(router, "Bearer admin-token").Code)
}

func TestResponseMetaCollectsEntries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var meta map[string]interface{}
	router.Use(WithResponseMeta())
	router.GET("/", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, meta)
	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
}
