package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
	"github.com/noah-isme/campus-events-api/pkg/response"
)

// RequirePolicy rejects requests whose signed-in user fails check.
// The event service re-checks every rule against the stored records.
func RequirePolicy(check func(*models.User) bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !check(claims.Actor()) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, message))
			c.Abort()
			return
		}
		c.Next()
	}
}
