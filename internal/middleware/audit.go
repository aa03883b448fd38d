package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-events-api/internal/service"
)

// AuditOrigin tags the request context with the client address picked up by audit entries.
func AuditOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := service.WithRequestOrigin(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
