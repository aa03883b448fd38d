package handler

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-events-api/internal/middleware"
	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return nil
	}
	return claims
}

// actorID is empty for anonymous requests.
func actorID(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return ""
}

// bindStrictJSON decodes the body and rejects fields dest does not declare.
func bindStrictJSON(c *gin.Context, dest interface{}, message string) error {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return appErrors.Clone(appErrors.ErrValidation, "request body is required")
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message+": "+err.Error())
	}
	return nil
}
