package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/unikl-dcms/dcms-api/internal/middleware"
	"github.com/unikl-dcms/dcms-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorFromContext materializes the acting user from token claims. The
// claims carry everything the services need for scoping and author
// decoration; no store round-trip is required.
func actorFromContext(c *gin.Context) *models.User {
	claims := claimsFromContext(c)
	if claims == nil {
		return nil
	}
	return &models.User{
		Username:         claims.Username,
		Role:             claims.Role,
		AssignedCampusID: claims.AssignedCampusID,
	}
}
