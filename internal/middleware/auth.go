package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"savora-system/internal/database/models"
	"savora-system/internal/utils"
)

const (
	CtxUserID       = "user_id"
	CtxBusinessID   = "business_id"
	CtxUserRole     = "user_role"
	CtxRestaurantID = "restaurant_id"
)

// JWTAuth validates the bearer token and attaches the caller's identity and
// business scope to the request context.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := utils.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token verification failed"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		if claims.BusinessID != nil {
			c.Set(CtxBusinessID, *claims.BusinessID)
		}
		c.Set(CtxUserRole, claims.Role)
		c.Next()
	}
}

// RequireBusiness gates routes that only make sense once the caller has
// created or joined a business.
func RequireBusiness() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxBusinessID) == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No business associated with this account"})
			return
		}
		c.Next()
	}
}

// RestaurantScope resolves the caller's restaurant from the authenticated
// business. Scoping is never taken from the request body.
func RestaurantScope(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		businessID := c.GetString(CtxBusinessID)

		var restaurant models.Restaurant
		if err := db.WithContext(c.Request.Context()).
			Where("business_id = ?", businessID).
			First(&restaurant).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"error": "No restaurant found for this business. Please contact support.",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Set(CtxRestaurantID, restaurant.ID)
		c.Next()
	}
}

func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxUserRole)
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}
