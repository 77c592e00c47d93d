package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"savora-system/internal/database/models"
	"savora-system/internal/middleware"
	"savora-system/internal/utils"
)

type BusinessHandler struct {
	db       *gorm.DB
	tokenTTL time.Duration
}

func NewBusinessHandler(db *gorm.DB, tokenTTL time.Duration) *BusinessHandler {
	return &BusinessHandler{db: db, tokenTTL: tokenTTL}
}

type createBusinessRequest struct {
	Name         string `json:"name"`
	Domain       string `json:"domain"`
	Address      string `json:"address"`
	City         string `json:"city"`
	BusinessType string `json:"businessType"`
}

type businessView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Domain       string `json:"domain"`
	Address      string `json:"address"`
	City         string `json:"city"`
	BusinessType string `json:"business_type"`
}

// Create registers a business for the authenticated user, provisions its
// restaurant, and reissues a token carrying the new business scope.
func (h *BusinessHandler) Create(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)

	var req createBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Business name is required"})
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
		return
	}
	if user.BusinessID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Account already belongs to a business"})
		return
	}

	businessType := req.BusinessType
	if businessType == "" {
		businessType = "restaurant"
	}

	slug, err := h.uniqueSlug(c, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create business"})
		return
	}

	business := models.Business{
		Name:         req.Name,
		Slug:         slug,
		Domain:       req.Domain,
		Address:      req.Address,
		City:         req.City,
		BusinessType: businessType,
		IsActive:     true,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&business).Error; err != nil {
			return err
		}
		restaurant := models.Restaurant{
			BusinessID: business.ID,
			Name:       business.Name,
		}
		if err := tx.Create(&restaurant).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("business_id", business.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create business"})
		return
	}

	token, exp, err := utils.GenerateToken(user.ID, &business.ID, user.Role, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"business": businessView{
			ID:           business.ID,
			Name:         business.Name,
			Slug:         business.Slug,
			Domain:       business.Domain,
			Address:      business.Address,
			City:         business.City,
			BusinessType: business.BusinessType,
		},
		"token":      token,
		"expires_at": exp,
	})
}

// uniqueSlug derives a URL slug from the business name, suffixing a counter
// when the base form is taken.
func (h *BusinessHandler) uniqueSlug(c *gin.Context, name string) (string, error) {
	base := slugify(name)

	slug := base
	for i := 2; ; i++ {
		var count int64
		if err := h.db.WithContext(c.Request.Context()).
			Model(&models.Business{}).
			Where("slug = ?", slug).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
