package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"savora-system/internal/database/models"
	"savora-system/internal/services/inventory"
)

type WasteHandler struct{}

func NewWasteHandler() *WasteHandler {
	return &WasteHandler{}
}

// Reasons lists the selectable removal reasons, grouped by category.
func (h *WasteHandler) Reasons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"waste_reasons":     inventory.WasteReasons,
		"reduction_reasons": inventory.ReductionReasons,
	})
}

func (h *WasteHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": []gin.H{
			{"value": models.WasteCategoryWaste, "label": "Waste", "description": "Discarded or lost product"},
			{"value": models.WasteCategoryReduction, "label": "Reduction", "description": "Intentional non-waste removal"},
		},
	})
}
