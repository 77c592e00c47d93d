package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"savora-system/internal/database/models"
	"savora-system/internal/errs"
	"savora-system/internal/middleware"
	"savora-system/internal/services/inventory"
)

type InventoryHandler struct {
	svc *inventory.Service
}

func NewInventoryHandler(svc *inventory.Service) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// -- Views --

type ingredientView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Unit     string  `json:"unit"`
	Barcode  *string `json:"barcode"`
}

type inventoryItemView struct {
	ID              string          `json:"id"`
	IngredientID    string          `json:"ingredient_id"`
	Ingredient      *ingredientView `json:"ingredient,omitempty"`
	Quantity        float64         `json:"quantity"`
	Unit            string          `json:"unit"`
	MinimumQuantity *float64        `json:"minimum_quantity"`
	CostPerUnit     *float64        `json:"cost_per_unit"`
	Location        *string         `json:"location"`
	ExpirationDate  *string         `json:"expiration_date"`
	LastRestocked   *time.Time      `json:"last_restocked"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func toIngredientView(i *models.Ingredient) *ingredientView {
	if i == nil {
		return nil
	}
	return &ingredientView{
		ID:       i.ID,
		Name:     i.Name,
		Category: i.Category,
		Unit:     i.Unit,
		Barcode:  i.Barcode,
	}
}

func toInventoryItemView(item models.InventoryItem) inventoryItemView {
	quantity, _ := item.Quantity.Round(3).Float64()
	view := inventoryItemView{
		ID:             item.ID,
		IngredientID:   item.IngredientID,
		Ingredient:     toIngredientView(item.Ingredient),
		Quantity:       quantity,
		Unit:           item.Unit,
		Location:       item.Location,
		ExpirationDate: formatDate(item.ExpirationDate),
		LastRestocked:  item.LastRestocked,
		UpdatedAt:      item.UpdatedAt,
	}
	if item.MinimumQuantity != nil {
		f, _ := item.MinimumQuantity.Round(3).Float64()
		view.MinimumQuantity = &f
	}
	if item.CostPerUnit != nil {
		f, _ := item.CostPerUnit.Round(2).Float64()
		view.CostPerUnit = &f
	}
	return view
}

// -- Routes --

func (h *InventoryHandler) List(c *gin.Context) {
	restaurantID := c.GetString(middleware.CtxRestaurantID)

	items, err := h.svc.List(c.Request.Context(), restaurantID)
	if err != nil {
		fail(c, err)
		return
	}

	views := make([]inventoryItemView, len(items))
	for i, item := range items {
		views[i] = toInventoryItemView(item)
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

func (h *InventoryHandler) LookupBarcode(c *gin.Context) {
	barcode := c.Query("barcode")

	ingredient, err := h.svc.LookupBarcode(c.Request.Context(), barcode)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredient": toIngredientView(ingredient)})
}

type receiveItemRequest struct {
	IngredientID   string          `json:"ingredientId"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	Location       *string         `json:"location"`
	ExpirationDate string          `json:"expirationDate"`
}

type receiveRequest struct {
	Items []receiveItemRequest `json:"items"`
}

func (h *InventoryHandler) Receive(c *gin.Context) {
	var req receiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(req.Items) == 0 {
		fail(c, errs.NewValidation("Items array is required and must not be empty"))
		return
	}

	items := make([]inventory.ReceiveItem, len(req.Items))
	for i, item := range req.Items {
		if item.IngredientID == "" {
			fail(c, errs.NewValidation("Each item must have an ingredientId"))
			return
		}
		expiration, err := parseDate(item.ExpirationDate)
		if err != nil {
			fail(c, err)
			return
		}
		items[i] = inventory.ReceiveItem{
			IngredientID:   item.IngredientID,
			Quantity:       item.Quantity,
			Unit:           item.Unit,
			Location:       item.Location,
			ExpirationDate: expiration,
		}
	}

	restaurantID := c.GetString(middleware.CtxRestaurantID)
	updated, err := h.svc.Receive(c.Request.Context(), restaurantID, items)
	if err != nil {
		fail(c, err)
		return
	}

	views := make([]inventoryItemView, len(updated))
	for i, item := range updated {
		views[i] = toInventoryItemView(item)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Received %d item(s)", len(views)),
		"items":   views,
	})
}

type removeItemRequest struct {
	IngredientID string          `json:"ingredientId"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason"`
	Notes        *string         `json:"notes"`
}

type removeRequest struct {
	Items []removeItemRequest `json:"items"`
}

type removalView struct {
	ID              string  `json:"id"`
	IngredientID    string  `json:"ingredient_id"`
	NewQuantity     float64 `json:"new_quantity"`
	RemovedQuantity float64 `json:"removed_quantity"`
	Reason          string  `json:"reason"`
	Notes           *string `json:"notes"`
}

func (h *InventoryHandler) Remove(c *gin.Context) {
	var req removeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(req.Items) == 0 {
		fail(c, errs.NewValidation("Items array is required and must not be empty"))
		return
	}

	items := make([]inventory.RemoveItem, len(req.Items))
	for i, item := range req.Items {
		if item.IngredientID == "" {
			fail(c, errs.NewValidation("Each item must have an ingredientId"))
			return
		}
		items[i] = inventory.RemoveItem{
			IngredientID: item.IngredientID,
			Quantity:     item.Quantity,
			Reason:       item.Reason,
			Notes:        item.Notes,
		}
	}

	restaurantID := c.GetString(middleware.CtxRestaurantID)
	userID := c.GetString(middleware.CtxUserID)
	results, err := h.svc.Remove(c.Request.Context(), restaurantID, userID, items)
	if err != nil {
		fail(c, err)
		return
	}

	views := make([]removalView, len(results))
	for i, r := range results {
		newQty, _ := r.NewQuantity.Round(3).Float64()
		removedQty, _ := r.RemovedQuantity.Round(3).Float64()
		views[i] = removalView{
			ID:              r.ID,
			IngredientID:    r.IngredientID,
			NewQuantity:     newQty,
			RemovedQuantity: removedQty,
			Reason:          r.Reason,
			Notes:           r.Notes,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Removed %d item(s)", len(views)),
		"results": views,
	})
}
