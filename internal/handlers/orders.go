package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"savora-system/internal/database/models"
	"savora-system/internal/middleware"
	"savora-system/internal/services/orders"
)

type OrdersHandler struct {
	svc *orders.Service
}

func NewOrdersHandler(svc *orders.Service) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

type orderItemRequest struct {
	IngredientID    string          `json:"ingredientId"`
	QuantityOrdered decimal.Decimal `json:"quantityOrdered"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
}

type createOrderRequest struct {
	SupplierName         string             `json:"supplierName"`
	ExpectedDeliveryDate string             `json:"expectedDeliveryDate"`
	Items                []orderItemRequest `json:"items"`
	Notes                *string            `json:"notes"`
}

type orderItemView struct {
	ID               string  `json:"id"`
	IngredientID     string  `json:"ingredient_id"`
	QuantityOrdered  float64 `json:"quantity_ordered"`
	QuantityReceived float64 `json:"quantity_received"`
	Unit             string  `json:"unit"`
	UnitPrice        float64 `json:"unit_price"`
	LineTotal        float64 `json:"line_total"`
}

type orderView struct {
	ID                   string    `json:"id"`
	OrderNumber          string    `json:"order_number"`
	Status               string    `json:"status"`
	SupplierName         string    `json:"supplier_name"`
	OrderDate            time.Time `json:"order_date"`
	ExpectedDeliveryDate *string   `json:"expected_delivery_date"`
	Subtotal             float64   `json:"subtotal"`
	Tax                  float64   `json:"tax"`
	Total                float64   `json:"total"`
	Notes                *string   `json:"notes"`
}

func toOrderView(order *models.PurchaseOrder) orderView {
	subtotal, _ := order.Subtotal.Round(2).Float64()
	tax, _ := order.Tax.Round(2).Float64()
	total, _ := order.Total.Round(2).Float64()
	return orderView{
		ID:                   order.ID,
		OrderNumber:          order.OrderNumber,
		Status:               order.Status,
		SupplierName:         order.SupplierName,
		OrderDate:            order.OrderDate,
		ExpectedDeliveryDate: formatDate(order.ExpectedDeliveryDate),
		Subtotal:             subtotal,
		Tax:                  tax,
		Total:                total,
		Notes:                order.Notes,
	}
}

func toOrderItemViews(items []models.PurchaseOrderItem) []orderItemView {
	views := make([]orderItemView, len(items))
	for i, item := range items {
		ordered, _ := item.QuantityOrdered.Round(3).Float64()
		received, _ := item.QuantityReceived.Round(3).Float64()
		price, _ := item.UnitPrice.Round(2).Float64()
		lineTotal, _ := item.LineTotal.Round(2).Float64()
		views[i] = orderItemView{
			ID:               item.ID,
			IngredientID:     item.IngredientID,
			QuantityOrdered:  ordered,
			QuantityReceived: received,
			Unit:             item.Unit,
			UnitPrice:        price,
			LineTotal:        lineTotal,
		}
	}
	return views
}

func (h *OrdersHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	expected, err := parseDate(req.ExpectedDeliveryDate)
	if err != nil {
		fail(c, err)
		return
	}

	items := make([]orders.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = orders.OrderItemInput{
			IngredientID:    item.IngredientID,
			QuantityOrdered: item.QuantityOrdered,
			Unit:            item.Unit,
			UnitPrice:       item.UnitPrice,
		}
	}

	order, orderItems, err := h.svc.Create(c.Request.Context(), orders.CreateOrderInput{
		RestaurantID:         c.GetString(middleware.CtxRestaurantID),
		SupplierName:         req.SupplierName,
		ExpectedDeliveryDate: expected,
		Items:                items,
		Notes:                req.Notes,
		CreatedBy:            c.GetString(middleware.CtxUserID),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"purchase_order": toOrderView(order),
		"items":          toOrderItemViews(orderItems),
	})
}
