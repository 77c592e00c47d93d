package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"savora-system/internal/middleware"
	"savora-system/internal/services/metrics"
)

type MetricsHandler struct {
	svc *metrics.Service
}

func NewMetricsHandler(svc *metrics.Service) *MetricsHandler {
	return &MetricsHandler{svc: svc}
}

func (h *MetricsHandler) Dashboard(c *gin.Context) {
	out, err := h.svc.Dashboard(c.Request.Context(), c.GetString(middleware.CtxRestaurantID))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// LegacyDashboard serves the older flat dashboard shape from the same
// aggregates.
func (h *MetricsHandler) LegacyDashboard(c *gin.Context) {
	out, err := h.svc.Dashboard(c.Request.Context(), c.GetString(middleware.CtxRestaurantID))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"low_stock_alerts":    out.LowStockCount,
		"items_expiring_soon": out.ExpiringItemsCount,
		"monthly_food_cost":   out.WeeklyFoodCostPercent,
	})
}

func (h *MetricsHandler) Inventory(c *gin.Context) {
	out, err := h.svc.Inventory(c.Request.Context(), c.GetString(middleware.CtxRestaurantID))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MetricsHandler) Orders(c *gin.Context) {
	out, err := h.svc.Orders(c.Request.Context(), c.GetString(middleware.CtxRestaurantID))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MetricsHandler) Receiving(c *gin.Context) {
	out, err := h.svc.Receiving(c.Request.Context(), c.GetString(middleware.CtxRestaurantID))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
