package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"savora-system/internal/middleware"
	"savora-system/internal/services/reports"
)

type ReportsHandler struct {
	svc *reports.Service
}

func NewReportsHandler(svc *reports.Service) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// window resolves period/start/end query params against the current clock.
func (h *ReportsHandler) window(c *gin.Context) reports.Window {
	return reports.ResolveWindow(c.Query("period"), c.Query("start"), c.Query("end"), time.Now())
}

func (h *ReportsHandler) WasteSummary(c *gin.Context) {
	restaurantID := c.GetString(middleware.CtxRestaurantID)
	compare := c.Query("compare") == "true"

	out, err := h.svc.WasteSummary(c.Request.Context(), restaurantID, h.window(c), compare)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ReportsHandler) WasteByCategory(c *gin.Context) {
	restaurantID := c.GetString(middleware.CtxRestaurantID)

	out, err := h.svc.WasteByCategory(c.Request.Context(), restaurantID, h.window(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ReportsHandler) WasteByReason(c *gin.Context) {
	restaurantID := c.GetString(middleware.CtxRestaurantID)

	out, err := h.svc.WasteByReason(c.Request.Context(), restaurantID, h.window(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ReportsHandler) WasteByItem(c *gin.Context) {
	restaurantID := c.GetString(middleware.CtxRestaurantID)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	out, err := h.svc.WasteByItem(c.Request.Context(), restaurantID, h.window(c), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ReportsHandler) WasteTrends(c *gin.Context) {
	restaurantID := c.GetString(middleware.CtxRestaurantID)

	out, err := h.svc.WasteTrends(c.Request.Context(), restaurantID, h.window(c), c.Query("groupBy"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ReportsHandler) FoodCostAnalysis(c *gin.Context) {
	restaurantID := c.GetString(middleware.CtxRestaurantID)
	compare := c.Query("compare") == "true"

	out, err := h.svc.FoodCostAnalysis(c.Request.Context(), restaurantID, h.window(c), compare)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
