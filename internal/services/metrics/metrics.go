package metrics

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"savora-system/internal/database/models"
	"savora-system/internal/errs"
)

// Placeholder figures pending real sales and usage data. Kept as constants
// so the dashboard contract stays stable until those feeds exist.
const (
	placeholderWeeklyFoodCostPercent = 28.5
	placeholderTurnoverRate          = 2.3
	placeholderQualityIssuesCount    = 1
)

// Fallbacks reported when a restaurant has no data to aggregate yet.
const (
	fallbackTopIngredient      = "Chicken Breast"
	fallbackTopSupplier        = "Sysco"
	fallbackFulfillmentDays    = 3
	fallbackOnTimePercent      = 87
	completedOrdersSampleLimit = 50
	ingredientSampleLimit      = 100
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type DashboardMetrics struct {
	LowStockCount         int     `json:"lowStockCount"`
	ExpiringItemsCount    int     `json:"expiringItemsCount"`
	OpenOrdersCount       int     `json:"openOrdersCount"`
	WeeklyFoodCostPercent float64 `json:"weeklyFoodCostPercent"`
}

type InventoryMetrics struct {
	BelowReorderCount     int     `json:"belowReorderCount"`
	ExpiringThisWeek      int     `json:"expiringThisWeek"`
	TopUsedIngredient     string  `json:"topUsedIngredient"`
	InventoryTurnoverRate float64 `json:"inventoryTurnoverRate"`
}

type OrderMetrics struct {
	PendingOrdersValue     float64 `json:"pendingOrdersValue"`
	OverdueDeliveriesCount int     `json:"overdueDeliveriesCount"`
	TopSupplierName        string  `json:"topSupplierName"`
	AvgFulfillmentDays     int     `json:"avgFulfillmentDays"`
}

type ReceivingMetrics struct {
	PendingShipmentsCount int `json:"pendingShipmentsCount"`
	ReceivedTodayCount    int `json:"receivedTodayCount"`
	QualityIssuesCount    int `json:"qualityIssuesCount"`
	OnTimeDeliveryPercent int `json:"onTimeDeliveryPercent"`
}

// lowStockCount treats a missing minimum_quantity as zero, so untracked
// items only count once fully depleted.
func (s *Service) lowStockCount(ctx context.Context, restaurantID string) (int, error) {
	var items []models.InventoryItem
	if err := s.db.WithContext(ctx).
		Select("quantity", "minimum_quantity").
		Where("restaurant_id = ?", restaurantID).
		Find(&items).Error; err != nil {
		return 0, errs.NewDataAccess("load inventory", err)
	}

	count := 0
	for _, item := range items {
		minimum := decimal.Zero
		if item.MinimumQuantity != nil {
			minimum = *item.MinimumQuantity
		}
		if item.Quantity.LessThanOrEqual(minimum) {
			count++
		}
	}
	return count, nil
}

// expiringCount counts items whose expiration date falls within the next
// seven days, inclusive on both ends.
func (s *Service) expiringCount(ctx context.Context, restaurantID string, now time.Time) (int, error) {
	today := startOfDay(now)
	horizon := today.AddDate(0, 0, 7)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("restaurant_id = ?", restaurantID).
		Where("expiration_date >= ? AND expiration_date <= ?", today, horizon).
		Count(&count).Error; err != nil {
		return 0, errs.NewDataAccess("count expiring items", err)
	}
	return int(count), nil
}

func (s *Service) Dashboard(ctx context.Context, restaurantID string) (*DashboardMetrics, error) {
	if restaurantID == "" {
		return nil, errs.NewValidation("Restaurant ID is required")
	}

	now := time.Now()

	lowStock, err := s.lowStockCount(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	expiring, err := s.expiringCount(ctx, restaurantID, now)
	if err != nil {
		return nil, err
	}

	var openOrders int64
	if err := s.db.WithContext(ctx).Model(&models.PurchaseOrder{}).
		Where("restaurant_id = ? AND status IN ?", restaurantID,
			[]string{models.OrderStatusDraft, models.OrderStatusOrdered}).
		Count(&openOrders).Error; err != nil {
		return nil, errs.NewDataAccess("count open orders", err)
	}

	return &DashboardMetrics{
		LowStockCount:         lowStock,
		ExpiringItemsCount:    expiring,
		OpenOrdersCount:       int(openOrders),
		WeeklyFoodCostPercent: placeholderWeeklyFoodCostPercent,
	}, nil
}

func (s *Service) Inventory(ctx context.Context, restaurantID string) (*InventoryMetrics, error) {
	if restaurantID == "" {
		return nil, errs.NewValidation("Restaurant ID is required")
	}

	now := time.Now()

	belowReorder, err := s.lowStockCount(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	expiring, err := s.expiringCount(ctx, restaurantID, now)
	if err != nil {
		return nil, err
	}

	// Mode of ingredient names over a bounded sample; an approximation of
	// usage until real consumption tracking lands.
	var sample []models.InventoryItem
	if err := s.db.WithContext(ctx).
		Preload("Ingredient").
		Where("restaurant_id = ?", restaurantID).
		Limit(ingredientSampleLimit).
		Find(&sample).Error; err != nil {
		return nil, errs.NewDataAccess("sample inventory", err)
	}

	topUsed := fallbackTopIngredient
	counts := make(map[string]int)
	best := 0
	for _, item := range sample {
		if item.Ingredient == nil {
			continue
		}
		name := item.Ingredient.Name
		counts[name]++
		if counts[name] > best {
			best = counts[name]
			topUsed = name
		}
	}

	return &InventoryMetrics{
		BelowReorderCount:     belowReorder,
		ExpiringThisWeek:      expiring,
		TopUsedIngredient:     topUsed,
		InventoryTurnoverRate: placeholderTurnoverRate,
	}, nil
}

func (s *Service) Orders(ctx context.Context, restaurantID string) (*OrderMetrics, error) {
	if restaurantID == "" {
		return nil, errs.NewValidation("Restaurant ID is required")
	}

	now := time.Now()
	today := startOfDay(now)

	var pending []models.PurchaseOrder
	if err := s.db.WithContext(ctx).
		Select("total").
		Where("restaurant_id = ? AND status IN ?", restaurantID,
			[]string{models.OrderStatusDraft, models.OrderStatusOrdered}).
		Find(&pending).Error; err != nil {
		return nil, errs.NewDataAccess("load pending orders", err)
	}
	pendingValue := decimal.Zero
	for _, order := range pending {
		pendingValue = pendingValue.Add(order.Total)
	}

	var overdue int64
	if err := s.db.WithContext(ctx).Model(&models.PurchaseOrder{}).
		Where("restaurant_id = ? AND status = ?", restaurantID, models.OrderStatusOrdered).
		Where("expected_delivery_date < ?", today).
		Count(&overdue).Error; err != nil {
		return nil, errs.NewDataAccess("count overdue deliveries", err)
	}

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var monthOrders []models.PurchaseOrder
	if err := s.db.WithContext(ctx).
		Select("supplier_name").
		Where("restaurant_id = ? AND order_date >= ?", restaurantID, firstOfMonth).
		Find(&monthOrders).Error; err != nil {
		return nil, errs.NewDataAccess("load month orders", err)
	}

	topSupplier := fallbackTopSupplier
	supplierCounts := make(map[string]int)
	best := 0
	for _, order := range monthOrders {
		if order.SupplierName == "" {
			continue
		}
		supplierCounts[order.SupplierName]++
		if supplierCounts[order.SupplierName] > best {
			best = supplierCounts[order.SupplierName]
			topSupplier = order.SupplierName
		}
	}

	completed, err := s.completedOrders(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	avgDays := fallbackFulfillmentDays
	if len(completed) > 0 {
		totalDays := 0
		for _, order := range completed {
			days := int(order.ActualDeliveryDate.Sub(order.OrderDate).Hours() / 24)
			if days > 0 {
				totalDays += days
			}
		}
		avgDays = int(math.Round(float64(totalDays) / float64(len(completed))))
	}

	pf, _ := pendingValue.Round(2).Float64()
	return &OrderMetrics{
		PendingOrdersValue:     pf,
		OverdueDeliveriesCount: int(overdue),
		TopSupplierName:        topSupplier,
		AvgFulfillmentDays:     avgDays,
	}, nil
}

func (s *Service) Receiving(ctx context.Context, restaurantID string) (*ReceivingMetrics, error) {
	if restaurantID == "" {
		return nil, errs.NewValidation("Restaurant ID is required")
	}

	now := time.Now()
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	var pendingShipments int64
	if err := s.db.WithContext(ctx).Model(&models.PurchaseOrder{}).
		Where("restaurant_id = ? AND status = ?", restaurantID, models.OrderStatusOrdered).
		Count(&pendingShipments).Error; err != nil {
		return nil, errs.NewDataAccess("count pending shipments", err)
	}

	var receivedToday int64
	if err := s.db.WithContext(ctx).Model(&models.PurchaseOrder{}).
		Where("restaurant_id = ?", restaurantID).
		Where("actual_delivery_date >= ? AND actual_delivery_date < ?", today, tomorrow).
		Count(&receivedToday).Error; err != nil {
		return nil, errs.NewDataAccess("count received today", err)
	}

	completed, err := s.completedOrders(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	onTimePercent := fallbackOnTimePercent
	if len(completed) > 0 {
		onTime := 0
		for _, order := range completed {
			if order.ExpectedDeliveryDate != nil &&
				!order.ActualDeliveryDate.After(*order.ExpectedDeliveryDate) {
				onTime++
			}
		}
		onTimePercent = int(math.Round(float64(onTime) / float64(len(completed)) * 100))
	}

	return &ReceivingMetrics{
		PendingShipmentsCount: int(pendingShipments),
		ReceivedTodayCount:    int(receivedToday),
		QualityIssuesCount:    placeholderQualityIssuesCount,
		OnTimeDeliveryPercent: onTimePercent,
	}, nil
}

// completedOrders samples the most recent delivered orders.
func (s *Service) completedOrders(ctx context.Context, restaurantID string) ([]models.PurchaseOrder, error) {
	var completed []models.PurchaseOrder
	if err := s.db.WithContext(ctx).
		Select("order_date", "expected_delivery_date", "actual_delivery_date").
		Where("restaurant_id = ? AND actual_delivery_date IS NOT NULL", restaurantID).
		Order("actual_delivery_date DESC").
		Limit(completedOrdersSampleLimit).
		Find(&completed).Error; err != nil {
		return nil, errs.NewDataAccess("load completed orders", err)
	}
	return completed, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
