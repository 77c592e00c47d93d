package reports

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"savora-system/internal/database/models"
	"savora-system/internal/errs"
)

// Service computes point-in-time and period-bucketed waste aggregates.
// Stateless and read-only: every call goes to the store fresh, and any
// store failure aborts the whole request.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type PeriodInfo struct {
	Type  string `json:"type"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type Change struct {
	Value     float64 `json:"value"`
	Percent   float64 `json:"percent"`
	Direction string  `json:"direction"`
}

type SummaryComparison struct {
	PreviousPeriod struct {
		Start      string  `json:"start"`
		End        string  `json:"end"`
		TotalValue float64 `json:"total_value"`
	} `json:"previous_period"`
	Change Change `json:"change"`
}

type Summary struct {
	Period PeriodInfo `json:"period"`
	Waste  struct {
		TotalValue     float64 `json:"total_value"`
		TotalCount     int     `json:"total_count"`
		AvgPerIncident float64 `json:"avg_per_incident"`
	} `json:"waste"`
	AllReductions struct {
		TotalValue float64 `json:"total_value"`
	} `json:"all_reductions"`
	Comparison *SummaryComparison `json:"comparison,omitempty"`
}

type CategoryBucket struct {
	Category   string  `json:"category"`
	TotalValue float64 `json:"total_value"`
	Count      int     `json:"count"`
}

type ByCategory struct {
	Period     PeriodInfo       `json:"period"`
	TotalWaste float64          `json:"total_waste"`
	Categories []CategoryBucket `json:"categories"`
}

type ReasonBucket struct {
	Reason     string  `json:"reason"`
	TotalValue float64 `json:"total_value"`
	Count      int     `json:"count"`
}

type ByReason struct {
	Period     PeriodInfo     `json:"period"`
	TotalWaste float64        `json:"total_waste"`
	Reasons    []ReasonBucket `json:"reasons"`
}

type ItemBucket struct {
	IngredientID   string  `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	Category       string  `json:"category"`
	TotalQuantity  float64 `json:"total_quantity"`
	TotalValue     float64 `json:"total_value"`
	Count          int     `json:"count"`
	Unit           string  `json:"unit"`
}

type ByItem struct {
	Period PeriodInfo   `json:"period"`
	Items  []ItemBucket `json:"items"`
}

type TrendBucket struct {
	Date       string  `json:"date"`
	TotalValue float64 `json:"total_value"`
	Count      int     `json:"count"`
}

type Trends struct {
	Period  PeriodInfo    `json:"period"`
	GroupBy string        `json:"group_by"`
	Trends  []TrendBucket `json:"trends"`
}

type FoodCostComparison struct {
	PreviousPeriod struct {
		Start     string  `json:"start"`
		End       string  `json:"end"`
		WasteCost float64 `json:"waste_cost"`
	} `json:"previous_period"`
	Change Change `json:"change"`
}

type FoodCost struct {
	Period              PeriodInfo          `json:"period"`
	WasteCost           float64             `json:"waste_cost"`
	TotalInventoryValue float64             `json:"total_inventory_value"`
	WastePercentage     float64             `json:"waste_percentage"`
	Note                string              `json:"note"`
	Comparison          *FoodCostComparison `json:"comparison,omitempty"`
}

func periodInfo(w Window) PeriodInfo {
	return PeriodInfo{
		Type:  w.Type,
		Start: w.Start.Format(time.RFC3339),
		End:   w.End.Format(time.RFC3339),
	}
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// wasteRows loads waste-category log rows for a restaurant within a window.
func (s *Service) wasteRows(ctx context.Context, restaurantID string, w Window, preloadIngredient bool) ([]models.WasteLog, error) {
	q := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND category = ?", restaurantID, models.WasteCategoryWaste).
		Where("logged_at >= ? AND logged_at <= ?", w.Start, w.End)
	if preloadIngredient {
		q = q.Preload("Ingredient")
	}

	var rows []models.WasteLog
	if err := q.Find(&rows).Error; err != nil {
		return nil, errs.NewDataAccess("load waste log", err)
	}
	return rows, nil
}

func sumCostValue(rows []models.WasteLog) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.CostValue)
	}
	return total
}

func buildChange(current, previous decimal.Decimal) Change {
	changeValue := current.Sub(previous)

	percent := decimal.Zero
	if previous.IsPositive() {
		percent = changeValue.Div(previous).Mul(decimal.NewFromInt(100)).Round(1)
	}

	direction := "unchanged"
	if changeValue.IsPositive() {
		direction = "increased"
	} else if changeValue.IsNegative() {
		direction = "decreased"
	}

	pf, _ := percent.Float64()
	return Change{Value: round2(changeValue), Percent: pf, Direction: direction}
}

// WasteSummary totals waste value and count for the window, all reductions
// across every category, and optionally the change against the preceding
// window of equal length.
func (s *Service) WasteSummary(ctx context.Context, restaurantID string, w Window, compare bool) (*Summary, error) {
	wasteRows, err := s.wasteRows(ctx, restaurantID, w, false)
	if err != nil {
		return nil, err
	}

	totalWaste := sumCostValue(wasteRows)
	totalCount := len(wasteRows)

	var allReductions []models.WasteLog
	if err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Where("logged_at >= ? AND logged_at <= ?", w.Start, w.End).
		Find(&allReductions).Error; err != nil {
		return nil, errs.NewDataAccess("load reductions", err)
	}

	out := &Summary{Period: periodInfo(w)}
	out.Waste.TotalValue = round2(totalWaste)
	out.Waste.TotalCount = totalCount
	if totalCount > 0 {
		out.Waste.AvgPerIncident = round2(totalWaste.Div(decimal.NewFromInt(int64(totalCount))))
	}
	out.AllReductions.TotalValue = round2(sumCostValue(allReductions))

	if compare {
		prev := ComparisonWindow(w)
		prevRows, err := s.wasteRows(ctx, restaurantID, prev, false)
		if err != nil {
			return nil, err
		}
		prevTotal := sumCostValue(prevRows)

		cmp := &SummaryComparison{Change: buildChange(totalWaste, prevTotal)}
		cmp.PreviousPeriod.Start = prev.Start.Format(time.RFC3339)
		cmp.PreviousPeriod.End = prev.End.Format(time.RFC3339)
		cmp.PreviousPeriod.TotalValue = round2(prevTotal)
		out.Comparison = cmp
	}

	return out, nil
}

// WasteByCategory groups window waste by the related ingredient's category,
// falling back to "uncategorized" when the reference row is missing.
func (s *Service) WasteByCategory(ctx context.Context, restaurantID string, w Window) (*ByCategory, error) {
	rows, err := s.wasteRows(ctx, restaurantID, w, true)
	if err != nil {
		return nil, err
	}

	type acc struct {
		value decimal.Decimal
		count int
	}
	groups := make(map[string]*acc)
	for _, row := range rows {
		category := "uncategorized"
		if row.Ingredient != nil && row.Ingredient.Category != "" {
			category = row.Ingredient.Category
		}
		g, ok := groups[category]
		if !ok {
			g = &acc{value: decimal.Zero}
			groups[category] = g
		}
		g.value = g.value.Add(row.CostValue)
		g.count++
	}

	buckets := make([]CategoryBucket, 0, len(groups))
	total := decimal.Zero
	for category, g := range groups {
		buckets = append(buckets, CategoryBucket{
			Category:   category,
			TotalValue: round2(g.value),
			Count:      g.count,
		})
		total = total.Add(g.value.Round(2))
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].TotalValue > buckets[j].TotalValue })

	return &ByCategory{
		Period:     periodInfo(w),
		TotalWaste: round2(total),
		Categories: buckets,
	}, nil
}

// WasteByReason groups window waste by the logged reason string.
func (s *Service) WasteByReason(ctx context.Context, restaurantID string, w Window) (*ByReason, error) {
	rows, err := s.wasteRows(ctx, restaurantID, w, false)
	if err != nil {
		return nil, err
	}

	type acc struct {
		value decimal.Decimal
		count int
	}
	groups := make(map[string]*acc)
	for _, row := range rows {
		g, ok := groups[row.Reason]
		if !ok {
			g = &acc{value: decimal.Zero}
			groups[row.Reason] = g
		}
		g.value = g.value.Add(row.CostValue)
		g.count++
	}

	buckets := make([]ReasonBucket, 0, len(groups))
	total := decimal.Zero
	for reason, g := range groups {
		buckets = append(buckets, ReasonBucket{
			Reason:     reason,
			TotalValue: round2(g.value),
			Count:      g.count,
		})
		total = total.Add(g.value.Round(2))
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].TotalValue > buckets[j].TotalValue })

	return &ByReason{
		Period:     periodInfo(w),
		TotalWaste: round2(total),
		Reasons:    buckets,
	}, nil
}

// WasteByItem accumulates per-ingredient quantity and value, sorted by value
// descending and truncated to limit (default 20).
func (s *Service) WasteByItem(ctx context.Context, restaurantID string, w Window, limit int) (*ByItem, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.wasteRows(ctx, restaurantID, w, true)
	if err != nil {
		return nil, err
	}

	type acc struct {
		name     string
		category string
		unit     string
		quantity decimal.Decimal
		value    decimal.Decimal
		count    int
	}
	groups := make(map[string]*acc)
	for _, row := range rows {
		if row.Ingredient == nil {
			continue
		}
		g, ok := groups[row.IngredientID]
		if !ok {
			g = &acc{
				name:     row.Ingredient.Name,
				category: row.Ingredient.Category,
				unit:     row.Unit,
				quantity: decimal.Zero,
				value:    decimal.Zero,
			}
			groups[row.IngredientID] = g
		}
		g.quantity = g.quantity.Add(row.Quantity)
		g.value = g.value.Add(row.CostValue)
		g.count++
	}

	items := make([]ItemBucket, 0, len(groups))
	for id, g := range groups {
		items = append(items, ItemBucket{
			IngredientID:   id,
			IngredientName: g.name,
			Category:       g.category,
			TotalQuantity:  round2(g.quantity),
			TotalValue:     round2(g.value),
			Count:          g.count,
			Unit:           g.unit,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].TotalValue > items[j].TotalValue })
	if len(items) > limit {
		items = items[:limit]
	}

	return &ByItem{Period: periodInfo(w), Items: items}, nil
}

// WasteTrends buckets window waste by day, Sunday-start week, or calendar
// month, returned ascending by bucket key.
func (s *Service) WasteTrends(ctx context.Context, restaurantID string, w Window, groupBy string) (*Trends, error) {
	switch groupBy {
	case "day", "week", "month":
	case "":
		groupBy = "day"
	default:
		return nil, errs.NewValidation("groupBy must be one of day, week, month")
	}

	rows, err := s.wasteRows(ctx, restaurantID, w, false)
	if err != nil {
		return nil, err
	}

	type acc struct {
		value decimal.Decimal
		count int
	}
	buckets := make(map[string]*acc)
	for _, row := range rows {
		key := trendKey(row.LoggedAt, groupBy)
		g, ok := buckets[key]
		if !ok {
			g = &acc{value: decimal.Zero}
			buckets[key] = g
		}
		g.value = g.value.Add(row.CostValue)
		g.count++
	}

	trends := make([]TrendBucket, 0, len(buckets))
	for key, g := range buckets {
		trends = append(trends, TrendBucket{
			Date:       key,
			TotalValue: round2(g.value),
			Count:      g.count,
		})
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].Date < trends[j].Date })

	return &Trends{Period: periodInfo(w), GroupBy: groupBy, Trends: trends}, nil
}

func trendKey(t time.Time, groupBy string) string {
	switch groupBy {
	case "week":
		return startOfWeek(t).Format("2006-01-02")
	case "month":
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// FoodCostNote flags that the percentage is waste against current inventory
// value, not a true food-cost ratio.
const FoodCostNote = "Food cost % calculation requires sales data (coming in future release)"

// FoodCostAnalysis compares window waste cost against the value of ALL
// current inventory (not period-scoped), with optional period-over-period
// comparison of the waste cost.
func (s *Service) FoodCostAnalysis(ctx context.Context, restaurantID string, w Window, compare bool) (*FoodCost, error) {
	wasteRows, err := s.wasteRows(ctx, restaurantID, w, false)
	if err != nil {
		return nil, err
	}
	wasteCost := sumCostValue(wasteRows)

	var inventory []models.InventoryItem
	if err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Find(&inventory).Error; err != nil {
		return nil, errs.NewDataAccess("load inventory", err)
	}

	inventoryValue := decimal.Zero
	for _, item := range inventory {
		if item.CostPerUnit == nil {
			continue
		}
		inventoryValue = inventoryValue.Add(item.Quantity.Mul(*item.CostPerUnit))
	}

	wastePercentage := decimal.Zero
	if inventoryValue.IsPositive() {
		wastePercentage = wasteCost.Div(inventoryValue).Mul(decimal.NewFromInt(100))
	}

	out := &FoodCost{
		Period:              periodInfo(w),
		WasteCost:           round2(wasteCost),
		TotalInventoryValue: round2(inventoryValue),
		WastePercentage:     round2(wastePercentage),
		Note:                FoodCostNote,
	}

	if compare {
		prev := ComparisonWindow(w)
		prevRows, err := s.wasteRows(ctx, restaurantID, prev, false)
		if err != nil {
			return nil, err
		}
		prevCost := sumCostValue(prevRows)

		cmp := &FoodCostComparison{Change: buildChange(wasteCost, prevCost)}
		cmp.PreviousPeriod.Start = prev.Start.Format(time.RFC3339)
		cmp.PreviousPeriod.End = prev.End.Format(time.RFC3339)
		cmp.PreviousPeriod.WasteCost = round2(prevCost)
		out.Comparison = cmp
	}

	return out, nil
}
