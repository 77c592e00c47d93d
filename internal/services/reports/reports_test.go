package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"savora-system/internal/database/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Ingredient{},
		&models.InventoryItem{},
		&models.WasteLog{},
	))
	return db
}

func seedIngredient(t *testing.T, db *gorm.DB, name, category string) models.Ingredient {
	t.Helper()

	ingredient := models.Ingredient{Name: name, Category: category, Unit: "kg"}
	require.NoError(t, db.Create(&ingredient).Error)
	return ingredient
}

func seedLog(t *testing.T, db *gorm.DB, ingredientID, reason, category, cost string, loggedAt time.Time) {
	t.Helper()

	entry := models.WasteLog{
		RestaurantID: "rest-1",
		IngredientID: ingredientID,
		Quantity:     decimal.NewFromInt(1),
		Unit:         "kg",
		CostValue:    decimal.RequireFromString(cost),
		Reason:       reason,
		Category:     category,
		LoggedAt:     loggedAt,
	}
	require.NoError(t, db.Create(&entry).Error)
}

func testWindow() Window {
	return Window{
		Type:  "week",
		Start: time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC),
	}
}

func TestWasteSummary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ingredient := seedIngredient(t, db, "Chicken Breast", "protein")

	in := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	seedLog(t, db, ingredient.ID, "spoilage", models.WasteCategoryWaste, "10.00", in)
	seedLog(t, db, ingredient.ID, "expired", models.WasteCategoryWaste, "5.00", in)
	seedLog(t, db, ingredient.ID, "usage", models.WasteCategoryReduction, "7.00", in)
	// Outside the window.
	seedLog(t, db, ingredient.ID, "spoilage", models.WasteCategoryWaste, "99.00",
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))

	out, err := svc.WasteSummary(context.Background(), "rest-1", testWindow(), false)
	require.NoError(t, err)

	assert.Equal(t, 15.0, out.Waste.TotalValue)
	assert.Equal(t, 2, out.Waste.TotalCount)
	assert.Equal(t, 7.5, out.Waste.AvgPerIncident)
	assert.Equal(t, 22.0, out.AllReductions.TotalValue, "all reductions span both categories")
	assert.Nil(t, out.Comparison)
}

func TestWasteSummaryComparison(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ingredient := seedIngredient(t, db, "Salmon", "protein")

	w := testWindow()
	seedLog(t, db, ingredient.ID, "spoilage", models.WasteCategoryWaste, "30.00",
		w.Start.Add(12*time.Hour))
	seedLog(t, db, ingredient.ID, "spoilage", models.WasteCategoryWaste, "20.00",
		w.Start.Add(-12*time.Hour))

	out, err := svc.WasteSummary(context.Background(), "rest-1", w, true)
	require.NoError(t, err)
	require.NotNil(t, out.Comparison)

	assert.Equal(t, 20.0, out.Comparison.PreviousPeriod.TotalValue)
	assert.Equal(t, 10.0, out.Comparison.Change.Value)
	assert.Equal(t, 50.0, out.Comparison.Change.Percent)
	assert.Equal(t, "increased", out.Comparison.Change.Direction)
}

func TestWasteSummaryComparisonZeroPrevious(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ingredient := seedIngredient(t, db, "Basil", "produce")

	w := testWindow()
	seedLog(t, db, ingredient.ID, "spoilage", models.WasteCategoryWaste, "12.00",
		w.Start.Add(time.Hour))

	out, err := svc.WasteSummary(context.Background(), "rest-1", w, true)
	require.NoError(t, err)
	require.NotNil(t, out.Comparison)

	assert.Equal(t, 0.0, out.Comparison.Change.Percent, "no percent against an empty previous period")
	assert.Equal(t, "increased", out.Comparison.Change.Direction)
}

func TestWasteByCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	chicken := seedIngredient(t, db, "Chicken Breast", "protein")
	lettuce := seedIngredient(t, db, "Lettuce", "produce")

	in := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	seedLog(t, db, chicken.ID, "spoilage", models.WasteCategoryWaste, "12.00", in)
	seedLog(t, db, chicken.ID, "expired", models.WasteCategoryWaste, "8.00", in)
	seedLog(t, db, lettuce.ID, "spoilage", models.WasteCategoryWaste, "3.00", in)
	// Reductions never enter waste reports.
	seedLog(t, db, chicken.ID, "usage", models.WasteCategoryReduction, "40.00", in)

	out, err := svc.WasteByCategory(context.Background(), "rest-1", testWindow())
	require.NoError(t, err)
	require.Len(t, out.Categories, 2)

	assert.Equal(t, "protein", out.Categories[0].Category)
	assert.Equal(t, 20.0, out.Categories[0].TotalValue)
	assert.Equal(t, 2, out.Categories[0].Count)
	assert.Equal(t, "produce", out.Categories[1].Category)
	assert.Equal(t, 23.0, out.TotalWaste, "total equals the sum of the groups")
}

func TestWasteByReason(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ingredient := seedIngredient(t, db, "Milk", "dairy")

	in := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	seedLog(t, db, ingredient.ID, "spoilage", models.WasteCategoryWaste, "6.00", in)
	seedLog(t, db, ingredient.ID, "spoilage", models.WasteCategoryWaste, "4.00", in)
	seedLog(t, db, ingredient.ID, "damaged", models.WasteCategoryWaste, "2.00", in)

	out, err := svc.WasteByReason(context.Background(), "rest-1", testWindow())
	require.NoError(t, err)
	require.Len(t, out.Reasons, 2)

	assert.Equal(t, "spoilage", out.Reasons[0].Reason)
	assert.Equal(t, 10.0, out.Reasons[0].TotalValue)
	assert.Equal(t, 2, out.Reasons[0].Count)
	assert.Equal(t, 12.0, out.TotalWaste)
}

func TestWasteByItemSortsAndLimits(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	a := seedIngredient(t, db, "Beef", "protein")
	b := seedIngredient(t, db, "Cheese", "dairy")
	c := seedIngredient(t, db, "Parsley", "produce")

	in := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	seedLog(t, db, a.ID, "spoilage", models.WasteCategoryWaste, "5.00", in)
	seedLog(t, db, b.ID, "spoilage", models.WasteCategoryWaste, "9.00", in)
	seedLog(t, db, c.ID, "spoilage", models.WasteCategoryWaste, "1.00", in)

	out, err := svc.WasteByItem(context.Background(), "rest-1", testWindow(), 2)
	require.NoError(t, err)
	require.Len(t, out.Items, 2)

	assert.Equal(t, "Cheese", out.Items[0].IngredientName)
	assert.Equal(t, 9.0, out.Items[0].TotalValue)
	assert.Equal(t, "Beef", out.Items[1].IngredientName)
}

func TestWasteTrendsDayBuckets(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ingredient := seedIngredient(t, db, "Bread", "bakery")

	seedLog(t, db, ingredient.ID, "expired", models.WasteCategoryWaste, "2.00",
		time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC))
	seedLog(t, db, ingredient.ID, "expired", models.WasteCategoryWaste, "3.00",
		time.Date(2026, 8, 24, 18, 0, 0, 0, time.UTC))
	seedLog(t, db, ingredient.ID, "expired", models.WasteCategoryWaste, "4.00",
		time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC))

	out, err := svc.WasteTrends(context.Background(), "rest-1", testWindow(), "day")
	require.NoError(t, err)
	require.Len(t, out.Trends, 2)

	assert.Equal(t, "2026-08-24", out.Trends[0].Date)
	assert.Equal(t, 5.0, out.Trends[0].TotalValue)
	assert.Equal(t, 2, out.Trends[0].Count)
	assert.Equal(t, "2026-08-25", out.Trends[1].Date)
}

func TestWasteTrendsRejectsUnknownGroupBy(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, err := svc.WasteTrends(context.Background(), "rest-1", testWindow(), "hour")
	require.Error(t, err)
}

func TestFoodCostAnalysis(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ingredient := seedIngredient(t, db, "Chicken Breast", "protein")

	cost := decimal.RequireFromString("5.00")
	item := models.InventoryItem{
		RestaurantID: "rest-1",
		IngredientID: ingredient.ID,
		Quantity:     decimal.NewFromInt(40),
		Unit:         "kg",
		CostPerUnit:  &cost,
	}
	require.NoError(t, db.Create(&item).Error)

	seedLog(t, db, ingredient.ID, "spoilage", models.WasteCategoryWaste, "25.00",
		time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC))

	out, err := svc.FoodCostAnalysis(context.Background(), "rest-1", testWindow(), false)
	require.NoError(t, err)

	assert.Equal(t, 25.0, out.WasteCost)
	assert.Equal(t, 200.0, out.TotalInventoryValue)
	assert.Equal(t, 12.5, out.WastePercentage)
	assert.Equal(t, FoodCostNote, out.Note)
}

func TestFoodCostAnalysisEmptyInventory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	out, err := svc.FoodCostAnalysis(context.Background(), "rest-1", testWindow(), false)
	require.NoError(t, err)

	assert.Equal(t, 0.0, out.WastePercentage)
	assert.Equal(t, 0.0, out.TotalInventoryValue)
}
