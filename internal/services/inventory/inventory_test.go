package inventory

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
	"savora-system/internal/errs"
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

func seedIngredient(t *testing.T, db *gorm.DB, name, barcode string) models.Ingredient {
	t.Helper()

	ingredient := models.Ingredient{
		Name:     name,
		Category: "protein",
		Unit:     "kg",
	}
	if barcode != "" {
		ingredient.Barcode = &barcode
	}
	require.NoError(t, db.Create(&ingredient).Error)
	return ingredient
}

func TestReceiveCreatesRowOnFirstReceipt(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ingredient := seedIngredient(t, db, "Chicken Breast", "")

	items, err := svc.Receive(context.Background(), "rest-1", []ReceiveItem{
		{IngredientID: ingredient.ID, Quantity: decimal.NewFromInt(10), Unit: "kg"},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.True(t, items[0].Quantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "kg", items[0].Unit)
	assert.NotNil(t, items[0].LastRestocked)
}

func TestReceiveIncrementsExistingRow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ingredient := seedIngredient(t, db, "Salmon", "")

	_, err := svc.Receive(context.Background(), "rest-1", []ReceiveItem{
		{IngredientID: ingredient.ID, Quantity: decimal.NewFromInt(10), Unit: "kg"},
	})
	require.NoError(t, err)

	items, err := svc.Receive(context.Background(), "rest-1", []ReceiveItem{
		{IngredientID: ingredient.ID, Quantity: decimal.NewFromInt(5), Unit: "kg"},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Quantity.Equal(decimal.NewFromInt(15)), "got %s", items[0].Quantity)

	var count int64
	require.NoError(t, db.Model(&models.InventoryItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "second receive must not create a second row")
}

func TestReceiveKeepsExpirationWhenOmitted(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ingredient := seedIngredient(t, db, "Milk", "")

	expiration := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.Receive(context.Background(), "rest-1", []ReceiveItem{
		{IngredientID: ingredient.ID, Quantity: decimal.NewFromInt(4), Unit: "l", ExpirationDate: &expiration},
	})
	require.NoError(t, err)

	items, err := svc.Receive(context.Background(), "rest-1", []ReceiveItem{
		{IngredientID: ingredient.ID, Quantity: decimal.NewFromInt(2), Unit: "l"},
	})
	require.NoError(t, err)
	require.NotNil(t, items[0].ExpirationDate)
	assert.Equal(t, expiration.Format("2006-01-02"), items[0].ExpirationDate.Format("2006-01-02"))
}

func TestReceiveRejectsNonPositiveQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ingredient := seedIngredient(t, db, "Flour", "")

	_, err := svc.Receive(context.Background(), "rest-1", []ReceiveItem{
		{IngredientID: ingredient.ID, Quantity: decimal.Zero, Unit: "kg"},
	})
	require.Error(t, err)

	var validation *errs.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestRemoveInsufficientStockLeavesRowUnchanged(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ingredient := seedIngredient(t, db, "Beef", "")

	_, err := svc.Receive(context.Background(), "rest-1", []ReceiveItem{
		{IngredientID: ingredient.ID, Quantity: decimal.NewFromInt(15), Unit: "kg"},
	})
	require.NoError(t, err)

	_, err = svc.Remove(context.Background(), "rest-1", "", []RemoveItem{
		{IngredientID: ingredient.ID, Quantity: decimal.NewFromInt(20), Reason: "spoilage"},
	})
	require.Error(t, err)

	var insufficient *errs.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(15)))
	assert.True(t, insufficient.Requested.Equal(decimal.NewFromInt(20)))

	var row models.InventoryItem
	require.NoError(t, db.Where("ingredient_id = ?", ingredient.ID).First(&row).Error)
	assert.True(t, row.Quantity.Equal(decimal.NewFromInt(15)), "rejected removal must not change quantity")

	var logs int64
	require.NoError(t, db.Model(&models.WasteLog{}).Count(&logs).Error)
	assert.EqualValues(t, 0, logs, "rejected removal must not be logged")
}

func TestRemoveDownToZero(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ingredient := seedIngredient(t, db, "Butter", "")

	_, err := svc.Receive(context.Background(), "rest-1", []ReceiveItem{
		{IngredientID: ingredient.ID, Quantity: decimal.NewFromInt(10), Unit: "kg"},
	})
	require.NoError(t, err)
	_, err = svc.Receive(context.Background(), "rest-1", []ReceiveItem{
		{IngredientID: ingredient.ID, Quantity: decimal.NewFromInt(5), Unit: "kg"},
	})
	require.NoError(t, err)

	_, err = svc.Remove(context.Background(), "rest-1", "", []RemoveItem{
		{IngredientID: ingredient.ID, Quantity: decimal.NewFromInt(20), Reason: "usage"},
	})
	require.Error(t, err)

	results, err := svc.Remove(context.Background(), "rest-1", "", []RemoveItem{
		{IngredientID: ingredient.ID, Quantity: decimal.NewFromInt(15), Reason: "usage"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].NewQuantity.IsZero(), "got %s", results[0].NewQuantity)

	var count int64
	require.NoError(t, db.Model(&models.InventoryItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "row is kept at zero quantity")
}

func TestRemoveRejectsUnknownReason(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ingredient := seedIngredient(t, db, "Eggs", "")

	_, err := svc.Remove(context.Background(), "rest-1", "", []RemoveItem{
		{IngredientID: ingredient.ID, Quantity: decimal.NewFromInt(1), Reason: "vanished"},
	})
	require.Error(t, err)

	var validation *errs.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestRemoveAppendsWasteLog(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ingredient := seedIngredient(t, db, "Tomatoes", "")

	_, err := svc.Receive(context.Background(), "rest-1", []ReceiveItem{
		{IngredientID: ingredient.ID, Quantity: decimal.NewFromInt(8), Unit: "kg"},
	})
	require.NoError(t, err)

	cost := decimal.RequireFromString("2.50")
	require.NoError(t, db.Model(&models.InventoryItem{}).
		Where("ingredient_id = ?", ingredient.ID).
		Update("cost_per_unit", cost).Error)

	_, err = svc.Remove(context.Background(), "rest-1", "user-7", []RemoveItem{
		{IngredientID: ingredient.ID, Quantity: decimal.NewFromInt(3), Reason: "spoilage"},
	})
	require.NoError(t, err)
	_, err = svc.Remove(context.Background(), "rest-1", "", []RemoveItem{
		{IngredientID: ingredient.ID, Quantity: decimal.NewFromInt(2), Reason: "donation"},
	})
	require.NoError(t, err)

	var logs []models.WasteLog
	require.NoError(t, db.Order("logged_at").Find(&logs).Error)
	require.Len(t, logs, 2)

	assert.Equal(t, models.WasteCategoryWaste, logs[0].Category)
	assert.Equal(t, "spoilage", logs[0].Reason)
	assert.Equal(t, "7.5", logs[0].CostValue.String())
	require.NotNil(t, logs[0].LoggedBy)
	assert.Equal(t, "user-7", *logs[0].LoggedBy)

	assert.Equal(t, models.WasteCategoryReduction, logs[1].Category)
	assert.Equal(t, "donation", logs[1].Reason)
	assert.Nil(t, logs[1].LoggedBy)
}

func TestLookupBarcode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	seedIngredient(t, db, "Olive Oil", "0123456789")

	ingredient, err := svc.LookupBarcode(context.Background(), "0123456789")
	require.NoError(t, err)
	assert.Equal(t, "Olive Oil", ingredient.Name)

	_, err = svc.LookupBarcode(context.Background(), "9999999999")
	var notFound *errs.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = svc.LookupBarcode(context.Background(), "")
	var validation *errs.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestListScopedToRestaurant(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	a := seedIngredient(t, db, "Rice", "")
	b := seedIngredient(t, db, "Beans", "")

	_, err := svc.Receive(context.Background(), "rest-1", []ReceiveItem{
		{IngredientID: a.ID, Quantity: decimal.NewFromInt(5), Unit: "kg"},
	})
	require.NoError(t, err)
	_, err = svc.Receive(context.Background(), "rest-2", []ReceiveItem{
		{IngredientID: b.ID, Quantity: decimal.NewFromInt(3), Unit: "kg"},
	})
	require.NoError(t, err)

	items, err := svc.List(context.Background(), "rest-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].IngredientID)
	require.NotNil(t, items[0].Ingredient)
	assert.Equal(t, "Rice", items[0].Ingredient.Name)
}

func TestCategoryForReason(t *testing.T) {
	category, ok := CategoryForReason("expired")
	require.True(t, ok)
	assert.Equal(t, models.WasteCategoryWaste, category)

	category, ok = CategoryForReason("usage")
	require.True(t, ok)
	assert.Equal(t, models.WasteCategoryReduction, category)

	_, ok = CategoryForReason("misplaced")
	assert.False(t, ok)
}
