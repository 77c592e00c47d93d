package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ingredient is shared reference data, read-only from this service.
type Ingredient struct {
	ID        string  `gorm:"type:uuid;primaryKey"`
	Name      string  `gorm:"size:255;not null"`
	Category  string  `gorm:"size:128"`
	Unit      string  `gorm:"size:32"`
	Barcode   *string `gorm:"size:64;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// InventoryItem tracks on-hand quantity for one (restaurant, ingredient)
// pair. Quantity never goes below zero; rows are created on first receive
// and kept when quantity reaches zero.
type InventoryItem struct {
	ID              string           `gorm:"type:uuid;primaryKey"`
	RestaurantID    string           `gorm:"type:uuid;not null;uniqueIndex:idx_restaurant_ingredient"`
	IngredientID    string           `gorm:"type:uuid;not null;uniqueIndex:idx_restaurant_ingredient"`
	Quantity        decimal.Decimal  `gorm:"type:numeric(14,3);not null"`
	Unit            string           `gorm:"size:32;not null"`
	MinimumQuantity *decimal.Decimal `gorm:"type:numeric(14,3)"`
	CostPerUnit     *decimal.Decimal `gorm:"type:numeric(12,2)"`
	Location        *string          `gorm:"size:128"`
	ExpirationDate  *time.Time       `gorm:"type:date"`
	LastRestocked   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

const (
	WasteCategoryWaste     = "waste"
	WasteCategoryReduction = "reduction"
)

// WasteLog is an append-only fact table: one row per removal, consumed by
// the reporting aggregator. Rows are never updated or deleted.
type WasteLog struct {
	ID           string          `gorm:"type:uuid;primaryKey"`
	RestaurantID string          `gorm:"type:uuid;not null;index"`
	IngredientID string          `gorm:"type:uuid;not null"`
	Quantity     decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	Unit         string          `gorm:"size:32"`
	CostValue    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Reason       string          `gorm:"size:32;not null"`
	Category     string          `gorm:"size:16;not null;index"`
	LoggedBy     *string         `gorm:"type:uuid"`
	Notes        *string         `gorm:"type:text"`
	LoggedAt     time.Time       `gorm:"not null;index"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

func (w *WasteLog) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
