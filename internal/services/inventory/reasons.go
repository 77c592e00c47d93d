package inventory

import "savora-system/internal/database/models"

// ReasonOption describes one selectable removal reason.
type ReasonOption struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// WasteReasons covers discarded or lost product.
var WasteReasons = []ReasonOption{
	{Value: "spoilage", Label: "Spoilage", Description: "Went bad in storage"},
	{Value: "expired", Label: "Expired", Description: "Past expiration date"},
	{Value: "damaged", Label: "Damaged", Description: "Physical damage during shipping/storage"},
	{Value: "over-prep", Label: "Over-Preparation", Description: "Made too much, had to discard"},
	{Value: "prep-waste", Label: "Prep Waste", Description: "Trim, peels, unusable parts"},
	{Value: "poor-quality", Label: "Poor Quality", Description: "Didn't meet quality standards"},
	{Value: "short-life", Label: "Short Life", Description: "Delivered too close to expiration"},
}

// ReductionReasons covers intentional non-waste removals.
var ReductionReasons = []ReasonOption{
	{Value: "usage", Label: "Usage", Description: "Used for cooking (normal consumption)"},
	{Value: "donation", Label: "Donation", Description: "Donated to charity"},
	{Value: "discontinued", Label: "Discontinued", Description: "Menu item discontinued"},
}

var reasonCategories = buildReasonCategories()

func buildReasonCategories() map[string]string {
	m := make(map[string]string, len(WasteReasons)+len(ReductionReasons))
	for _, r := range WasteReasons {
		m[r.Value] = models.WasteCategoryWaste
	}
	for _, r := range ReductionReasons {
		m[r.Value] = models.WasteCategoryReduction
	}
	return m
}

// CategoryForReason reports the waste-log category a removal reason belongs
// to, and whether the reason is recognized at all.
func CategoryForReason(reason string) (string, bool) {
	category, ok := reasonCategories[reason]
	return category, ok
}
