package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RestockStatus string

const (
	StatusLow         RestockStatus = "low"
	StatusReorderSoon RestockStatus = "reorder_soon"
	StatusOK          RestockStatus = "ok"
	StatusNoInventory RestockStatus = "no_inventory"
)

// InventoryPosition is one product's live stock state.
// RestockThreshold is nil when the bakehouse has no configured threshold;
// classification substitutes zero.
type InventoryPosition struct {
	ProductKey           string
	DisplayName          string
	CurrentQuantity      int
	RestockThreshold     *int
	DailyConsumptionRate float64
	UnitCost             decimal.Decimal
	LastUpdated          *time.Time
}

// Assessment is the derived restock view of a position. DaysUntilRestock is
// nil when the consumption rate makes the projection undefined. It carries
// the unrounded value; rounding happens at the presentation boundary.
type Assessment struct {
	Status             RestockStatus
	DaysUntilRestock   *float64
	SuggestedOrderQty  int
	EstimatedOrderCost decimal.Decimal
}

// AssessedPosition pairs a position with its classification, as served to views.
type AssessedPosition struct {
	Position   InventoryPosition
	Assessment Assessment
}
