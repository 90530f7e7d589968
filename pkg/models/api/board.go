package api

import "time"

// InventoryRow is one rendered row of the inventory view.
// DaysUntilRestock is rounded to one decimal here and only here.
type InventoryRow struct {
	Product            string     `json:"product"`
	Name               string     `json:"name"`
	Quantity           int        `json:"quantity"`
	Threshold          *int       `json:"threshold,omitempty"`
	DailyRate          float64    `json:"daily_rate"`
	Status             string     `json:"status"`
	DaysUntilRestock   *float64   `json:"days_until_restock,omitempty"`
	SuggestedOrderQty  int        `json:"suggested_order_qty"`
	EstimatedOrderCost string     `json:"estimated_order_cost"`
	LastUpdated        *time.Time `json:"last_updated,omitempty"`
}

type InventoryView struct {
	Rows           []InventoryRow `json:"rows"`
	SkippedRecords int            `json:"skipped_records"`
	Stale          bool           `json:"stale"`
	LeadTimeDays   int            `json:"lead_time_days"`
}

// ForecastPoint is one member record of an expanded product group,
// ordered oldest to newest.
type ForecastPoint struct {
	Period   string            `json:"period"`
	Value    float64           `json:"value"`
	Baseline *float64          `json:"baseline,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

type ForecastRow struct {
	Product     string          `json:"product"`
	Name        string          `json:"name"`
	Total       float64         `json:"total"`
	Count       int             `json:"count"`
	Average     float64         `json:"average"`
	Min         float64         `json:"min"`
	Max         float64         `json:"max"`
	FirstPeriod string          `json:"first_period"`
	LastPeriod  string          `json:"last_period"`
	Baseline    *float64        `json:"baseline,omitempty"`
	Expanded    bool            `json:"expanded"`
	Members     []ForecastPoint `json:"members,omitempty"`
}

type ForecastView struct {
	Rows           []ForecastRow `json:"rows"`
	SkippedRecords int           `json:"skipped_records"`
	Cached         bool          `json:"cached"`
}
