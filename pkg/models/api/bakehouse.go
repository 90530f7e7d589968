package api

import (
	"encoding/json"
	"time"
)

// RawForecastRecord is one per-period record as the bakehouse API ships it.
// The engines have grown several spellings for the same quantities over the
// years; every candidate field is a pointer so that an absent field is
// distinguishable from a legitimate zero. Resolution order lives in the
// adapters package.
type RawForecastRecord struct {
	SKU         string `json:"sku,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	ItemGuid    string `json:"itemGuid,omitempty"`

	Date   string `json:"date,omitempty"`
	Period string `json:"period,omitempty"`

	Value       *float64 `json:"value,omitempty"`
	ForecastQty *float64 `json:"forecastQty,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`

	Baseline  *float64 `json:"baseline,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	DayOfWeek string   `json:"dayOfWeek,omitempty"`
}

// RawInventoryRecord is one stock position as returned by GET /inventory.
type RawInventoryRecord struct {
	SKU         string `json:"sku,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	ItemGuid    string `json:"itemGuid,omitempty"`

	CurrentQuantity *int `json:"currentQuantity,omitempty"`
	Quantity        *int `json:"quantity,omitempty"`

	RestockThreshold     *int     `json:"restockThreshold,omitempty"`
	DailyConsumptionRate *float64 `json:"dailyConsumptionRate,omitempty"`
	AvgDailyUsage        *float64 `json:"avgDailyUsage,omitempty"`
	UnitCost             *float64 `json:"unitCost,omitempty"`

	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// PositionEdit is the payload persisted via PUT /inventory/{sku}.
type PositionEdit struct {
	CurrentQuantity  *int `json:"currentQuantity,omitempty"`
	RestockThreshold *int `json:"restockThreshold,omitempty"`
}

type ForecastRequest struct {
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	Increment     string  `json:"increment"`
	GrowthRate    float64 `json:"growthRate"`
	LookbackWeeks int     `json:"lookbackWeeks"`
}

type ForecastResponse struct {
	Summary       map[string]any      `json:"summary,omitempty"`
	DailyForecast []RawForecastRecord `json:"dailyForecast"`
	Data          json.RawMessage     `json:"data,omitempty"`
	Cached        bool                `json:"cached"`
}

type HealthStatus struct {
	Database string `json:"database"`
}

// ErrorEnvelope is the error body every bakehouse endpoint uses.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Message string       `json:"message"`
	Details ErrorDetails `json:"details,omitempty"`
}

// ErrorDetails accepts either a single string or an array of strings.
type ErrorDetails []string

func (d *ErrorDetails) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*d = ErrorDetails{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*d = many
	return nil
}
