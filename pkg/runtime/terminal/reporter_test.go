package terminal

import (
	"bytes"
	"testing"

	"github.com/bakeops/ovenboard/pkg/models/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleInventory(t *testing.T) {
	threshold := 20
	days := 3.0

	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	err := reporter.HandleInventory(api.InventoryView{
		LeadTimeDays:   7,
		SkippedRecords: 1,
		Rows: []api.InventoryRow{
			{
				Product:            "rye-800",
				Name:               "Rye Loaf",
				Quantity:           50,
				Threshold:          &threshold,
				DailyRate:          10,
				Status:             "reorder_soon",
				DaysUntilRestock:   &days,
				SuggestedOrderQty:  40,
				EstimatedOrderCost: "96.00",
			},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Inventory (1 positions, lead time 7 days)")
	assert.Contains(t, out, "Skipped 1 malformed record(s).")
	assert.Contains(t, out, "Rye Loaf [rye-800]")
	assert.Contains(t, out, "threshold: 20")
	assert.Contains(t, out, "days until restock: 3.0")
	assert.Contains(t, out, "suggested order: 40 (est. 96.00)")
}

func TestHandleInventory_StaleSnapshot(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	err := reporter.HandleInventory(api.InventoryView{Stale: true, LeadTimeDays: 7})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "STALE snapshot")
}

func TestHandleForecast(t *testing.T) {
	baseline := 11.5

	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	err := reporter.HandleForecast(api.ForecastView{
		Cached: true,
		Rows: []api.ForecastRow{
			{
				Product:     "rye-800",
				Name:        "Rye Loaf",
				Total:       40,
				Count:       2,
				Average:     20,
				Min:         10,
				Max:         30,
				FirstPeriod: "2026-03-01",
				LastPeriod:  "2026-03-02",
				Expanded:    true,
				Members: []api.ForecastPoint{
					{Period: "2026-03-01", Value: 10, Baseline: &baseline},
					{Period: "2026-03-02", Value: 30},
				},
			},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Forecast (1 products, cached)")
	assert.Contains(t, out, "2026-03-01 .. 2026-03-02")
	assert.Contains(t, out, "total: 40.0")
	assert.Contains(t, out, "2026-03-01: 10.0 (baseline 11.5)")
	assert.Contains(t, out, "2026-03-02: 30.0")
}
