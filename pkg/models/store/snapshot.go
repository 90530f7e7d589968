package store

import "time"

// InventorySnapshot is one cached stock position from the last good
// bakehouse fetch, persisted so the console can keep rendering while the
// bakehouse is unreachable.
type InventorySnapshot struct {
	ProductKey       string
	DisplayName      string
	Quantity         int
	RestockThreshold *int
	DailyRate        float64
	UnitCost         float64
	LastUpdated      *time.Time
	CapturedAt       time.Time
}
