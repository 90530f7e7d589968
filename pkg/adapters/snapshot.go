package adapters

import (
	"time"

	"github.com/bakeops/ovenboard/pkg/models/domain"
	"github.com/bakeops/ovenboard/pkg/models/store"
	"github.com/shopspring/decimal"
)

func MapPositionToSnapshot(pos domain.InventoryPosition, capturedAt time.Time) store.InventorySnapshot {
	cost, _ := pos.UnitCost.Float64()
	return store.InventorySnapshot{
		ProductKey:       pos.ProductKey,
		DisplayName:      pos.DisplayName,
		Quantity:         pos.CurrentQuantity,
		RestockThreshold: pos.RestockThreshold,
		DailyRate:        pos.DailyConsumptionRate,
		UnitCost:         cost,
		LastUpdated:      pos.LastUpdated,
		CapturedAt:       capturedAt,
	}
}

func MapSnapshotToPosition(snap store.InventorySnapshot) domain.InventoryPosition {
	return domain.InventoryPosition{
		ProductKey:           snap.ProductKey,
		DisplayName:          snap.DisplayName,
		CurrentQuantity:      snap.Quantity,
		RestockThreshold:     snap.RestockThreshold,
		DailyConsumptionRate: snap.DailyRate,
		UnitCost:             decimal.NewFromFloat(snap.UnitCost),
		LastUpdated:          snap.LastUpdated,
	}
}
