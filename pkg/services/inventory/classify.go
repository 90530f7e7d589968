package inventory

import (
	"math"

	"github.com/bakeops/ovenboard/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// Classify derives the restock view of a position. leadTimeDays is the
// configured order lead time shared by every position in a view.
//
// Precedence:
//  1. A non-positive consumption rate makes the day projection undefined;
//     the position is no_inventory when empty, otherwise ok.
//  2. daysUntilRestock = max(0, (quantity - threshold) / rate).
//  3. low when quantity <= threshold; reorder_soon when the projection is
//     inside the lead time; otherwise ok.
//
// The suggested order tops the position up to threshold plus one lead time
// of consumption, floored at zero. Comparisons use the unrounded projection;
// rounding is a presentation concern.
//
// Classify never fails: negative quantities are rejected upstream before an
// InventoryPosition exists.
func Classify(pos domain.InventoryPosition, leadTimeDays int) domain.Assessment {
	threshold := 0
	if pos.RestockThreshold != nil {
		threshold = *pos.RestockThreshold
	}

	target := float64(threshold) + pos.DailyConsumptionRate*float64(leadTimeDays)
	suggested := int(math.Max(0, math.Round(target-float64(pos.CurrentQuantity))))

	assessment := domain.Assessment{
		SuggestedOrderQty:  suggested,
		EstimatedOrderCost: pos.UnitCost.Mul(decimal.NewFromInt(int64(suggested))),
	}

	if pos.DailyConsumptionRate <= 0 {
		if pos.CurrentQuantity == 0 {
			assessment.Status = domain.StatusNoInventory
		} else {
			assessment.Status = domain.StatusOK
		}
		return assessment
	}

	days := math.Max(0, (float64(pos.CurrentQuantity)-float64(threshold))/pos.DailyConsumptionRate)
	assessment.DaysUntilRestock = &days

	switch {
	case pos.CurrentQuantity <= threshold:
		assessment.Status = domain.StatusLow
	case days <= float64(leadTimeDays):
		assessment.Status = domain.StatusReorderSoon
	default:
		assessment.Status = domain.StatusOK
	}

	return assessment
}

// ClassifyAll assesses every position with a shared lead time.
func ClassifyAll(positions []domain.InventoryPosition, leadTimeDays int) []domain.AssessedPosition {
	out := make([]domain.AssessedPosition, 0, len(positions))
	for _, pos := range positions {
		out = append(out, domain.AssessedPosition{
			Position:   pos,
			Assessment: Classify(pos, leadTimeDays),
		})
	}
	return out
}
