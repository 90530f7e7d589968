package adapters

import (
	"fmt"
	"math"

	"github.com/bakeops/ovenboard/pkg/models/api"
	"github.com/bakeops/ovenboard/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// MalformedRecordError marks a record the bakehouse sent that cannot be
// resolved into a canonical shape. Callers skip such records and keep the
// rest of the view.
type MalformedRecordError struct {
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: %s", e.Reason)
}

// MapRawForecastRecordToDomain resolves one loose forecast record into a
// CanonicalRecord. Field resolution is a priority chain, first present wins:
// key sku > displayName > itemGuid, period date > period,
// value value > forecastQty > quantity. A zero value is a real value;
// absence is signalled by the pointer, never by zero.
func MapRawForecastRecordToDomain(raw api.RawForecastRecord) (domain.CanonicalRecord, error) {
	key := firstNonEmpty(raw.SKU, raw.DisplayName, raw.ItemGuid)
	if key == "" {
		return domain.CanonicalRecord{}, &MalformedRecordError{Reason: "no resolvable product key"}
	}

	period := firstNonEmpty(raw.Date, raw.Period)
	if period == "" {
		return domain.CanonicalRecord{}, &MalformedRecordError{Reason: fmt.Sprintf("record %q has no date or period", key)}
	}

	value := firstNonNilFloat(raw.Value, raw.ForecastQty, raw.Quantity)
	if value == nil {
		return domain.CanonicalRecord{}, &MalformedRecordError{Reason: fmt.Sprintf("record %q has no usable value", key)}
	}

	name := raw.DisplayName
	if name == "" {
		name = key
	}

	rec := domain.CanonicalRecord{
		ProductKey:  key,
		DisplayName: name,
		Period:      period,
		Value:       *value,
		Baseline:    raw.Baseline,
	}

	if raw.Pattern != "" || raw.DayOfWeek != "" {
		rec.Extra = map[string]string{}
		if raw.Pattern != "" {
			rec.Extra["pattern"] = raw.Pattern
		}
		if raw.DayOfWeek != "" {
			rec.Extra["day_of_week"] = raw.DayOfWeek
		}
	}

	return rec, nil
}

// MapRawInventoryRecordToDomain resolves one loose inventory record into an
// InventoryPosition. A negative quantity violates the classifier's
// precondition, so it is rejected here rather than handled downstream.
func MapRawInventoryRecordToDomain(raw api.RawInventoryRecord) (domain.InventoryPosition, error) {
	key := firstNonEmpty(raw.SKU, raw.DisplayName, raw.ItemGuid)
	if key == "" {
		return domain.InventoryPosition{}, &MalformedRecordError{Reason: "no resolvable product key"}
	}

	qty := firstNonNilInt(raw.CurrentQuantity, raw.Quantity)
	if qty == nil {
		return domain.InventoryPosition{}, &MalformedRecordError{Reason: fmt.Sprintf("position %q has no usable quantity", key)}
	}
	if *qty < 0 {
		return domain.InventoryPosition{}, &MalformedRecordError{Reason: fmt.Sprintf("position %q has negative quantity %d", key, *qty)}
	}
	if raw.RestockThreshold != nil && *raw.RestockThreshold < 0 {
		return domain.InventoryPosition{}, &MalformedRecordError{Reason: fmt.Sprintf("position %q has negative threshold %d", key, *raw.RestockThreshold)}
	}

	name := raw.DisplayName
	if name == "" {
		name = key
	}

	rate := firstNonNilFloat(raw.DailyConsumptionRate, raw.AvgDailyUsage)
	pos := domain.InventoryPosition{
		ProductKey:       key,
		DisplayName:      name,
		CurrentQuantity:  *qty,
		RestockThreshold: raw.RestockThreshold,
		LastUpdated:      raw.LastUpdated,
	}
	if rate != nil {
		pos.DailyConsumptionRate = *rate
	}
	if raw.UnitCost != nil {
		pos.UnitCost = decimal.NewFromFloat(*raw.UnitCost)
	}

	return pos, nil
}

// NormalizeForecastRecords maps a whole payload, skipping malformed records.
// Returns the canonical records plus the number skipped.
func NormalizeForecastRecords(raws []api.RawForecastRecord) ([]domain.CanonicalRecord, int) {
	records := make([]domain.CanonicalRecord, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		rec, err := MapRawForecastRecordToDomain(raw)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped
}

// NormalizeInventoryRecords maps a whole payload, skipping malformed records.
func NormalizeInventoryRecords(raws []api.RawInventoryRecord) ([]domain.InventoryPosition, int) {
	positions := make([]domain.InventoryPosition, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		pos, err := MapRawInventoryRecordToDomain(raw)
		if err != nil {
			skipped++
			continue
		}
		positions = append(positions, pos)
	}
	return positions, skipped
}

// MapAssessedPositionToRow renders one classified position. Days until
// restock is rounded to one decimal here; internal comparisons always use
// the unrounded value.
func MapAssessedPositionToRow(p domain.AssessedPosition) api.InventoryRow {
	row := api.InventoryRow{
		Product:            p.Position.ProductKey,
		Name:               p.Position.DisplayName,
		Quantity:           p.Position.CurrentQuantity,
		Threshold:          p.Position.RestockThreshold,
		DailyRate:          p.Position.DailyConsumptionRate,
		Status:             string(p.Assessment.Status),
		SuggestedOrderQty:  p.Assessment.SuggestedOrderQty,
		EstimatedOrderCost: p.Assessment.EstimatedOrderCost.StringFixed(2),
		LastUpdated:        p.Position.LastUpdated,
	}
	if p.Assessment.DaysUntilRestock != nil {
		rounded := math.Round(*p.Assessment.DaysUntilRestock*10) / 10
		row.DaysUntilRestock = &rounded
	}
	return row
}

// MapSummaryToForecastRow renders one product group. A non-nil members slice
// means the group is expanded; members are expected in chronological order.
func MapSummaryToForecastRow(s domain.ProductSummary, members []domain.CanonicalRecord) api.ForecastRow {
	row := api.ForecastRow{
		Product:     s.ProductKey,
		Name:        s.DisplayName,
		Total:       s.Total,
		Count:       s.Count,
		Average:     s.Average,
		Min:         s.Min,
		Max:         s.Max,
		FirstPeriod: s.FirstPeriod,
		LastPeriod:  s.LastPeriod,
		Baseline:    s.Baseline,
		Expanded:    members != nil,
	}
	for _, m := range members {
		row.Members = append(row.Members, api.ForecastPoint{
			Period:   m.Period,
			Value:    m.Value,
			Baseline: m.Baseline,
			Extra:    m.Extra,
		})
	}
	return row
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonNilFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstNonNilInt(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
