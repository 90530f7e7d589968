package dashboard

import (
	"github.com/bakeops/ovenboard/pkg/models/domain"
	"github.com/bakeops/ovenboard/pkg/services/view"
)

// Sortable columns of the two views. Numeric columns compare numerically,
// text columns as case-sensitive strings; a nil threshold/baseline/projection
// is a null cell and sorts last either way.

var inventorySchema = view.Schema[domain.AssessedPosition]{
	Fields: map[string]func(domain.AssessedPosition) view.Cell{
		"product": func(p domain.AssessedPosition) view.Cell {
			return view.TextCell(p.Position.ProductKey)
		},
		"name": func(p domain.AssessedPosition) view.Cell {
			return view.TextCell(p.Position.DisplayName)
		},
		"quantity": func(p domain.AssessedPosition) view.Cell {
			return view.NumberCell(float64(p.Position.CurrentQuantity))
		},
		"threshold": func(p domain.AssessedPosition) view.Cell {
			if p.Position.RestockThreshold == nil {
				return view.NullCell()
			}
			return view.NumberCell(float64(*p.Position.RestockThreshold))
		},
		"daily_rate": func(p domain.AssessedPosition) view.Cell {
			return view.NumberCell(p.Position.DailyConsumptionRate)
		},
		"status": func(p domain.AssessedPosition) view.Cell {
			return view.TextCell(string(p.Assessment.Status))
		},
		"days_until_restock": func(p domain.AssessedPosition) view.Cell {
			if p.Assessment.DaysUntilRestock == nil {
				return view.NullCell()
			}
			return view.NumberCell(*p.Assessment.DaysUntilRestock)
		},
		"suggested_order_qty": func(p domain.AssessedPosition) view.Cell {
			return view.NumberCell(float64(p.Assessment.SuggestedOrderQty))
		},
		"estimated_order_cost": func(p domain.AssessedPosition) view.Cell {
			cost, _ := p.Assessment.EstimatedOrderCost.Float64()
			return view.NumberCell(cost)
		},
	},
	Match: func(p domain.AssessedPosition, needle string) bool {
		return view.MatchText(needle, p.Position.DisplayName, p.Position.ProductKey)
	},
	Key: func(p domain.AssessedPosition) string {
		return p.Position.ProductKey
	},
}

var forecastSchema = view.Schema[domain.ProductSummary]{
	Fields: map[string]func(domain.ProductSummary) view.Cell{
		"product": func(s domain.ProductSummary) view.Cell {
			return view.TextCell(s.ProductKey)
		},
		"name": func(s domain.ProductSummary) view.Cell {
			return view.TextCell(s.DisplayName)
		},
		"total": func(s domain.ProductSummary) view.Cell {
			return view.NumberCell(s.Total)
		},
		"count": func(s domain.ProductSummary) view.Cell {
			return view.NumberCell(float64(s.Count))
		},
		"average": func(s domain.ProductSummary) view.Cell {
			return view.NumberCell(s.Average)
		},
		"min": func(s domain.ProductSummary) view.Cell {
			return view.NumberCell(s.Min)
		},
		"max": func(s domain.ProductSummary) view.Cell {
			return view.NumberCell(s.Max)
		},
		"first_period": func(s domain.ProductSummary) view.Cell {
			return view.TextCell(s.FirstPeriod)
		},
		"last_period": func(s domain.ProductSummary) view.Cell {
			return view.TextCell(s.LastPeriod)
		},
		"baseline": func(s domain.ProductSummary) view.Cell {
			if s.Baseline == nil {
				return view.NullCell()
			}
			return view.NumberCell(*s.Baseline)
		},
	},
	Match: func(s domain.ProductSummary, needle string) bool {
		return view.MatchText(needle, s.DisplayName, s.ProductKey)
	},
	Key: func(s domain.ProductSummary) string {
		return s.ProductKey
	},
}
