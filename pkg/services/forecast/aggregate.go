package forecast

import (
	"github.com/bakeops/ovenboard/pkg/models/domain"
)

// SummarySet is an insertion-ordered mapping of product key to summary.
// Order is first-seen order of the key in the input, so unsorted output is
// deterministic for a deterministic input, not an artifact of map iteration.
type SummarySet struct {
	order []string
	byKey map[string]*domain.ProductSummary
}

func (s *SummarySet) Len() int {
	return len(s.order)
}

func (s *SummarySet) Get(key string) (domain.ProductSummary, bool) {
	g, ok := s.byKey[key]
	if !ok {
		return domain.ProductSummary{}, false
	}
	return *g, true
}

// Keys returns the product keys in first-seen order.
func (s *SummarySet) Keys() []string {
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}

// Summaries returns copies of the summaries in first-seen order.
func (s *SummarySet) Summaries() []domain.ProductSummary {
	out := make([]domain.ProductSummary, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, *s.byKey[key])
	}
	return out
}

// Aggregate groups canonical records by product key in a single pass,
// accumulating total, count, running min/max and the period span, and
// appending members in arrival order. Duplicate (key, period) pairs are
// both counted; deduplication is not this layer's business.
func Aggregate(records []domain.CanonicalRecord) *SummarySet {
	set := &SummarySet{byKey: make(map[string]*domain.ProductSummary)}

	for _, rec := range records {
		g, ok := set.byKey[rec.ProductKey]
		if !ok {
			g = &domain.ProductSummary{
				ProductKey:  rec.ProductKey,
				DisplayName: rec.DisplayName,
				Min:         rec.Value,
				Max:         rec.Value,
				FirstPeriod: rec.Period,
				LastPeriod:  rec.Period,
				Baseline:    rec.Baseline,
			}
			set.byKey[rec.ProductKey] = g
			set.order = append(set.order, rec.ProductKey)
		}

		g.Total += rec.Value
		g.Count++
		if rec.Value < g.Min {
			g.Min = rec.Value
		}
		if rec.Value > g.Max {
			g.Max = rec.Value
		}
		// ISO dates compare correctly as strings.
		if rec.Period < g.FirstPeriod {
			g.FirstPeriod = rec.Period
		}
		if rec.Period > g.LastPeriod {
			g.LastPeriod = rec.Period
		}
		g.Members = append(g.Members, rec)
		g.Average = g.Total / float64(g.Count)
	}

	return set
}
