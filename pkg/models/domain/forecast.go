package domain

// CanonicalRecord is one observation for one product in one period,
// normalized from whatever shape the bakehouse API returned.
type CanonicalRecord struct {
	ProductKey  string
	DisplayName string
	Period      string // ISO date (YYYY-MM-DD), sorts lexicographically
	Value       float64
	Baseline    *float64          // nil when the source had no comparison value
	Extra       map[string]string // pattern, day-of-week, etc.; rendered only if present
}

// ProductSummary aggregates every record sharing one product key.
type ProductSummary struct {
	ProductKey  string
	DisplayName string
	Total       float64
	Count       int
	Average     float64
	Min         float64
	Max         float64
	FirstPeriod string
	LastPeriod  string
	Baseline    *float64 // first member's baseline, not an aggregate
	Members     []CanonicalRecord
}
