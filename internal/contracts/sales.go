package contracts

import "time"

// SalesRecord is one normalized region/product/day row from the dataset.
// Header aliasing and field defaulting happen at ingestion, so consumers
// never see a partially-populated record.
type SalesRecord struct {
	Date             time.Time `json:"date"`
	Region           string    `json:"region"`
	Product          string    `json:"product"`
	TotalSales       float64   `json:"total_sales"`
	TargetDaily      float64   `json:"target_daily"`
	DeltaVsTarget    float64   `json:"delta_vs_target"`    // percent, 0 = target met
	DeltaVsYesterday float64   `json:"delta_vs_yesterday"` // percent
	Avg7dSales       float64   `json:"avg_7d_sales"`
	DayName          string    `json:"day_name"`
	IsWeekend        bool      `json:"is_weekend"`
}

// Violation is a single rule breach. Produced once, never mutated.
type Violation struct {
	Rule     string `json:"rule"` // e.g. "R1.3"
	Severity Status `json:"severity"`
	Message  string `json:"message"`
}

// EvaluatedRecord is a SalesRecord plus its rule evaluation outcome.
// Violations keep rule evaluation order (R1, R2, R3). The weekend
// adjustment may downgrade Status without touching Violations, so a
// WARNING record can still carry CRITICAL-severity entries.
type EvaluatedRecord struct {
	SalesRecord

	Status         Status      `json:"status"`
	Violations     []Violation `json:"violations"`
	AdjustmentNote string      `json:"adjustment_note,omitempty"`
}

// PrimaryIssue returns the message of the first recorded violation, or a
// generic fallback when the record has none.
func (r *EvaluatedRecord) PrimaryIssue() string {
	if len(r.Violations) > 0 {
		return r.Violations[0].Message
	}
	return "Performance below expectations"
}
