package contracts

// PortfolioSummary aggregates all evaluated records for the latest date.
// It is rebuilt on every run and never mutated after construction; the
// issue lists hold references into the evaluated record set.
type PortfolioSummary struct {
	Date      string `json:"date"` // YYYY-MM-DD
	DayName   string `json:"day_name"`
	IsWeekend bool   `json:"is_weekend"`

	TotalRows     int `json:"total_rows"`
	CriticalCount int `json:"critical_count"`
	WarningCount  int `json:"warning_count"`
	OKCount       int `json:"ok_count"`

	TotalSales           float64 `json:"total_sales"`
	TotalTarget          float64 `json:"total_target"`
	PortfolioAchievement float64 `json:"portfolio_achievement"` // percent, 0 when target sum is 0
	DeltaVsYesterday     float64 `json:"delta_vs_yesterday"`    // mean of per-record deltas

	OverallStatus Status `json:"overall_status"`

	CriticalIssues []*EvaluatedRecord `json:"critical_issues"` // worst first, max 5
	WarningIssues  []*EvaluatedRecord `json:"warning_issues"`  // worst first, max 5
	TopPerformers  []*EvaluatedRecord `json:"top_performers"`  // best first, max 3
	FlaggedItems   []*EvaluatedRecord `json:"flagged_items"`   // all non-OK
}

// AnalysisResult is the output of one full pipeline run.
type AnalysisResult struct {
	Summary *PortfolioSummary `json:"summary"`
	Insight string            `json:"ai_insight"`
}
