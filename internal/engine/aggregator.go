package engine

import (
	"sort"
	"time"

	"github.com/prasetyo/sentra/internal/contracts"
)

// List caps on the summary's derived lists.
const (
	maxCriticalIssues = 5
	maxWarningIssues  = 5
	maxTopPerformers  = 3
)

// Aggregator rolls the evaluated record table into a portfolio summary.
type Aggregator struct {
	// now supplies the fallback metadata for the empty-input summary.
	now func() time.Time
}

// NewAggregator creates a new aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{now: time.Now}
}

// Aggregate builds the PortfolioSummary for one day's evaluated records.
func (a *Aggregator) Aggregate(records []*contracts.EvaluatedRecord) *contracts.PortfolioSummary {
	if len(records) == 0 {
		return a.emptySummary()
	}

	first := records[0]
	summary := &contracts.PortfolioSummary{
		Date:      first.Date.Format("2006-01-02"),
		DayName:   first.DayName,
		IsWeekend: first.IsWeekend,
		TotalRows: len(records),
	}

	var deltaSum float64
	for _, rec := range records {
		switch rec.Status {
		case contracts.StatusCritical:
			summary.CriticalCount++
		case contracts.StatusWarning:
			summary.WarningCount++
		default:
			summary.OKCount++
		}

		summary.TotalSales += rec.TotalSales
		summary.TotalTarget += rec.TargetDaily
		deltaSum += rec.DeltaVsYesterday
	}

	// Guard against division by zero: achievement is defined as 0 when no
	// target exists.
	if summary.TotalTarget > 0 {
		summary.PortfolioAchievement = summary.TotalSales / summary.TotalTarget * 100
	}
	summary.DeltaVsYesterday = deltaSum / float64(len(records))

	statuses := make([]contracts.Status, 0, len(records))
	for _, rec := range records {
		statuses = append(statuses, rec.Status)
	}
	summary.OverallStatus = contracts.Worst(statuses...)

	summary.CriticalIssues = worstFirst(filterStatus(records, contracts.StatusCritical), maxCriticalIssues)
	summary.WarningIssues = worstFirst(filterStatus(records, contracts.StatusWarning), maxWarningIssues)
	summary.TopPerformers = bestFirst(filterStatus(records, contracts.StatusOK), maxTopPerformers)

	flagged := make([]*contracts.EvaluatedRecord, 0)
	for _, rec := range records {
		if rec.Status != contracts.StatusOK {
			flagged = append(flagged, rec)
		}
	}
	summary.FlaggedItems = flagged

	return summary
}

// emptySummary is the defined result for a day with no records: current
// wall-clock metadata, zero counts, empty lists, overall status OK.
func (a *Aggregator) emptySummary() *contracts.PortfolioSummary {
	now := a.now()
	return &contracts.PortfolioSummary{
		Date:          now.Format("2006-01-02"),
		DayName:       now.Weekday().String(),
		OverallStatus: contracts.StatusOK,

		CriticalIssues: []*contracts.EvaluatedRecord{},
		WarningIssues:  []*contracts.EvaluatedRecord{},
		TopPerformers:  []*contracts.EvaluatedRecord{},
		FlaggedItems:   []*contracts.EvaluatedRecord{},
	}
}

func filterStatus(records []*contracts.EvaluatedRecord, status contracts.Status) []*contracts.EvaluatedRecord {
	out := make([]*contracts.EvaluatedRecord, 0)
	for _, rec := range records {
		if rec.Status == status {
			out = append(out, rec)
		}
	}
	return out
}

// worstFirst sorts ascending by delta_vs_target (most negative first) and
// truncates. Ties break on region then product so output is deterministic.
func worstFirst(records []*contracts.EvaluatedRecord, limit int) []*contracts.EvaluatedRecord {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].DeltaVsTarget != records[j].DeltaVsTarget {
			return records[i].DeltaVsTarget < records[j].DeltaVsTarget
		}
		return tieBreak(records[i], records[j])
	})
	return truncate(records, limit)
}

// bestFirst sorts descending by delta_vs_target and truncates, with the
// same region/product tie-break.
func bestFirst(records []*contracts.EvaluatedRecord, limit int) []*contracts.EvaluatedRecord {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].DeltaVsTarget != records[j].DeltaVsTarget {
			return records[i].DeltaVsTarget > records[j].DeltaVsTarget
		}
		return tieBreak(records[i], records[j])
	})
	return truncate(records, limit)
}

func tieBreak(a, b *contracts.EvaluatedRecord) bool {
	if a.Region != b.Region {
		return a.Region < b.Region
	}
	return a.Product < b.Product
}

func truncate(records []*contracts.EvaluatedRecord, limit int) []*contracts.EvaluatedRecord {
	if len(records) > limit {
		return records[:limit]
	}
	return records
}
