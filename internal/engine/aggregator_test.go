package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetyo/sentra/internal/contracts"
)

func evaluated(region, product string, status contracts.Status, deltaTarget float64) *contracts.EvaluatedRecord {
	return &contracts.EvaluatedRecord{
		SalesRecord: contracts.SalesRecord{
			Date:          time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
			Region:        region,
			Product:       product,
			DayName:       "Monday",
			TotalSales:    1000,
			TargetDaily:   1200,
			DeltaVsTarget: deltaTarget,
		},
		Status: status,
	}
}

func TestAggregate_CountsAndMetrics(t *testing.T) {
	records := []*contracts.EvaluatedRecord{
		evaluated("Jakarta", "Electronics", contracts.StatusCritical, -25),
		evaluated("Bandung", "Clothing", contracts.StatusWarning, -8),
		evaluated("Surabaya", "Beauty", contracts.StatusOK, 12),
		evaluated("Jakarta", "Clothing", contracts.StatusOK, 3),
	}
	records[0].DeltaVsYesterday = -12
	records[1].DeltaVsYesterday = -4
	records[2].DeltaVsYesterday = 6
	records[3].DeltaVsYesterday = 2

	summary := NewAggregator().Aggregate(records)

	assert.Equal(t, "2026-08-24", summary.Date)
	assert.Equal(t, "Monday", summary.DayName)
	assert.Equal(t, 4, summary.TotalRows)
	assert.Equal(t, 1, summary.CriticalCount)
	assert.Equal(t, 1, summary.WarningCount)
	assert.Equal(t, 2, summary.OKCount)
	assert.Equal(t, contracts.StatusCritical, summary.OverallStatus)

	assert.InDelta(t, 4000.0, summary.TotalSales, 1e-9)
	assert.InDelta(t, 4800.0, summary.TotalTarget, 1e-9)
	assert.InDelta(t, 4000.0/4800.0*100, summary.PortfolioAchievement, 1e-9)
	assert.InDelta(t, (-12.0-4+6+2)/4, summary.DeltaVsYesterday, 1e-9)

	assert.Len(t, summary.FlaggedItems, 2)
}

func TestAggregate_AchievementZeroTarget(t *testing.T) {
	rec := evaluated("Jakarta", "Electronics", contracts.StatusOK, 0)
	rec.TargetDaily = 0

	summary := NewAggregator().Aggregate([]*contracts.EvaluatedRecord{rec})

	assert.Zero(t, summary.PortfolioAchievement, "achievement is defined as 0 when no target exists")
}

func TestAggregate_IssueOrderingAndCaps(t *testing.T) {
	records := []*contracts.EvaluatedRecord{
		evaluated("A", "P1", contracts.StatusCritical, -12),
		evaluated("B", "P2", contracts.StatusCritical, -40),
		evaluated("C", "P3", contracts.StatusCritical, -18),
		evaluated("D", "P4", contracts.StatusCritical, -25),
		evaluated("E", "P5", contracts.StatusCritical, -11),
		evaluated("F", "P6", contracts.StatusCritical, -33),
		evaluated("G", "P7", contracts.StatusWarning, -3),
		evaluated("H", "P8", contracts.StatusWarning, -9),
		evaluated("I", "P9", contracts.StatusOK, 4),
		evaluated("J", "P10", contracts.StatusOK, 15),
		evaluated("K", "P11", contracts.StatusOK, 9),
		evaluated("L", "P12", contracts.StatusOK, 1),
	}

	summary := NewAggregator().Aggregate(records)

	// critical_issues: ascending by delta_vs_target, capped at 5
	require.Len(t, summary.CriticalIssues, 5)
	deltas := make([]float64, 0)
	for _, issue := range summary.CriticalIssues {
		deltas = append(deltas, issue.DeltaVsTarget)
	}
	assert.Equal(t, []float64{-40, -33, -25, -18, -12}, deltas)

	// warning_issues: worst first
	require.Len(t, summary.WarningIssues, 2)
	assert.Equal(t, "H", summary.WarningIssues[0].Region)

	// top_performers: descending, capped at 3
	require.Len(t, summary.TopPerformers, 3)
	assert.Equal(t, "J", summary.TopPerformers[0].Region)
	assert.Equal(t, "K", summary.TopPerformers[1].Region)
	assert.Equal(t, "I", summary.TopPerformers[2].Region)
}

// Equal deltas fall back to region then product, so repeated runs list
// tied records in the same order.
func TestAggregate_TieBreakIsDeterministic(t *testing.T) {
	records := []*contracts.EvaluatedRecord{
		evaluated("Surabaya", "Clothing", contracts.StatusCritical, -20),
		evaluated("Bandung", "Electronics", contracts.StatusCritical, -20),
		evaluated("Bandung", "Beauty", contracts.StatusCritical, -20),
	}

	summary := NewAggregator().Aggregate(records)

	require.Len(t, summary.CriticalIssues, 3)
	assert.Equal(t, "Beauty", summary.CriticalIssues[0].Product)
	assert.Equal(t, "Electronics", summary.CriticalIssues[1].Product)
	assert.Equal(t, "Surabaya", summary.CriticalIssues[2].Region)
}

func TestAggregate_EmptyInput(t *testing.T) {
	agg := NewAggregator()
	agg.now = func() time.Time {
		return time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC)
	}

	summary := agg.Aggregate(nil)

	assert.Equal(t, "2026-08-26", summary.Date)
	assert.Equal(t, "Wednesday", summary.DayName)
	assert.Zero(t, summary.TotalRows)
	assert.Equal(t, contracts.StatusOK, summary.OverallStatus)
	assert.Empty(t, summary.CriticalIssues)
	assert.Empty(t, summary.WarningIssues)
	assert.Empty(t, summary.TopPerformers)
	assert.Empty(t, summary.FlaggedItems)
}

func TestAggregate_OverallStatusIsMaxSeverity(t *testing.T) {
	records := []*contracts.EvaluatedRecord{
		evaluated("A", "P1", contracts.StatusOK, 5),
		evaluated("B", "P2", contracts.StatusWarning, -4),
	}

	summary := NewAggregator().Aggregate(records)
	assert.Equal(t, contracts.StatusWarning, summary.OverallStatus)
}
