package engine

import (
	"fmt"
	"math"

	"github.com/prasetyo/sentra/internal/contracts"
)

// Rule thresholds. All deltas are percentages against a baseline of 0
// meaning "met"; the R3 thresholds are ratios of sales to 7-day average.
const (
	r1CriticalBelow = -10.0 // delta_vs_target
	r2CriticalBelow = -15.0 // delta_vs_yesterday
	r2WarningBelow  = -5.0
	r3CriticalRatio = 0.70 // total_sales / avg_7d_sales
	r3WarningRatio  = 0.85
)

// weekendNote is the fixed adjustment note set by R4.
const weekendNote = "Downgraded from CRITICAL due to weekend"

// Evaluation is the outcome of applying all rules to one record.
type Evaluation struct {
	Status         contracts.Status
	Violations     []contracts.Violation
	AdjustmentNote string
}

// Evaluate applies the four rule categories to a single record.
//
// R1 target achievement, R2 day-over-day and R3 trend anomaly each
// contribute at most one violation, in that order. The status is the max
// severity over the violations. R4 runs after the rollup: on weekends a
// CRITICAL status is downgraded to WARNING, but the violations list is
// left untouched and keeps its CRITICAL entries.
func Evaluate(rec contracts.SalesRecord) Evaluation {
	var violations []contracts.Violation

	// R1: Target achievement
	if rec.DeltaVsTarget < r1CriticalBelow {
		violations = append(violations, contracts.Violation{
			Rule:     "R1.3",
			Severity: contracts.StatusCritical,
			Message:  fmt.Sprintf("Missed target by %.1f%%", math.Abs(rec.DeltaVsTarget)),
		})
	} else if rec.DeltaVsTarget < 0 {
		violations = append(violations, contracts.Violation{
			Rule:     "R1.2",
			Severity: contracts.StatusWarning,
			Message:  fmt.Sprintf("Below target by %.1f%%", math.Abs(rec.DeltaVsTarget)),
		})
	}

	// R2: Day-over-day performance
	if rec.DeltaVsYesterday < r2CriticalBelow {
		violations = append(violations, contracts.Violation{
			Rule:     "R2.3",
			Severity: contracts.StatusCritical,
			Message:  fmt.Sprintf("Dropped %.1f%% vs yesterday", math.Abs(rec.DeltaVsYesterday)),
		})
	} else if rec.DeltaVsYesterday < r2WarningBelow {
		violations = append(violations, contracts.Violation{
			Rule:     "R2.2",
			Severity: contracts.StatusWarning,
			Message:  fmt.Sprintf("Down %.1f%% vs yesterday", math.Abs(rec.DeltaVsYesterday)),
		})
	}

	// R3: Trend anomaly, only meaningful with a positive 7-day average
	if rec.Avg7dSales > 0 {
		ratio := rec.TotalSales / rec.Avg7dSales
		if ratio < r3CriticalRatio {
			violations = append(violations, contracts.Violation{
				Rule:     "R3.3",
				Severity: contracts.StatusCritical,
				Message:  fmt.Sprintf("Sales %.1f%% below 7-day average", (1-ratio)*100),
			})
		} else if ratio < r3WarningRatio {
			violations = append(violations, contracts.Violation{
				Rule:     "R3.2",
				Severity: contracts.StatusWarning,
				Message:  fmt.Sprintf("Sales %.1f%% below 7-day average", (1-ratio)*100),
			})
		}
	}

	// Status rollup: max severity over the violation set
	status := contracts.StatusOK
	for _, v := range violations {
		status = contracts.Worst(status, v.Severity)
	}

	// R4: Weekend adjustment, applied after the rollup
	evaluation := Evaluation{Status: status, Violations: violations}
	if rec.IsWeekend && status == contracts.StatusCritical {
		evaluation.Status = contracts.StatusWarning
		evaluation.AdjustmentNote = weekendNote
	}

	return evaluation
}
