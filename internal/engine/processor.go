package engine

import (
	"github.com/prasetyo/sentra/internal/contracts"
	"github.com/prasetyo/sentra/internal/dataset"
	"github.com/prasetyo/sentra/pkg/logger"
)

// Processor turns a dataset snapshot into the evaluated per-record table
// for the latest date.
type Processor struct {
	logger *logger.Logger
}

// NewProcessor creates a new processor.
func NewProcessor(log *logger.Logger) *Processor {
	return &Processor{logger: log}
}

// ProcessDaily selects all records for the maximum date in the snapshot
// and evaluates each one. An absent or empty snapshot yields an empty
// table; that is a recoverable condition, not an error.
func (p *Processor) ProcessDaily(snapshot *dataset.Snapshot) []*contracts.EvaluatedRecord {
	results := make([]*contracts.EvaluatedRecord, 0)

	if snapshot.IsEmpty() {
		p.logger.Debug("Snapshot is empty, returning empty result set")
		return results
	}

	latest := snapshot.Latest()
	for _, rec := range latest {
		evaluation := Evaluate(rec)

		results = append(results, &contracts.EvaluatedRecord{
			SalesRecord:    rec,
			Status:         evaluation.Status,
			Violations:     evaluation.Violations,
			AdjustmentNote: evaluation.AdjustmentNote,
		})
	}

	p.logger.WithFields(map[string]interface{}{
		"date": snapshot.LatestDate().Format("2006-01-02"),
		"rows": len(results),
	}).Debug("Processed daily records")

	return results
}
