package dataset

import (
	"time"

	"github.com/prasetyo/sentra/internal/contracts"
)

// Snapshot is an immutable view of the loaded dataset. Each analysis run
// takes its own snapshot, so concurrent callers never share mutable state.
type Snapshot struct {
	records    []contracts.SalesRecord
	latestDate time.Time
}

// NewSnapshot builds a snapshot from normalized records.
func NewSnapshot(records []contracts.SalesRecord) *Snapshot {
	s := &Snapshot{records: records}
	for _, r := range records {
		if r.Date.After(s.latestDate) {
			s.latestDate = r.Date
		}
	}
	return s
}

// Empty returns a snapshot with no records.
func Empty() *Snapshot {
	return &Snapshot{}
}

// Len returns the total number of records across all dates.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// IsEmpty reports whether the snapshot holds no records.
func (s *Snapshot) IsEmpty() bool {
	return s.Len() == 0
}

// LatestDate returns the maximum date present in the dataset.
// Zero time when the snapshot is empty.
func (s *Snapshot) LatestDate() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.latestDate
}

// Latest returns all records for the most recent date, in file order.
func (s *Snapshot) Latest() []contracts.SalesRecord {
	if s.IsEmpty() {
		return nil
	}

	latest := make([]contracts.SalesRecord, 0)
	for _, r := range s.records {
		if r.Date.Equal(s.latestDate) {
			latest = append(latest, r)
		}
	}
	return latest
}

// Records returns all records. The slice must not be modified.
func (s *Snapshot) Records() []contracts.SalesRecord {
	if s == nil {
		return nil
	}
	return s.records
}
