package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prasetyo/sentra/internal/agent"
	"github.com/prasetyo/sentra/pkg/logger"
)

// DailyReportJob runs the full analysis on schedule and writes the
// composed insight report to a flat file under the reports directory.
type DailyReportJob struct {
	agent    *agent.Agent
	dir      string
	schedule string
	logger   *logger.Logger
}

// NewDailyReportJob creates a new daily report job.
func NewDailyReportJob(a *agent.Agent, dir, schedule string, log *logger.Logger) *DailyReportJob {
	return &DailyReportJob{
		agent:    a,
		dir:      dir,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name.
func (j *DailyReportJob) Name() string {
	return "daily_report"
}

// Schedule returns the cron schedule expression.
func (j *DailyReportJob) Schedule() string {
	return j.schedule
}

// Run executes the analysis and persists the report.
func (j *DailyReportJob) Run(ctx context.Context) error {
	result, err := j.agent.Run()
	if err != nil {
		return fmt.Errorf("run analysis: %w", err)
	}

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	path := filepath.Join(j.dir, fmt.Sprintf("sales_report_%s.md", result.Summary.Date))
	if err := os.WriteFile(path, []byte(result.Insight), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"date":     result.Summary.Date,
		"status":   result.Summary.OverallStatus,
		"critical": result.Summary.CriticalCount,
		"warning":  result.Summary.WarningCount,
		"path":     path,
	}).Info("Daily report written")

	return nil
}
