// Package agent ties the flat-file dataset loader to the analysis engine.
// It is the entry point shared by the API handlers, the CLI and the
// scheduled report job.
package agent

import (
	"errors"
	"io/fs"

	"github.com/prasetyo/sentra/internal/contracts"
	"github.com/prasetyo/sentra/internal/dataset"
	"github.com/prasetyo/sentra/internal/engine"
	"github.com/prasetyo/sentra/pkg/config"
	"github.com/prasetyo/sentra/pkg/logger"
)

// Agent runs the full analysis against the current on-disk dataset.
// Every Run loads a fresh snapshot, so concurrent callers never share
// mutable state.
type Agent struct {
	dataPath string
	engine   *engine.Engine
	logger   *logger.Logger
}

// New creates a new sales agent.
func New(cfg *config.Config, log *logger.Logger) *Agent {
	return &Agent{
		dataPath: cfg.Data.Path,
		engine:   engine.New(log),
		logger:   log,
	}
}

// Run loads the dataset and runs the full pipeline. A missing dataset is
// recoverable: the run proceeds on an empty snapshot and yields the
// defined empty summary. Malformed data is a validation error returned
// to the caller.
func (a *Agent) Run() (*contracts.AnalysisResult, error) {
	snapshot, err := dataset.Load(a.dataPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		a.logger.WithField("path", a.dataPath).Warn("Data file not found, using empty snapshot")
		snapshot = dataset.Empty()
	}

	return a.engine.Analyze(snapshot), nil
}
