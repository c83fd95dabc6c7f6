package handlers

import (
	"net/http"

	"github.com/prasetyo/sentra/internal/agent"
	"github.com/prasetyo/sentra/internal/contracts"
	"github.com/prasetyo/sentra/pkg/format"
	"github.com/prasetyo/sentra/pkg/logger"
)

// AnalysisHandler serves the JSON analysis endpoints. Every request runs
// a full analysis on its own snapshot of the dataset.
type AnalysisHandler struct {
	agent  *agent.Agent
	logger *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(a *agent.Agent, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{agent: a, logger: log}
}

// Metrics is the compact dashboard metrics payload, shared by the JSON
// API and the websocket stream.
type Metrics struct {
	Date          string           `json:"date"`
	OverallStatus contracts.Status `json:"overall_status"`
	TotalSales    float64          `json:"total_sales"`
	TotalTarget   float64          `json:"total_target"`
	Achievement   float64          `json:"achievement"`
	CriticalCount int              `json:"critical_count"`
	WarningCount  int              `json:"warning_count"`
	OKCount       int              `json:"ok_count"`
}

// MetricsFrom builds the metrics payload from a portfolio summary.
func MetricsFrom(summary *contracts.PortfolioSummary) Metrics {
	return Metrics{
		Date:          summary.Date,
		OverallStatus: summary.OverallStatus,
		TotalSales:    summary.TotalSales,
		TotalTarget:   summary.TotalTarget,
		Achievement:   summary.PortfolioAchievement,
		CriticalCount: summary.CriticalCount,
		WarningCount:  summary.WarningCount,
		OKCount:       summary.OKCount,
	}
}

// GetMetrics returns headline metrics for the latest date.
// GET /api/metrics
func (h *AnalysisHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	result, err := h.agent.Run()
	if err != nil {
		h.logger.WithError(err).Error("Analysis failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   MetricsFrom(result.Summary),
	})
}

// GetSummary returns the full portfolio summary.
// GET /api/summary
func (h *AnalysisHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.agent.Run()
	if err != nil {
		h.logger.WithError(err).Error("Analysis failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result.Summary)
}

// GetReport returns the composed insight report text.
// GET /api/report
func (h *AnalysisHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.agent.Run()
	if err != nil {
		h.logger.WithError(err).Error("Analysis failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":       result.Summary.Date,
		"status":     result.Summary.OverallStatus,
		"ai_insight": result.Insight,
	})
}

// Alert is one flagged record in the alerts API payload.
type Alert struct {
	Region           string           `json:"region"`
	Product          string           `json:"product"`
	Severity         contracts.Status `json:"severity"`
	TotalSales       string           `json:"total_sales"`
	TargetDaily      string           `json:"target_daily"`
	DeltaVsTarget    string           `json:"delta_vs_target"`
	DeltaVsYesterday string           `json:"delta_vs_yesterday"`
	Issue            string           `json:"issue"`
	AdjustmentNote   string           `json:"adjustment_note,omitempty"`
}

// GetAlerts returns critical and warning issues, worst first.
// GET /api/alerts
func (h *AnalysisHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	result, err := h.agent.Run()
	if err != nil {
		h.logger.WithError(err).Error("Analysis failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary := result.Summary
	alerts := make([]Alert, 0, len(summary.CriticalIssues)+len(summary.WarningIssues))
	for _, issue := range summary.CriticalIssues {
		alerts = append(alerts, alertFrom(issue, contracts.StatusCritical))
	}
	for _, issue := range summary.WarningIssues {
		alerts = append(alerts, alertFrom(issue, contracts.StatusWarning))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":           summary.Date,
		"overall_status": summary.OverallStatus,
		"critical_count": summary.CriticalCount,
		"warning_count":  summary.WarningCount,
		"total_count":    len(alerts),
		"alerts":         alerts,
	})
}

func alertFrom(rec *contracts.EvaluatedRecord, severity contracts.Status) Alert {
	return Alert{
		Region:           rec.Region,
		Product:          rec.Product,
		Severity:         severity,
		TotalSales:       format.Currency(rec.TotalSales),
		TargetDaily:      format.Currency(rec.TargetDaily),
		DeltaVsTarget:    format.SignedPercent(rec.DeltaVsTarget),
		DeltaVsYesterday: format.SignedPercent(rec.DeltaVsYesterday),
		Issue:            rec.PrimaryIssue(),
		AdjustmentNote:   rec.AdjustmentNote,
	}
}
