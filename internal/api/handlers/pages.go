package handlers

import (
	"net/http"

	"github.com/prasetyo/sentra/internal/agent"
	"github.com/prasetyo/sentra/internal/contracts"
	"github.com/prasetyo/sentra/pkg/format"
	"github.com/prasetyo/sentra/pkg/logger"
)

// PageHandler renders the HTML dashboard pages.
type PageHandler struct {
	agent     *agent.Agent
	templates *Templates
	logger    *logger.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(a *agent.Agent, log *logger.Logger) (*PageHandler, error) {
	templates, err := ParseTemplates()
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		agent:     a,
		templates: templates,
		logger:    log,
	}, nil
}

// statusClass maps a status onto its bootstrap styling class.
func statusClass(status contracts.Status) string {
	switch status {
	case contracts.StatusOK:
		return "success"
	case contracts.StatusWarning:
		return "warning"
	case contracts.StatusCritical:
		return "danger"
	default:
		return "secondary"
	}
}

// overviewView is the template data for the overview dashboard.
type overviewView struct {
	Summary          *contracts.PortfolioSummary
	StatusClass      string
	GapFormatted     string
	GapDirection     string
	TopPerformerText string
}

// Overview renders the main metrics dashboard.
// GET /overview
func (h *PageHandler) Overview(w http.ResponseWriter, r *http.Request) {
	result, err := h.agent.Run()
	if err != nil {
		h.renderError(w, err)
		return
	}

	summary := result.Summary
	view := overviewView{
		Summary:     summary,
		StatusClass: statusClass(summary.OverallStatus),
	}

	gap := summary.TotalSales - summary.TotalTarget
	if gap >= 0 {
		view.GapDirection = "above"
		view.GapFormatted = format.Currency(gap)
	} else {
		view.GapDirection = "below"
		view.GapFormatted = format.Currency(-gap)
	}

	view.TopPerformerText = "N/A"
	if len(summary.TopPerformers) > 0 {
		top := summary.TopPerformers[0]
		view.TopPerformerText = top.Region + " - " + top.Product
	}

	h.render(w, "overview.html", view)
}

// insightView is the template data for the insight page.
type insightView struct {
	Date        string
	DayName     string
	Status      contracts.Status
	StatusClass string
	FullText    string
}

// Insight renders the generated daily sales brief.
// GET /insight
func (h *PageHandler) Insight(w http.ResponseWriter, r *http.Request) {
	result, err := h.agent.Run()
	if err != nil {
		h.renderError(w, err)
		return
	}

	h.render(w, "insight.html", insightView{
		Date:        result.Summary.Date,
		DayName:     result.Summary.DayName,
		Status:      result.Summary.OverallStatus,
		StatusClass: statusClass(result.Summary.OverallStatus),
		FullText:    result.Insight,
	})
}

// pageAlert is one alert row on the alerts page.
type pageAlert struct {
	Alert
	Icon          string
	SeverityClass string
}

// alertsView is the template data for the alerts page.
type alertsView struct {
	Date          string
	OverallStatus contracts.Status
	CriticalCount int
	WarningCount  int
	TotalCount    int
	Alerts        []pageAlert
}

// Alerts renders the flagged items list.
// GET /alerts
func (h *PageHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	result, err := h.agent.Run()
	if err != nil {
		h.renderError(w, err)
		return
	}

	summary := result.Summary
	view := alertsView{
		Date:          summary.Date,
		OverallStatus: summary.OverallStatus,
		CriticalCount: summary.CriticalCount,
		WarningCount:  summary.WarningCount,
	}

	for _, issue := range summary.CriticalIssues {
		view.Alerts = append(view.Alerts, pageAlert{
			Alert:         alertFrom(issue, contracts.StatusCritical),
			Icon:          "🚨",
			SeverityClass: "danger",
		})
	}
	for _, issue := range summary.WarningIssues {
		view.Alerts = append(view.Alerts, pageAlert{
			Alert:         alertFrom(issue, contracts.StatusWarning),
			Icon:          "⚠️",
			SeverityClass: "warning",
		})
	}
	view.TotalCount = len(view.Alerts)

	h.render(w, "alerts.html", view)
}

// Workflow renders the static agent workflow explanation.
// GET /workflow
func (h *PageHandler) Workflow(w http.ResponseWriter, r *http.Request) {
	h.render(w, "workflow.html", workflowContent)
}

// importView is the template data for the import page.
type importView struct {
	Date      string
	TotalRows int
	Error     string
	Imported  string
}

// ImportForm renders the CSV upload form with current dataset info.
// GET /import
func (h *PageHandler) ImportForm(w http.ResponseWriter, r *http.Request) {
	view := importView{
		Date:     "N/A",
		Error:    r.URL.Query().Get("error"),
		Imported: r.URL.Query().Get("imported"),
	}

	if result, err := h.agent.Run(); err == nil {
		view.Date = result.Summary.Date
		view.TotalRows = result.Summary.TotalRows
	}

	h.render(w, "import.html", view)
}

// NotFound renders the error page for unknown routes.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := h.templates.Render(w, "error.html", map[string]string{"Error": "Halaman tidak ditemukan: " + r.URL.Path}); err != nil {
		h.logger.WithError(err).Error("Template render failed")
	}
}

func (h *PageHandler) render(w http.ResponseWriter, page string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, page, data); err != nil {
		h.logger.WithError(err).WithField("page", page).Error("Template render failed")
	}
}

func (h *PageHandler) renderError(w http.ResponseWriter, err error) {
	h.logger.WithError(err).Error("Analysis failed")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	if rerr := h.templates.Render(w, "error.html", map[string]string{"Error": err.Error()}); rerr != nil {
		h.logger.WithError(rerr).Error("Template render failed")
	}
}
