package handlers

// workflowStep is one step in the agent workflow explanation.
type workflowStep struct {
	Number      int
	Icon        string
	Title       string
	Description string
}

// workflowRule describes one rule category and its bands.
type workflowRule struct {
	Category string
	OK       string
	Warning  string
	Critical string
}

// workflowView is the static content for the workflow page.
type workflowView struct {
	Title       string
	Description string
	Steps       []workflowStep
	Rules       []workflowRule
}

var workflowContent = workflowView{
	Title:       "How the Sales Agent Works",
	Description: "An autonomous system that monitors daily sales performance, detects issues, and generates actionable insights.",
	Steps: []workflowStep{
		{
			Number:      1,
			Icon:        "📊",
			Title:       "Data Ingestion",
			Description: "Reads daily sales data from CSV files containing sales, targets, and historical trends for each region-product combination.",
		},
		{
			Number:      2,
			Icon:        "🔍",
			Title:       "Rule Evaluation",
			Description: "Applies 4 rule categories: Target Achievement, Day-over-Day Performance, Trend Anomaly, and Weekend Adjustment to classify each item as OK, WARNING, or CRITICAL.",
		},
		{
			Number:      3,
			Icon:        "🤖",
			Title:       "Insight Generation",
			Description: "Generates natural language insights using structured data and business context. Explains what happened, why it matters, and what to do about it.",
		},
		{
			Number:      4,
			Icon:        "📢",
			Title:       "Alert Delivery",
			Description: "Delivers insights through this dashboard and the scheduled daily report, with potential for email or chat notifications in production.",
		},
	},
	Rules: []workflowRule{
		{
			Category: "R1: Target Achievement",
			OK:       "Met or exceeded target (≥0%)",
			Warning:  "Slightly below target (0% to -10%)",
			Critical: "Significantly missed target (<-10%)",
		},
		{
			Category: "R2: Day-over-Day",
			OK:       "Stable or growing (≥-5%)",
			Warning:  "Moderate decline (-5% to -15%)",
			Critical: "Sharp drop (<-15%)",
		},
		{
			Category: "R3: Trend Anomaly",
			OK:       "Within normal range (≥85% of 7-day avg)",
			Warning:  "Below trend (70-85% of 7-day avg)",
			Critical: "Severe deviation (<70% of 7-day avg)",
		},
		{
			Category: "R4: Weekend Adjustment",
			OK:       "N/A",
			Warning:  "Downgrades CRITICAL to WARNING on weekends",
			Critical: "Prevents false alarms during low-traffic days",
		},
	},
}
