package model

import "time"

// KPIStatus classifies a KPI for presentation.
type KPIStatus string

// KPI status values.
const (
	KPISuccess KPIStatus = "success"
	KPIWarning KPIStatus = "warning"
	KPIError   KPIStatus = "error"
	KPINeutral KPIStatus = "neutral"
)

// KPI is an immutable presentation record. A fresh slice is built on every
// aggregation; callers render it and never modify it.
type KPI struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	Value      string    `json:"value"`
	Trend      float64   `json:"trend"`
	TrendLabel string    `json:"trend_label"`
	Subtext    string    `json:"subtext"`
	Status     KPIStatus `json:"status"`
}

// DashboardMetrics holds the raw numbers behind the dashboard KPIs.
type DashboardMetrics struct {
	TotalCount   int // finished executions
	SuccessCount int
	FailedCount  int

	SuccessRate       int     // 0-100, rounded
	FailureRate       float64 // 0-100
	DecisionIntegrity float64 // 0-100
	EscalationRate    float64 // 0-100

	ValueGoverned   float64
	OpenEscalations int
	EscalatedCount  int

	LatencySamples  int
	MedianLatencyMs float64
	P95LatencyMs    float64

	AvgTimeSavedSecs   int64
	TotalTimeSavedSecs float64

	FailedGovernanceCount int
}

// Category is the revenue bucket a transaction is classified into.
type Category string

// Transaction categories. A transaction lands in exactly one.
const (
	CategoryTax          Category = "tax"
	CategoryCheckoutFee  Category = "checkout_fee"
	CategoryCheckinFee   Category = "checkin_fee"
	CategoryMedium       Category = "medium_service"
	CategoryUnclassified Category = "unclassified"
)

// CategoryTotals holds classifier roll-ups over a batch of transactions.
type CategoryTotals struct {
	Tax         float64
	CheckoutFee float64
	CheckinFee  float64
	Medium      float64

	ServicesTotal float64 // sum of every classified category
	GrossTotal    float64 // sum of every parsed amount, classified or not

	Counts       map[Category]int
	ServiceCount int // transactions in a classified category
	TotalCount   int // all transactions, the upsell-rate denominator
}

// GrowthMetrics holds the numbers behind the growth KPIs.
type GrowthMetrics struct {
	Categories CategoryTotals
	UpsellRate float64 // 0-100
}

// WorkflowStats holds aggregated metrics for one workflow.
type WorkflowStats struct {
	Workflow      string
	Executions    int
	Finished      int
	Succeeded     int
	Failed        int
	SuccessRate   float64 // 0-100 over finished runs
	ValueGoverned float64
}

// DailyStats holds execution metrics for a single calendar day.
type DailyStats struct {
	Date          time.Time
	Executions    int
	Finished      int
	Failed        int
	ValueGoverned float64
}
