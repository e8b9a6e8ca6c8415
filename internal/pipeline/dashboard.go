package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/cli"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/currency"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
)

// DashboardOptions carries optional overrides for the dashboard aggregation.
type DashboardOptions struct {
	// Cashflow, when set, supplies the governed value verbatim instead of
	// summing it from executions.
	Cashflow *model.CashflowSummary
	// OpenEscalations, when set, replaces the count derived from executions.
	OpenEscalations *int
}

// KPI identifiers, in dashboard order.
const (
	KPIGovernedExecutions = "governed-executions"
	KPISuccessRate        = "success-rate"
	KPIFailureRate        = "failure-rate"
	KPIFailedExecutions   = "failed-executions"
	KPIValueGoverned      = "value-governed"
	KPIOpenEscalations    = "open-escalations"
	KPIMedianLatency      = "median-latency"
	KPIP95Latency         = "p95-latency"
	KPIDecisionIntegrity  = "decision-integrity"
	KPIAvgTimeSaved       = "avg-time-saved"
	KPITotalTimeSaved     = "total-time-saved"
	KPIEscalationRate     = "escalation-rate"
)

func isSuccess(e model.ExecutionRecord) bool {
	return strings.EqualFold(strings.TrimSpace(e.Status), "success") || e.Finished
}

func isFailed(e model.ExecutionRecord) bool {
	s := strings.ToLower(strings.TrimSpace(e.Status))
	return s == "failed" || s == "error"
}

// ComputeDashboard derives the raw dashboard numbers from executions.
// Only finished executions feed rates, latency and integrity; the governed
// value is summed over every execution unless a cashflow summary is given.
func ComputeDashboard(execs []model.ExecutionRecord, opts DashboardOptions) model.DashboardMetrics {
	finished := FilterFinished(execs)

	var m model.DashboardMetrics
	m.TotalCount = len(finished)

	var latencies []float64
	var timeSaved float64
	for _, e := range finished {
		if isSuccess(e) {
			m.SuccessCount++
		}
		if isFailed(e) {
			m.FailedCount++
		}
		if strings.EqualFold(strings.TrimSpace(e.GovernanceVerdict), "FAILED") {
			m.FailedGovernanceCount++
		}
		if e.HumanEscalationTriggered {
			m.EscalatedCount++
		}
		if d, ok := e.Latency(); ok {
			latencies = append(latencies, float64(d.Milliseconds()))
		}
		if finite(e.TimeSavedSeconds) {
			timeSaved += e.TimeSavedSeconds
		}
	}

	m.SuccessRate = 100
	m.DecisionIntegrity = 100
	if m.TotalCount > 0 {
		total := float64(m.TotalCount)
		m.SuccessRate = int(math.Round(float64(m.SuccessCount) / total * 100))
		m.FailureRate = float64(m.FailedCount) / total * 100
		m.DecisionIntegrity = 100 - float64(m.FailedGovernanceCount)/total*100
		m.EscalationRate = float64(m.EscalatedCount) / total * 100
		m.AvgTimeSavedSecs = int64(math.Round(timeSaved / total))
	}
	m.TotalTimeSavedSecs = timeSaved

	if opts.Cashflow != nil {
		m.ValueGoverned = opts.Cashflow.TotalRevenue
	} else {
		value := decimal.Zero
		for _, e := range execs {
			if finite(e.TotalCharge) {
				value = value.Add(decimal.NewFromFloat(e.TotalCharge))
			}
			if finite(e.ValueCaptured) {
				value = value.Add(decimal.NewFromFloat(e.ValueCaptured))
			}
		}
		m.ValueGoverned = value.InexactFloat64()
	}

	if opts.OpenEscalations != nil {
		m.OpenEscalations = *opts.OpenEscalations
	} else {
		for _, e := range execs {
			if isOpenEscalation(e) {
				m.OpenEscalations++
			}
		}
	}

	m.LatencySamples = len(latencies)
	if len(latencies) > 0 {
		sort.Float64s(latencies)
		m.MedianLatencyMs = percentile(latencies, 0.5)
		m.P95LatencyMs = percentile(latencies, 0.95)
	}

	return m
}

// percentile picks the sample at index floor(q*n), clamped to the last one.
// The samples must be sorted ascending and non-empty.
func percentile(sorted []float64, q float64) float64 {
	idx := int(math.Floor(q * float64(len(sorted))))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// DashboardKPIs computes the dashboard metrics and renders them as the
// fixed, ordered list of twelve KPI records.
func DashboardKPIs(execs []model.ExecutionRecord, opts DashboardOptions) []model.KPI {
	return BuildDashboardKPIs(ComputeDashboard(execs, opts))
}

// BuildDashboardKPIs renders already-computed dashboard metrics as KPIs.
func BuildDashboardKPIs(m model.DashboardMetrics) []model.KPI {
	latency := func(ms float64) string {
		if m.LatencySamples == 0 {
			return cli.Placeholder
		}
		return cli.FormatSeconds(ms)
	}

	return []model.KPI{
		{
			ID:      KPIGovernedExecutions,
			Label:   "Governed Executions",
			Value:   cli.FormatNumber(int64(m.TotalCount)),
			Subtext: "finished runs in period",
			Status:  model.KPINeutral,
		},
		{
			ID:      KPISuccessRate,
			Label:   "Success Rate",
			Value:   cli.FormatWholePercent(m.SuccessRate),
			Subtext: fmt.Sprintf("%d of %d completed", m.SuccessCount, m.TotalCount),
			Status:  successRateStatus(m.SuccessRate),
		},
		{
			ID:      KPIFailureRate,
			Label:   "Failure Rate",
			Value:   cli.FormatPercent(m.FailureRate),
			Subtext: "failed or errored runs",
			Status:  thresholdStatus(round1(m.FailureRate) < 5),
		},
		{
			ID:      KPIFailedExecutions,
			Label:   "Failed Executions",
			Value:   cli.FormatNumber(int64(m.FailedCount)),
			Subtext: "require review",
			Status:  thresholdStatus(m.FailedCount == 0),
		},
		{
			ID:      KPIValueGoverned,
			Label:   "Value Under Governance",
			Value:   currency.Format(m.ValueGoverned),
			Subtext: "charges and captured value",
			Status:  model.KPINeutral,
		},
		{
			ID:      KPIOpenEscalations,
			Label:   "Open Escalations",
			Value:   cli.FormatNumber(int64(m.OpenEscalations)),
			Subtext: "awaiting a human",
			Status:  thresholdStatus(m.OpenEscalations == 0),
		},
		{
			ID:      KPIMedianLatency,
			Label:   "Median Response Time (p50)",
			Value:   latency(m.MedianLatencyMs),
			Subtext: fmt.Sprintf("%d timed runs", m.LatencySamples),
			Status:  model.KPINeutral,
		},
		{
			ID:      KPIP95Latency,
			Label:   "Response Time (p95)",
			Value:   latency(m.P95LatencyMs),
			Subtext: "slowest 5% of runs",
			Status:  model.KPINeutral,
		},
		{
			ID:      KPIDecisionIntegrity,
			Label:   "Decision Integrity",
			Value:   cli.FormatPercent(m.DecisionIntegrity),
			Subtext: fmt.Sprintf("%d failed verdicts", m.FailedGovernanceCount),
			Status:  thresholdStatus(round1(m.DecisionIntegrity) >= 98),
		},
		{
			ID:      KPIAvgTimeSaved,
			Label:   "Avg Time Saved",
			Value:   cli.FormatDuration(m.AvgTimeSavedSecs),
			Subtext: "per finished run",
			Status:  model.KPINeutral,
		},
		{
			ID:      KPITotalTimeSaved,
			Label:   "Hours Saved",
			Value:   cli.FormatHours(m.TotalTimeSavedSecs),
			Subtext: "across finished runs",
			Status:  model.KPINeutral,
		},
		{
			ID:      KPIEscalationRate,
			Label:   "Human Escalation Rate",
			Value:   cli.FormatPercent(m.EscalationRate),
			Subtext: fmt.Sprintf("%d escalated", m.EscalatedCount),
			Status:  thresholdStatus(round1(m.EscalationRate) <= 10),
		},
	}
}

func successRateStatus(rate int) model.KPIStatus {
	switch {
	case rate >= 90:
		return model.KPISuccess
	case rate >= 70:
		return model.KPIWarning
	default:
		return model.KPIError
	}
}

// round1 returns a percentage as cli.FormatPercent displays it. Status
// thresholds compare against the displayed value.
func round1(pct float64) float64 {
	v, err := strconv.ParseFloat(cli.FormatRate(pct), 64)
	if err != nil {
		return pct
	}
	return v
}

func thresholdStatus(ok bool) model.KPIStatus {
	if ok {
		return model.KPISuccess
	}
	return model.KPIWarning
}

// FindKPI returns the KPI with the given id.
func FindKPI(kpis []model.KPI, id string) (model.KPI, bool) {
	for _, k := range kpis {
		if k.ID == id {
			return k, true
		}
	}
	return model.KPI{}, false
}
