package pipeline

import (
	"time"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
)

// Filter narrows a load result before aggregation. Zero values disable
// the corresponding restriction.
type Filter struct {
	Since    time.Time
	Until    time.Time
	Workflow string
	// UseCashflow lets a loaded cashflow summary supply the governed value.
	UseCashflow bool
}

// Report is every metric view of one tenant over one filter.
type Report struct {
	TenantID     string
	Executions   []model.ExecutionRecord
	Transactions []model.TransactionRecord
	Escalations  []model.ExecutionRecord

	Dashboard     model.DashboardMetrics
	Growth        model.GrowthMetrics
	DashboardKPIs []model.KPI
	GrowthKPIs    []model.KPI
}

// BuildReport filters a load result and computes dashboard and growth KPIs.
func BuildReport(r *LoadResult, f Filter) Report {
	execs := FilterByWorkflow(FilterByTime(r.Executions, f.Since, f.Until), f.Workflow)
	txs := FilterTransactionsByTime(r.Transactions, f.Since, f.Until)

	var opts DashboardOptions
	if f.UseCashflow && r.Cashflow != nil {
		opts.Cashflow = r.Cashflow
	}

	rep := Report{
		TenantID:     r.TenantID,
		Executions:   execs,
		Transactions: txs,
		Escalations:  OpenEscalations(execs),
		Dashboard:    ComputeDashboard(execs, opts),
		Growth:       ComputeGrowth(txs),
	}
	rep.DashboardKPIs = BuildDashboardKPIs(rep.Dashboard)
	rep.GrowthKPIs = BuildGrowthKPIs(rep.Growth)
	return rep
}

// LastDays returns a filter covering the trailing n days up to now.
func LastDays(n int, now time.Time) Filter {
	if n <= 0 {
		return Filter{}
	}
	return Filter{Since: now.AddDate(0, 0, -n), Until: now.Add(time.Nanosecond)}
}
