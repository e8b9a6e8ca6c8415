package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
)

func TestBuildReport(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	res := &LoadResult{
		TenantID: "hotel",
		Executions: []model.ExecutionRecord{
			{ID: "a", WorkflowName: "Checkin", StartedAt: now.Add(-time.Hour), Status: "success", Finished: true, TotalCharge: 10},
			{ID: "b", WorkflowName: "Upsell", StartedAt: now.Add(-2 * time.Hour), Status: "failed", StoppedAt: now, TotalCharge: 5},
			{ID: "c", WorkflowName: "Checkin", StartedAt: now.AddDate(0, 0, -40), Finished: true, TotalCharge: 99},
			{ID: "d", WorkflowName: "checkin-late", StartedAt: now.Add(-3 * time.Hour), HumanEscalationTriggered: true, EscalationPriority: "high"},
		},
		Transactions: []model.TransactionRecord{
			{ID: "t1", TotalAmount: "€\u00a021,00", CollectionDate: now.Add(-time.Hour)},
			{ID: "t2", TotalAmount: "€\u00a090,00", CollectionDate: now.AddDate(0, 0, -60)},
		},
		Cashflow: &model.CashflowSummary{TotalRevenue: 1234.5},
	}

	rep := BuildReport(res, LastDays(30, now))
	assert.Equal(t, "hotel", rep.TenantID)
	assert.Len(t, rep.Executions, 3)
	assert.Len(t, rep.Transactions, 1)
	assert.Equal(t, 2, rep.Dashboard.TotalCount)
	assert.InDelta(t, 15.0, rep.Dashboard.ValueGoverned, 1e-9)
	require.Len(t, rep.Escalations, 1)
	assert.Equal(t, "d", rep.Escalations[0].ID)
	assert.Len(t, rep.DashboardKPIs, 12)
	assert.Len(t, rep.GrowthKPIs, 6)

	f := LastDays(30, now)
	f.Workflow = "checkin"
	f.UseCashflow = true
	rep = BuildReport(res, f)
	assert.Len(t, rep.Executions, 2)
	assert.InDelta(t, 1234.5, rep.Dashboard.ValueGoverned, 1e-9)
}

func TestLastDaysZero(t *testing.T) {
	assert.Equal(t, Filter{}, LastDays(0, time.Now()))
}

func TestBuildReportKeepsUndatedRuns(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	res := &LoadResult{Executions: []model.ExecutionRecord{
		{ID: "a", StartedAt: now.Add(-time.Hour), Status: "success", Finished: true, TotalCharge: 10},
		{ID: "b", Status: "waiting", ValueCaptured: 100, EscalationPriority: "high"},
	}}

	rep := BuildReport(res, LastDays(30, now))

	assert.Len(t, rep.Executions, 2)
	assert.InDelta(t, 110.0, rep.Dashboard.ValueGoverned, 1e-9)
	assert.Equal(t, 1, rep.Dashboard.TotalCount, "the waiting run is not finished")
	assert.Equal(t, 1, rep.Dashboard.OpenEscalations)
	require.Len(t, rep.Escalations, 1)
	assert.Equal(t, "b", rep.Escalations[0].ID)

	direct := ComputeDashboard(res.Executions, DashboardOptions{})
	assert.InDelta(t, direct.ValueGoverned, rep.Dashboard.ValueGoverned, 1e-9)
}
