package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
)

var t0 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func run(status string, latency time.Duration) model.ExecutionRecord {
	return model.ExecutionRecord{
		ID:        status,
		Status:    status,
		StartedAt: t0,
		StoppedAt: t0.Add(latency),
	}
}

func kpiValue(t *testing.T, kpis []model.KPI, id string) string {
	t.Helper()
	k, ok := FindKPI(kpis, id)
	require.True(t, ok, "missing KPI %s", id)
	return k.Value
}

func TestDashboardKPIsEmpty(t *testing.T) {
	kpis := DashboardKPIs(nil, DashboardOptions{})
	require.Len(t, kpis, 12)

	assert.Equal(t, "100%", kpiValue(t, kpis, KPISuccessRate))
	assert.Equal(t, "0.0%", kpiValue(t, kpis, KPIFailureRate))
	assert.Equal(t, "100.0%", kpiValue(t, kpis, KPIDecisionIntegrity))
	assert.Equal(t, "--", kpiValue(t, kpis, KPIMedianLatency))
	assert.Equal(t, "--", kpiValue(t, kpis, KPIP95Latency))
	assert.Equal(t, "0.0%", kpiValue(t, kpis, KPIEscalationRate))
	assert.Equal(t, "€\u00a00,00", kpiValue(t, kpis, KPIValueGoverned))
}

func TestDashboardKPIOrder(t *testing.T) {
	want := []string{
		KPIGovernedExecutions, KPISuccessRate, KPIFailureRate, KPIFailedExecutions,
		KPIValueGoverned, KPIOpenEscalations, KPIMedianLatency, KPIP95Latency,
		KPIDecisionIntegrity, KPIAvgTimeSaved, KPITotalTimeSaved, KPIEscalationRate,
	}
	kpis := DashboardKPIs([]model.ExecutionRecord{run("success", time.Second)}, DashboardOptions{})
	got := make([]string, len(kpis))
	for i, k := range kpis {
		got[i] = k.ID
		assert.Zero(t, k.Trend)
	}
	assert.Equal(t, want, got)
}

func TestAllUnfinishedUsesDefaults(t *testing.T) {
	execs := []model.ExecutionRecord{
		{Status: "running", StartedAt: t0},
		{Status: "success", StartedAt: t0, GovernanceVerdict: "FAILED"},
	}
	m := ComputeDashboard(execs, DashboardOptions{})
	assert.Equal(t, 0, m.TotalCount)
	assert.Equal(t, 100, m.SuccessRate)
	assert.Zero(t, m.FailureRate)
	assert.Equal(t, 100.0, m.DecisionIntegrity)
	assert.Zero(t, m.LatencySamples)
	assert.Zero(t, m.AvgTimeSavedSecs)
}

func TestUnfinishedSuccessDoesNotMoveRates(t *testing.T) {
	base := []model.ExecutionRecord{
		run("success", time.Second),
		run("error", 3*time.Second),
	}
	before := DashboardKPIs(base, DashboardOptions{})

	withUnfinished := append(append([]model.ExecutionRecord{}, base...), model.ExecutionRecord{
		Status:            "success",
		StartedAt:         t0,
		GovernanceVerdict: "failed",
		ValueCaptured:     100,
	})
	after := DashboardKPIs(withUnfinished, DashboardOptions{})

	for _, id := range []string{KPISuccessRate, KPIFailureRate, KPIMedianLatency, KPIDecisionIntegrity} {
		assert.Equal(t, kpiValue(t, before, id), kpiValue(t, after, id), id)
	}
	assert.Equal(t, "€\u00a00,00", kpiValue(t, before, KPIValueGoverned))
	assert.Equal(t, "€\u00a0100,00", kpiValue(t, after, KPIValueGoverned))
}

func TestValueGovernedSumsAllExecutions(t *testing.T) {
	execs := []model.ExecutionRecord{
		{Status: "success", Finished: true, TotalCharge: 10.5, ValueCaptured: 2},
		{Status: "running", ValueCaptured: 1000},
		{Status: "waiting"},
	}
	m := ComputeDashboard(execs, DashboardOptions{})
	assert.InDelta(t, 1012.5, m.ValueGoverned, 1e-9)
	assert.Equal(t, "€\u00a01.012,50", kpiValue(t, BuildDashboardKPIs(m), KPIValueGoverned))
}

func TestCashflowOverridesValue(t *testing.T) {
	execs := []model.ExecutionRecord{{Status: "success", Finished: true, TotalCharge: 99}}
	m := ComputeDashboard(execs, DashboardOptions{
		Cashflow: &model.CashflowSummary{TotalRevenue: 4321.5},
	})
	assert.Equal(t, 4321.5, m.ValueGoverned)
}

func TestOpenEscalationCount(t *testing.T) {
	execs := []model.ExecutionRecord{
		{HumanEscalationTriggered: true},
		{EscalationStatus: "open"},
		{EscalationPriority: "high", EscalationStatus: "resolved"},
		{EscalationStatus: "RESOLVED", HumanEscalationTriggered: true},
		{Status: "success"},
	}
	m := ComputeDashboard(execs, DashboardOptions{})
	assert.Equal(t, 2, m.OpenEscalations)

	supplied := 7
	m = ComputeDashboard(execs, DashboardOptions{OpenEscalations: &supplied})
	assert.Equal(t, 7, m.OpenEscalations)

	k, _ := FindKPI(BuildDashboardKPIs(m), KPIOpenEscalations)
	assert.Equal(t, model.KPIWarning, k.Status)
}

func TestLatencyPercentiles(t *testing.T) {
	var execs []model.ExecutionRecord
	for i := 1; i <= 20; i++ {
		execs = append(execs, run("success", time.Duration(i)*100*time.Millisecond))
	}
	// no start time: not a latency sample
	execs = append(execs, model.ExecutionRecord{Status: "success", StoppedAt: t0})

	m := ComputeDashboard(execs, DashboardOptions{})
	assert.Equal(t, 20, m.LatencySamples)
	assert.Equal(t, 1100.0, m.MedianLatencyMs) // index 10
	assert.Equal(t, 2000.0, m.P95LatencyMs)    // index 19

	kpis := BuildDashboardKPIs(m)
	assert.Equal(t, "1.1s", kpiValue(t, kpis, KPIMedianLatency))
	assert.Equal(t, "2.0s", kpiValue(t, kpis, KPIP95Latency))
}

func TestDecisionIntegrityAndTimeSaved(t *testing.T) {
	execs := []model.ExecutionRecord{
		{Status: "success", Finished: true, GovernanceVerdict: "failed", TimeSavedSeconds: 100},
		{Status: "success", Finished: true, GovernanceVerdict: "PASSED", TimeSavedSeconds: 50},
		{Status: "success", Finished: true, TimeSavedSeconds: 1},
		{Status: "success", Finished: true, HumanEscalationTriggered: true},
	}
	m := ComputeDashboard(execs, DashboardOptions{})
	assert.Equal(t, 75.0, m.DecisionIntegrity)
	assert.Equal(t, int64(38), m.AvgTimeSavedSecs) // round(151/4)
	assert.Equal(t, 25.0, m.EscalationRate)

	kpis := BuildDashboardKPIs(m)
	assert.Equal(t, "75.0%", kpiValue(t, kpis, KPIDecisionIntegrity))
	k, _ := FindKPI(kpis, KPIDecisionIntegrity)
	assert.Equal(t, model.KPIWarning, k.Status)
	k, _ = FindKPI(kpis, KPIEscalationRate)
	assert.Equal(t, model.KPIWarning, k.Status)
}

func TestSuccessRateStatus(t *testing.T) {
	assert.Equal(t, model.KPISuccess, successRateStatus(90))
	assert.Equal(t, model.KPIWarning, successRateStatus(89))
	assert.Equal(t, model.KPIWarning, successRateStatus(70))
	assert.Equal(t, model.KPIError, successRateStatus(69))
}

func TestDashboardEndToEnd(t *testing.T) {
	var execs []model.ExecutionRecord
	for i := 0; i < 6; i++ {
		execs = append(execs, run("success", time.Second))
	}
	for i := 0; i < 2; i++ {
		execs = append(execs, run("error", time.Second))
	}
	for i := 0; i < 2; i++ {
		execs = append(execs, model.ExecutionRecord{Status: "running", StartedAt: t0})
	}

	m := ComputeDashboard(execs, DashboardOptions{})
	assert.Equal(t, 8, m.TotalCount)
	assert.Equal(t, 75, m.SuccessRate)
	assert.Equal(t, 2, m.FailedCount)

	kpis := BuildDashboardKPIs(m)
	assert.Equal(t, "8", kpiValue(t, kpis, KPIGovernedExecutions))
	assert.Equal(t, "75%", kpiValue(t, kpis, KPISuccessRate))
	assert.Equal(t, "25.0%", kpiValue(t, kpis, KPIFailureRate))
	assert.Equal(t, "2", kpiValue(t, kpis, KPIFailedExecutions))

	k, _ := FindKPI(kpis, KPISuccessRate)
	assert.Equal(t, model.KPIWarning, k.Status)
	k, _ = FindKPI(kpis, KPIFailureRate)
	assert.Equal(t, model.KPIWarning, k.Status)
}

func kpiStatus(t *testing.T, kpis []model.KPI, id string) model.KPIStatus {
	t.Helper()
	k, ok := FindKPI(kpis, id)
	require.True(t, ok, "missing KPI %s", id)
	return k.Status
}

func TestThresholdsUseDisplayedValue(t *testing.T) {
	// 1 failed verdict in 49 is 97.96%, shown as 98.0%.
	var execs []model.ExecutionRecord
	for i := 0; i < 49; i++ {
		e := run("success", time.Second)
		if i == 0 {
			e.GovernanceVerdict = "FAILED"
		}
		execs = append(execs, e)
	}
	kpis := DashboardKPIs(execs, DashboardOptions{})
	assert.Equal(t, "98.0%", kpiValue(t, kpis, KPIDecisionIntegrity))
	assert.Equal(t, model.KPISuccess, kpiStatus(t, kpis, KPIDecisionIntegrity))

	// 5 errors in 101 is 4.95%, shown as 5.0%.
	execs = execs[:0]
	for i := 0; i < 101; i++ {
		status := "success"
		if i < 5 {
			status = "error"
		}
		execs = append(execs, run(status, time.Second))
	}
	kpis = DashboardKPIs(execs, DashboardOptions{})
	assert.Equal(t, "5.0%", kpiValue(t, kpis, KPIFailureRate))
	assert.Equal(t, model.KPIWarning, kpiStatus(t, kpis, KPIFailureRate))
}
