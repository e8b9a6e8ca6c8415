// Package pipeline orchestrates record loading, caching, and metric aggregation.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/normalize"
)

// FilterFinished returns the executions that count toward rate, latency and
// integrity metrics.
func FilterFinished(execs []model.ExecutionRecord) []model.ExecutionRecord {
	result := make([]model.ExecutionRecord, 0, len(execs))
	for _, e := range execs {
		if e.IsFinished() {
			result = append(result, e)
		}
	}
	return result
}

// FilterByTime returns executions dated within [since, until). The start
// time dates a run, the stop time when it never started. Undated runs, such
// as queued ones, are kept in every window.
func FilterByTime(execs []model.ExecutionRecord, since, until time.Time) []model.ExecutionRecord {
	if since.IsZero() && until.IsZero() {
		return execs
	}

	var result []model.ExecutionRecord
	for _, e := range execs {
		at := e.StartedAt
		if at.IsZero() {
			at = e.StoppedAt
		}
		if !at.IsZero() {
			if !since.IsZero() && at.Before(since) {
				continue
			}
			if !until.IsZero() && !at.Before(until) {
				continue
			}
		}
		result = append(result, e)
	}
	return result
}

// FilterByWorkflow returns executions whose workflow name contains the substring.
func FilterByWorkflow(execs []model.ExecutionRecord, workflow string) []model.ExecutionRecord {
	if workflow == "" {
		return execs
	}
	var result []model.ExecutionRecord
	for _, e := range execs {
		if containsIgnoreCase(e.WorkflowName, workflow) {
			result = append(result, e)
		}
	}
	return result
}

// FilterTransactionsByTime returns transactions collected within [since, until).
// The collection date is used when present, the creation time otherwise.
func FilterTransactionsByTime(txs []model.TransactionRecord, since, until time.Time) []model.TransactionRecord {
	if since.IsZero() && until.IsZero() {
		return txs
	}

	var result []model.TransactionRecord
	for _, tx := range txs {
		at := tx.CollectionDate
		if at.IsZero() {
			at = tx.CreatedAt
		}
		if at.IsZero() {
			continue
		}
		if !since.IsZero() && at.Before(since) {
			continue
		}
		if !until.IsZero() && !at.Before(until) {
			continue
		}
		result = append(result, tx)
	}
	return result
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// isOpenEscalation reports whether an execution carries an escalation that
// has not been resolved.
func isOpenEscalation(e model.ExecutionRecord) bool {
	escalated := e.HumanEscalationTriggered || e.EscalationStatus != "" || e.EscalationPriority != ""
	return escalated && !strings.EqualFold(strings.TrimSpace(e.EscalationStatus), "RESOLVED")
}

// OpenEscalations returns the executions with an unresolved escalation,
// most urgent first and most recent first within a priority.
func OpenEscalations(execs []model.ExecutionRecord) []model.ExecutionRecord {
	var result []model.ExecutionRecord
	for _, e := range execs {
		if isOpenEscalation(e) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		ri := normalize.PriorityRank(result[i].EscalationPriority)
		rj := normalize.PriorityRank(result[j].EscalationPriority)
		if ri != rj {
			return ri < rj
		}
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	return result
}

// AggregateWorkflows computes per-workflow statistics, highest value first.
func AggregateWorkflows(execs []model.ExecutionRecord) []model.WorkflowStats {
	wfMap := make(map[string]*model.WorkflowStats)

	for _, e := range execs {
		name := e.WorkflowName
		if name == "" {
			name = "(unnamed)"
		}
		ws, ok := wfMap[name]
		if !ok {
			ws = &model.WorkflowStats{Workflow: name}
			wfMap[name] = ws
		}
		ws.Executions++
		ws.ValueGoverned += e.TotalCharge + e.ValueCaptured
		if !e.IsFinished() {
			continue
		}
		ws.Finished++
		if isSuccess(e) {
			ws.Succeeded++
		}
		if isFailed(e) {
			ws.Failed++
		}
	}

	workflows := make([]model.WorkflowStats, 0, len(wfMap))
	for _, ws := range wfMap {
		if ws.Finished > 0 {
			ws.SuccessRate = float64(ws.Succeeded) / float64(ws.Finished) * 100
		}
		workflows = append(workflows, *ws)
	}
	sort.Slice(workflows, func(i, j int) bool {
		if workflows[i].ValueGoverned != workflows[j].ValueGoverned {
			return workflows[i].ValueGoverned > workflows[j].ValueGoverned
		}
		return workflows[i].Workflow < workflows[j].Workflow
	})

	return workflows
}

// AggregateDays computes per-day execution statistics, most recent day first.
// Runs started within [since, until] are counted, and every day in that
// range is present so gaps show as zeros. Undated runs have no day.
func AggregateDays(execs []model.ExecutionRecord, since, until time.Time) []model.DailyStats {
	end := until
	if !end.IsZero() {
		end = end.Add(time.Nanosecond)
	}
	filtered := FilterByTime(execs, since, end)

	dayMap := make(map[string]*model.DailyStats)

	for _, e := range filtered {
		if e.StartedAt.IsZero() {
			continue
		}
		dayKey := e.StartedAt.Local().Format("2006-01-02")
		ds, ok := dayMap[dayKey]
		if !ok {
			t, _ := time.ParseInLocation("2006-01-02", dayKey, time.Local)
			ds = &model.DailyStats{Date: t}
			dayMap[dayKey] = ds
		}

		ds.Executions++
		ds.ValueGoverned += e.TotalCharge + e.ValueCaptured
		if e.IsFinished() {
			ds.Finished++
			if isFailed(e) {
				ds.Failed++
			}
		}
	}

	if !since.IsZero() && !until.IsZero() {
		day := startOfDay(since)
		end := startOfDay(until)
		for !day.After(end) {
			dayKey := day.Format("2006-01-02")
			if _, ok := dayMap[dayKey]; !ok {
				dayMap[dayKey] = &model.DailyStats{Date: day}
			}
			day = day.AddDate(0, 0, 1)
		}
	}

	days := make([]model.DailyStats, 0, len(dayMap))
	for _, ds := range dayMap {
		days = append(days, *ds)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})

	return days
}

func startOfDay(t time.Time) time.Time {
	l := t.Local()
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.Local)
}
