package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache", "metrics.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSaveAndLoadTenant(t *testing.T) {
	c := openTestCache(t)
	started := time.Date(2025, 6, 1, 10, 0, 0, 123, time.UTC)

	execs := Records{Executions: []model.ExecutionRecord{
		{ID: "e1", WorkflowName: "checkin", Status: "success", StartedAt: started,
			StoppedAt: started.Add(time.Second), TotalCharge: 12.5, Finished: true},
		{ID: "e2", Status: "running", HumanEscalationTriggered: true, EscalationPriority: "high"},
	}}
	if err := c.SaveFile("hotel-a", "executions", "/data/hotel-a/executions.jsonl", execs, 100, 2048); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	txs := Records{Transactions: []model.TransactionRecord{
		{ID: "t1", TotalAmount: "€\u00a021,00", CollectionDate: started},
	}}
	if err := c.SaveFile("hotel-a", "transactions", "/data/hotel-a/transactions.jsonl", txs, 200, 512); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	other := Records{Messages: []model.ChatMessage{{SessionID: "s", Type: model.MessageHuman, Content: "hi"}}}
	if err := c.SaveFile("hotel-b", "messages", "/data/hotel-b/messages.jsonl", other, 300, 64); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	byFile, err := c.LoadTenant("hotel-a")
	if err != nil {
		t.Fatalf("LoadTenant: %v", err)
	}
	if len(byFile) != 2 {
		t.Fatalf("files = %d, want 2 (tenant isolation)", len(byFile))
	}

	got := byFile["/data/hotel-a/executions.jsonl"].Executions
	if len(got) != 2 {
		t.Fatalf("executions = %d, want 2", len(got))
	}
	if !got[0].StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", got[0].StartedAt, started)
	}
	if got[0].TotalCharge != 12.5 || !got[0].Finished {
		t.Errorf("first execution = %+v", got[0])
	}
	if !got[1].StoppedAt.IsZero() {
		t.Error("zero StoppedAt should round-trip as zero")
	}
	if !got[1].HumanEscalationTriggered || got[1].EscalationPriority != "high" {
		t.Errorf("second execution = %+v", got[1])
	}

	tx := byFile["/data/hotel-a/transactions.jsonl"].Transactions
	if len(tx) != 1 || tx[0].TotalAmount != "€\u00a021,00" {
		t.Errorf("transactions = %+v", tx)
	}

	n, err := c.RecordCount("hotel-a")
	if err != nil {
		t.Fatalf("RecordCount: %v", err)
	}
	if n != 3 {
		t.Errorf("RecordCount = %d, want 3", n)
	}
}

func TestSaveFileReplaces(t *testing.T) {
	c := openTestCache(t)
	path := "/data/t/executions.jsonl"

	first := Records{Executions: []model.ExecutionRecord{{ID: "a"}, {ID: "b"}}}
	if err := c.SaveFile("t", "executions", path, first, 1, 10); err != nil {
		t.Fatal(err)
	}
	second := Records{Executions: []model.ExecutionRecord{{ID: "c"}}}
	if err := c.SaveFile("t", "executions", path, second, 2, 20); err != nil {
		t.Fatal(err)
	}

	tracked, err := c.GetTrackedFiles("t")
	if err != nil {
		t.Fatal(err)
	}
	if fi := tracked[path]; fi.MtimeNs != 2 || fi.SizeBytes != 20 || fi.Records != 1 {
		t.Errorf("tracked = %+v, want mtime 2, size 20, 1 record", fi)
	}

	byFile, err := c.LoadTenant("t")
	if err != nil {
		t.Fatal(err)
	}
	if got := byFile[path].Executions; len(got) != 1 || got[0].ID != "c" {
		t.Errorf("executions = %+v, want only c", got)
	}

	if err := c.DeleteFile(path); err != nil {
		t.Fatal(err)
	}
	byFile, err = c.LoadTenant("t")
	if err != nil {
		t.Fatal(err)
	}
	if len(byFile) != 0 {
		t.Errorf("files after delete = %d, want 0", len(byFile))
	}
}

func TestIngestRuns(t *testing.T) {
	c := openTestCache(t)

	if _, ok, err := c.LastRun("t"); err != nil || ok {
		t.Fatalf("LastRun on empty cache = %v, %v", ok, err)
	}

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	older, err := c.RecordRun(IngestRun{TenantID: "t", StartedAt: base, FinishedAt: base.Add(time.Second), TotalFiles: 3})
	if err != nil {
		t.Fatal(err)
	}
	if older.ID == "" {
		t.Fatal("RecordRun should assign an id")
	}
	newer, err := c.RecordRun(IngestRun{TenantID: "t", StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour + 500*time.Millisecond), Reparsed: 1})
	if err != nil {
		t.Fatal(err)
	}

	last, ok, err := c.LastRun("t")
	if err != nil || !ok {
		t.Fatalf("LastRun = %v, %v", ok, err)
	}
	if last.ID != newer.ID || last.Reparsed != 1 {
		t.Errorf("LastRun = %+v, want the newer run", last)
	}
}
