package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeExport creates a temp JSONL file and returns a DiscoveredFile for it.
func writeExport(t *testing.T, kind FileKind, lines ...string) DiscoveredFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, string(kind)+".jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return DiscoveredFile{
		Path:   path,
		Tenant: "test-tenant",
		Kind:   kind,
	}
}

func TestParseFile_Executions(t *testing.T) {
	df := writeExport(t, KindExecutions,
		`{"id":"e1","workflow_name":"checkin","status":"success","started_at":"2025-06-01T10:00:00Z","stopped_at":"2025-06-01T10:00:02Z","total_charge":"12.5","value_captured":3,"finished":true}`,
		`{"id":42,"status":"running","started_at":"2025-06-01 11:00:00","stopped_at":null,"human_escalation_triggered":"true","escalation_priority":"high"}`,
	)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Executions) != 2 {
		t.Fatalf("Executions = %d, want 2", len(result.Executions))
	}

	e := result.Executions[0]
	if e.TotalCharge != 12.5 {
		t.Errorf("TotalCharge = %v, want 12.5 (numeric string)", e.TotalCharge)
	}
	if e.ValueCaptured != 3 {
		t.Errorf("ValueCaptured = %v, want 3", e.ValueCaptured)
	}
	if d, ok := e.Latency(); !ok || d != 2*time.Second {
		t.Errorf("Latency = %v, %v; want 2s, true", d, ok)
	}

	e = result.Executions[1]
	if e.ID != "42" {
		t.Errorf("ID = %q, want 42 (numeric id)", e.ID)
	}
	if !e.StoppedAt.IsZero() || e.IsFinished() {
		t.Error("null stopped_at should read as unfinished")
	}
	want := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	if !e.StartedAt.Equal(want) {
		t.Errorf("StartedAt = %v, want %v", e.StartedAt, want)
	}
	if !e.HumanEscalationTriggered {
		t.Error("string \"true\" should decode as escalated")
	}
}

func TestParseFile_ExecutionDedup(t *testing.T) {
	// The same id appears twice: the later line is the newer state.
	df := writeExport(t, KindExecutions,
		`{"id":"e1","status":"running"}`,
		`{"id":"e2","status":"success","finished":true}`,
		`{"id":"e1","status":"error","stopped_at":"2025-06-01T10:00:00Z"}`,
	)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Executions) != 2 {
		t.Fatalf("Executions = %d, want 2 (dedup)", len(result.Executions))
	}
	if result.Executions[0].Status != "error" {
		t.Errorf("Status = %q, want error (last wins)", result.Executions[0].Status)
	}
}

func TestParseFile_MalformedLines(t *testing.T) {
	df := writeExport(t, KindExecutions,
		`{"id":"e1","status":"success"}`,
		`not json at all`,
		``,
		`{"id":"e2",`,
		`{"id":"e3","status":"error"}`,
	)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.ParseErrors != 2 {
		t.Errorf("ParseErrors = %d, want 2", result.ParseErrors)
	}
	if len(result.Executions) != 2 {
		t.Errorf("Executions = %d, want 2", len(result.Executions))
	}
}

func TestParseFile_Transactions(t *testing.T) {
	df := writeExport(t, KindTransactions,
		`{"id":"t1","guest_name":"Rossi","total_amount":"€ 21,00","collection_date":"2025-06-01"}`,
		`{"id":"t2","total_amount":63.5,"created_at":"2025-06-02T08:00:00+02:00"}`,
		`{"id":"t3","total_amount":null}`,
	)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Transactions) != 3 {
		t.Fatalf("Transactions = %d, want 3", len(result.Transactions))
	}
	if got := result.Transactions[0].TotalAmount; got != "€ 21,00" {
		t.Errorf("TotalAmount = %q, want display string kept", got)
	}
	if got := result.Transactions[1].TotalAmount; got != "€\u00a063,50" {
		t.Errorf("TotalAmount = %q, want numeric amount formatted", got)
	}
	if got := result.Transactions[2].TotalAmount; got != "" {
		t.Errorf("TotalAmount = %q, want empty", got)
	}
	if result.Transactions[0].CollectionDate.IsZero() {
		t.Error("date-only collection_date should parse")
	}
}

func TestParseFile_Messages(t *testing.T) {
	df := writeExport(t, KindMessages,
		`{"session_id":"s1","type":"human","content":"Ciao"}`,
		`{"session_id":"s1","message":{"type":"ai","content":{"response":"Hello guest"}}}`,
		`{"type":"TOOL","content":"[]"}`,
	)
	df.SessionID = "fallback"

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Messages) != 3 {
		t.Fatalf("Messages = %d, want 3", len(result.Messages))
	}

	m := result.Messages[1]
	if m.Type != "ai" {
		t.Errorf("Type = %q, want ai from envelope", m.Type)
	}
	if m.Content != `{"response":"Hello guest"}` {
		t.Errorf("Content = %q, want compact JSON of the object", m.Content)
	}
	if result.Messages[2].SessionID != "fallback" {
		t.Errorf("SessionID = %q, want file session fallback", result.Messages[2].SessionID)
	}
	if result.Messages[2].Type != "tool" {
		t.Errorf("Type = %q, want lowercased tool", result.Messages[2].Type)
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	result := ParseFile(DiscoveredFile{Path: filepath.Join(t.TempDir(), "nope.jsonl"), Kind: KindExecutions})
	if result.Err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseCashflow(t *testing.T) {
	path := filepath.Join(t.TempDir(), CashflowFile)
	doc := `{"total_revenue":"1234.5","transaction_count":10,"upsell_count":"4","tax":70}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	cf, err := ParseCashflow(path)
	if err != nil {
		t.Fatalf("ParseCashflow: %v", err)
	}
	if cf.TotalRevenue != 1234.5 {
		t.Errorf("TotalRevenue = %v, want 1234.5", cf.TotalRevenue)
	}
	if cf.TransactionCount != 10 || cf.UpsellCount != 4 {
		t.Errorf("counts = %d/%d, want 10/4", cf.TransactionCount, cf.UpsellCount)
	}
}

func TestParseTime(t *testing.T) {
	cases := map[string]bool{
		"2025-06-01T10:00:00Z":          true,
		"2025-06-01T10:00:00.123+02:00": true,
		"2025-06-01 10:00:00":           true,
		"2025-06-01 10:00:00.5+00":      true,
		"2025-06-01":                    true,
		"":                              false,
		"yesterday":                     false,
	}
	for in, ok := range cases {
		if got := !ParseTime(in).IsZero(); got != ok {
			t.Errorf("ParseTime(%q) parsed = %v, want %v", in, got, ok)
		}
	}
}
