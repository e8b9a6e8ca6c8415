package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestScanDir(t *testing.T) {
	data := t.TempDir()
	tenant := filepath.Join(data, "hotel-a")
	touch(t, filepath.Join(tenant, "executions.jsonl"))
	touch(t, filepath.Join(tenant, "2025-06", "executions-june.jsonl"))
	touch(t, filepath.Join(tenant, "transactions.jsonl"))
	touch(t, filepath.Join(tenant, "messages-abc123.jsonl"))
	touch(t, filepath.Join(tenant, "notes.jsonl"))
	touch(t, filepath.Join(tenant, "cashflow.json"))
	touch(t, filepath.Join(data, "hotel-b", "executions.jsonl"))

	files, err := ScanDir(data, "hotel-a")
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(files) != 4 {
		t.Fatalf("files = %d, want 4", len(files))
	}

	counts := CountByKind(files)
	if counts[KindExecutions] != 2 || counts[KindTransactions] != 1 || counts[KindMessages] != 1 {
		t.Errorf("counts = %v", counts)
	}
	for _, f := range files {
		if f.Tenant != "hotel-a" {
			t.Errorf("Tenant = %q, want hotel-a", f.Tenant)
		}
		if f.Kind == KindMessages && f.SessionID != "abc123" {
			t.Errorf("SessionID = %q, want abc123", f.SessionID)
		}
	}

	if _, ok := FindCashflow(data, "hotel-a"); !ok {
		t.Error("cashflow.json not found")
	}
	if _, ok := FindCashflow(data, "hotel-b"); ok {
		t.Error("hotel-b has no cashflow.json")
	}
}

func TestScanDir_MissingTenantDir(t *testing.T) {
	files, err := ScanDir(t.TempDir(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("files = %d, want 0", len(files))
	}
}

func TestScanDir_TenantRequired(t *testing.T) {
	if _, err := ScanDir(t.TempDir(), ""); !errors.Is(err, ErrNoTenant) {
		t.Errorf("err = %v, want ErrNoTenant", err)
	}
	if _, err := ScanDir(t.TempDir(), "../etc"); err == nil {
		t.Error("expected error for tenant escaping the data dir")
	}
}

func TestListTenants(t *testing.T) {
	data := t.TempDir()
	touch(t, filepath.Join(data, "b", "executions.jsonl"))
	touch(t, filepath.Join(data, "a", "executions.jsonl"))
	touch(t, filepath.Join(data, ".hidden", "executions.jsonl"))
	touch(t, filepath.Join(data, "stray.jsonl"))

	tenants, err := ListTenants(data)
	if err != nil {
		t.Fatalf("ListTenants: %v", err)
	}
	if len(tenants) != 2 || tenants[0] != "a" || tenants[1] != "b" {
		t.Errorf("tenants = %v, want [a b]", tenants)
	}
}
