package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoTenant is returned when a scan is requested without a tenant id.
var ErrNoTenant = errors.New("no tenant selected")

// CashflowFile is the name of the optional precomputed summary.
const CashflowFile = "cashflow.json"

// TenantDir returns the export directory of one tenant.
func TenantDir(dataDir, tenantID string) string {
	return filepath.Join(dataDir, tenantID)
}

// ValidateTenant rejects empty ids and ids that would escape the data dir.
func ValidateTenant(tenantID string) error {
	if strings.TrimSpace(tenantID) == "" {
		return ErrNoTenant
	}
	if tenantID == "." || tenantID == ".." || strings.ContainsAny(tenantID, `/\`) {
		return fmt.Errorf("invalid tenant id %q", tenantID)
	}
	return nil
}

// ScanDir walks a tenant's export directory and discovers every JSONL file
// it recognizes. A missing directory yields no files and no error.
//
// Files are classified by name prefix:
//
//	executions*.jsonl   -> KindExecutions
//	transactions*.jsonl -> KindTransactions
//	messages*.jsonl     -> KindMessages
func ScanDir(dataDir, tenantID string) ([]DiscoveredFile, error) {
	if err := ValidateTenant(tenantID); err != nil {
		return nil, err
	}
	root := TenantDir(dataDir, tenantID)

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() || filepath.Ext(path) != ".jsonl" {
			return nil
		}

		name := strings.TrimSuffix(d.Name(), ".jsonl")
		kind, rest, ok := classifyName(name)
		if !ok {
			return nil
		}

		df := DiscoveredFile{
			Path:   path,
			Tenant: tenantID,
			Kind:   kind,
		}
		if kind == KindMessages {
			df.SessionID = strings.TrimLeft(rest, "-_.")
		}

		files = append(files, df)
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// classifyName matches a file stem against the known kind prefixes and
// returns the remainder after the prefix.
func classifyName(stem string) (FileKind, string, bool) {
	lower := strings.ToLower(stem)
	for _, k := range Kinds {
		if strings.HasPrefix(lower, string(k)) {
			return k, stem[len(k):], true
		}
	}
	return "", "", false
}

// FindCashflow returns the path of the tenant's cashflow summary, if present.
func FindCashflow(dataDir, tenantID string) (string, bool) {
	if ValidateTenant(tenantID) != nil {
		return "", false
	}
	path := filepath.Join(TenantDir(dataDir, tenantID), CashflowFile)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// ListTenants returns the tenant ids that have an export directory.
func ListTenants(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dataDir, err)
	}

	var tenants []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			tenants = append(tenants, e.Name())
		}
	}
	sort.Strings(tenants)
	return tenants, nil
}

// CountByKind returns how many files of each kind were discovered.
func CountByKind(files []DiscoveredFile) map[FileKind]int {
	counts := make(map[FileKind]int, len(Kinds))
	for _, f := range files {
		counts[f.Kind]++
	}
	return counts
}
