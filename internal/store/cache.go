// Package store provides a SQLite-backed cache for parsed export records.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed record caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked state of one export file.
type FileInfo struct {
	Kind      string
	MtimeNs   int64
	SizeBytes int64
	Records   int
}

// Records groups the cached records of one export file.
type Records struct {
	Executions   []model.ExecutionRecord
	Transactions []model.TransactionRecord
	Messages     []model.ChatMessage
}

// Len returns the total number of records.
func (r Records) Len() int {
	return len(r.Executions) + len(r.Transactions) + len(r.Messages)
}

// GetTrackedFiles returns a map of file_path -> FileInfo for one tenant.
func (c *Cache) GetTrackedFiles(tenantID string) (map[string]FileInfo, error) {
	rows, err := c.db.Query(
		"SELECT file_path, kind, mtime_ns, size_bytes, records FROM file_tracker WHERE tenant_id = ?",
		tenantID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.Kind, &fi.MtimeNs, &fi.SizeBytes, &fi.Records); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveFile replaces every cached record of one export file and updates its
// tracking info in a single transaction.
func (c *Cache) SaveFile(tenantID, kind, path string, recs Records, mtimeNs, sizeBytes int64) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"executions", "transactions", "messages", "file_tracker"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE file_path = ?", path); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT INTO file_tracker
		(file_path, tenant_id, kind, mtime_ns, size_bytes, records, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		path, tenantID, kind, mtimeNs, sizeBytes, recs.Len(), now)
	if err != nil {
		return err
	}

	for i, e := range recs.Executions {
		_, err = tx.Exec(`INSERT INTO executions
			(tenant_id, file_path, seq, execution_id, workflow_name, status,
			 started_at, stopped_at, governance_verdict, total_charge, value_captured,
			 time_saved_seconds, human_escalation, escalation_status, escalation_priority, finished)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tenantID, path, i, e.ID, e.WorkflowName, e.Status,
			formatTime(e.StartedAt), formatTime(e.StoppedAt), e.GovernanceVerdict,
			e.TotalCharge, e.ValueCaptured, e.TimeSavedSeconds,
			boolInt(e.HumanEscalationTriggered), e.EscalationStatus, e.EscalationPriority,
			boolInt(e.Finished),
		)
		if err != nil {
			return err
		}
	}

	for i, t := range recs.Transactions {
		_, err = tx.Exec(`INSERT INTO transactions
			(tenant_id, file_path, seq, transaction_id, guest_name, reference_code,
			 total_amount, collection_date, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tenantID, path, i, t.ID, t.GuestName, t.ReferenceCode,
			t.TotalAmount, formatTime(t.CollectionDate), formatTime(t.CreatedAt),
		)
		if err != nil {
			return err
		}
	}

	for i, m := range recs.Messages {
		_, err = tx.Exec(`INSERT INTO messages
			(tenant_id, file_path, seq, session_id, type, content, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			tenantID, path, i, m.SessionID, string(m.Type), m.Content, formatTime(m.CreatedAt),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadTenant reads every cached record of one tenant, grouped by the file
// it came from. Records keep their original order within a file.
func (c *Cache) LoadTenant(tenantID string) (map[string]*Records, error) {
	byFile := make(map[string]*Records)
	get := func(path string) *Records {
		r, ok := byFile[path]
		if !ok {
			r = &Records{}
			byFile[path] = r
		}
		return r
	}

	rows, err := c.db.Query(`SELECT
		file_path, execution_id, workflow_name, status, started_at, stopped_at,
		governance_verdict, total_charge, value_captured, time_saved_seconds,
		human_escalation, escalation_status, escalation_priority, finished
		FROM executions WHERE tenant_id = ? ORDER BY file_path, seq`, tenantID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var path string
		var e model.ExecutionRecord
		var id, workflow, status, started, stopped, verdict, escStatus, escPriority sql.NullString
		var charge, captured, saved sql.NullFloat64
		var escalated, finished int
		if err := rows.Scan(&path, &id, &workflow, &status, &started, &stopped,
			&verdict, &charge, &captured, &saved,
			&escalated, &escStatus, &escPriority, &finished); err != nil {
			_ = rows.Close()
			return nil, err
		}
		e.ID = id.String
		e.WorkflowName = workflow.String
		e.Status = status.String
		e.StartedAt = parseTime(started)
		e.StoppedAt = parseTime(stopped)
		e.GovernanceVerdict = verdict.String
		e.TotalCharge = charge.Float64
		e.ValueCaptured = captured.Float64
		e.TimeSavedSeconds = saved.Float64
		e.HumanEscalationTriggered = escalated != 0
		e.EscalationStatus = escStatus.String
		e.EscalationPriority = escPriority.String
		e.Finished = finished != 0

		r := get(path)
		r.Executions = append(r.Executions, e)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = c.db.Query(`SELECT
		file_path, transaction_id, guest_name, reference_code, total_amount,
		collection_date, created_at
		FROM transactions WHERE tenant_id = ? ORDER BY file_path, seq`, tenantID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var path string
		var id, guest, ref, amount, collected, created sql.NullString
		if err := rows.Scan(&path, &id, &guest, &ref, &amount, &collected, &created); err != nil {
			_ = rows.Close()
			return nil, err
		}
		r := get(path)
		r.Transactions = append(r.Transactions, model.TransactionRecord{
			ID:             id.String,
			GuestName:      guest.String,
			ReferenceCode:  ref.String,
			TotalAmount:    amount.String,
			CollectionDate: parseTime(collected),
			CreatedAt:      parseTime(created),
		})
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = c.db.Query(`SELECT
		file_path, session_id, type, content, created_at
		FROM messages WHERE tenant_id = ? ORDER BY file_path, seq`, tenantID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var path string
		var session, typ, content, created sql.NullString
		if err := rows.Scan(&path, &session, &typ, &content, &created); err != nil {
			_ = rows.Close()
			return nil, err
		}
		r := get(path)
		r.Messages = append(r.Messages, model.ChatMessage{
			SessionID: session.String,
			Type:      model.MessageType(typ.String),
			Content:   content.String,
			CreatedAt: parseTime(created),
		})
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	return byFile, nil
}

// DeleteFile removes a tracked file and every record cached from it.
func (c *Cache) DeleteFile(filePath string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"executions", "transactions", "messages", "file_tracker"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE file_path = ?", filePath); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecordCount returns the number of cached records for a tenant.
func (c *Cache) RecordCount(tenantID string) (int, error) {
	var count int
	err := c.db.QueryRow(
		"SELECT COALESCE(SUM(records), 0) FROM file_tracker WHERE tenant_id = ?",
		tenantID).Scan(&count)
	return count, err
}

// IngestRun summarizes one load of a tenant's exports.
type IngestRun struct {
	ID          string
	TenantID    string
	StartedAt   time.Time
	FinishedAt  time.Time
	TotalFiles  int
	CacheHits   int
	Reparsed    int
	ParseErrors int
	FileErrors  int
}

// NewRunID returns a fresh ingest run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// RecordRun stores an ingest run, assigning an id when it has none.
func (c *Cache) RecordRun(run IngestRun) (IngestRun, error) {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	_, err := c.db.Exec(`INSERT OR REPLACE INTO ingest_runs
		(run_id, tenant_id, started_at, finished_at, total_files, cache_hits,
		 reparsed, parse_errors, file_errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.TenantID, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.TotalFiles, run.CacheHits, run.Reparsed, run.ParseErrors, run.FileErrors,
	)
	if err != nil {
		return run, fmt.Errorf("recording ingest run: %w", err)
	}
	return run, nil
}

// LastRun returns the most recent ingest run of a tenant.
// ok is false when the tenant was never loaded.
func (c *Cache) LastRun(tenantID string) (run IngestRun, ok bool, err error) {
	var started, finished sql.NullString
	err = c.db.QueryRow(`SELECT
		run_id, tenant_id, started_at, finished_at, total_files, cache_hits,
		reparsed, parse_errors, file_errors
		FROM ingest_runs WHERE tenant_id = ?
		ORDER BY finished_at DESC LIMIT 1`, tenantID).Scan(
		&run.ID, &run.TenantID, &started, &finished, &run.TotalFiles, &run.CacheHits,
		&run.Reparsed, &run.ParseErrors, &run.FileErrors,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return IngestRun{}, false, nil
	}
	if err != nil {
		return IngestRun{}, false, err
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	return run, true, nil
}

func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	return err
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s.String)
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
