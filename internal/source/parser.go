// Package source discovers and parses tenant export files: executions,
// transactions and chat messages as JSONL, plus an optional cashflow summary.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
)

// ParseResult holds the output of parsing a single JSONL file. Only the
// slice matching the file's kind is populated.
type ParseResult struct {
	File         DiscoveredFile
	Executions   []model.ExecutionRecord
	Transactions []model.TransactionRecord
	Messages     []model.ChatMessage
	ParseErrors  int
	Err          error
}

// Records returns how many records the file produced.
func (r ParseResult) Records() int {
	return len(r.Executions) + len(r.Transactions) + len(r.Messages)
}

// ParseFile reads a JSONL export file and decodes every line according to
// the file's kind. Malformed lines are counted and skipped. Executions and
// transactions are deduplicated by id, keeping the last line per id, since
// exports append a fresh line whenever a record changes.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{File: df, Err: err}
	}
	defer func() { _ = f.Close() }()

	result := ParseResult{File: df}
	execIdx := make(map[string]int)
	txIdx := make(map[string]int)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 2*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		switch df.Kind {
		case KindExecutions:
			var raw RawExecution
			if err := json.Unmarshal(line, &raw); err != nil {
				result.ParseErrors++
				continue
			}
			rec := raw.Record()
			if i, ok := execIdx[rec.ID]; ok && rec.ID != "" {
				result.Executions[i] = rec
				continue
			}
			execIdx[rec.ID] = len(result.Executions)
			result.Executions = append(result.Executions, rec)

		case KindTransactions:
			var raw RawTransaction
			if err := json.Unmarshal(line, &raw); err != nil {
				result.ParseErrors++
				continue
			}
			rec := raw.Record()
			if i, ok := txIdx[rec.ID]; ok && rec.ID != "" {
				result.Transactions[i] = rec
				continue
			}
			txIdx[rec.ID] = len(result.Transactions)
			result.Transactions = append(result.Transactions, rec)

		case KindMessages:
			var raw RawChatMessage
			if err := json.Unmarshal(line, &raw); err != nil {
				result.ParseErrors++
				continue
			}
			msg := raw.Record()
			if msg.SessionID == "" {
				msg.SessionID = df.SessionID
			}
			result.Messages = append(result.Messages, msg)

		default:
			return ParseResult{File: df, Err: fmt.Errorf("unknown file kind %q", df.Kind)}
		}
	}

	if err := scanner.Err(); err != nil {
		return ParseResult{File: df, Err: err}
	}

	return result
}

// ParseCashflow reads the optional cashflow summary JSON document.
func ParseCashflow(path string) (*model.CashflowSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cashflow: %w", err)
	}
	var raw RawCashflow
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing cashflow %s: %w", path, err)
	}
	cf := raw.Summary()
	return &cf, nil
}

// Record converts the raw line into a domain record.
func (r RawExecution) Record() model.ExecutionRecord {
	return model.ExecutionRecord{
		ID:                       strings.TrimSpace(string(r.ID)),
		WorkflowName:             string(r.WorkflowName),
		Status:                   string(r.Status),
		StartedAt:                r.StartedAt.Time(),
		StoppedAt:                r.StoppedAt.Time(),
		GovernanceVerdict:        string(r.GovernanceVerdict),
		TotalCharge:              float64(r.TotalCharge),
		ValueCaptured:            float64(r.ValueCaptured),
		TimeSavedSeconds:         float64(r.TimeSavedSeconds),
		HumanEscalationTriggered: bool(r.HumanEscalationTriggered),
		EscalationStatus:         string(r.EscalationStatus),
		EscalationPriority:       string(r.EscalationPriority),
		Finished:                 bool(r.Finished),
	}
}

// Record converts the raw line into a domain record.
func (r RawTransaction) Record() model.TransactionRecord {
	return model.TransactionRecord{
		ID:             strings.TrimSpace(string(r.ID)),
		GuestName:      string(r.GuestName),
		ReferenceCode:  string(r.ReferenceCode),
		TotalAmount:    string(r.TotalAmount),
		CollectionDate: r.CollectionDate.Time(),
		CreatedAt:      r.CreatedAt.Time(),
	}
}

// Record converts the raw line into a chat message, preferring the nested
// envelope when the top level carries no type.
func (r RawChatMessage) Record() model.ChatMessage {
	msgType, content := r.Type, r.Content
	if r.Message != nil {
		if msgType == "" {
			msgType = r.Message.Type
		}
		if content == "" {
			content = r.Message.Content
		}
	}
	return model.ChatMessage{
		SessionID: string(r.SessionID),
		Type:      model.MessageType(strings.ToLower(strings.TrimSpace(string(msgType)))),
		Content:   string(content),
		CreatedAt: r.CreatedAt.Time(),
	}
}

// Summary converts the raw document into a cashflow summary.
func (r RawCashflow) Summary() model.CashflowSummary {
	return model.CashflowSummary{
		TotalRevenue:     float64(r.TotalRevenue),
		TransactionCount: int(r.TransactionCount),
		UpsellCount:      int(r.UpsellCount),
		Tax:              float64(r.Tax),
		CheckoutFee:      float64(r.CheckoutFee),
		CheckinFee:       float64(r.CheckinFee),
		Service:          float64(r.Service),
	}
}
