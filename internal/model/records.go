// Package model defines domain types for armonyco metrics and records.
package model

import "time"

// ExecutionRecord is one run of an automated workflow, as exported upstream.
// Zero values mean "absent": a zero StoppedAt was never stopped, a zero
// TotalCharge was never charged.
type ExecutionRecord struct {
	ID                       string
	WorkflowName             string
	Status                   string
	StartedAt                time.Time
	StoppedAt                time.Time
	GovernanceVerdict        string
	TotalCharge              float64
	ValueCaptured            float64
	TimeSavedSeconds         float64
	HumanEscalationTriggered bool
	EscalationStatus         string
	EscalationPriority       string
	Finished                 bool
}

// IsFinished reports whether the run counts as complete for metrics:
// either the finished flag is set or a stop time was recorded.
func (e ExecutionRecord) IsFinished() bool {
	return e.Finished || !e.StoppedAt.IsZero()
}

// Latency returns the elapsed run time and whether both timestamps exist.
func (e ExecutionRecord) Latency() (time.Duration, bool) {
	if e.StartedAt.IsZero() || e.StoppedAt.IsZero() {
		return 0, false
	}
	return e.StoppedAt.Sub(e.StartedAt), true
}

// TransactionRecord is a monetary event collected from a guest.
type TransactionRecord struct {
	ID             string
	GuestName      string
	ReferenceCode  string
	TotalAmount    string // display string, e.g. "€ 1.234,50"
	CollectionDate time.Time
	CreatedAt      time.Time
}

// CashflowSummary is a precomputed revenue snapshot. When supplied to the
// dashboard aggregation its TotalRevenue replaces the per-execution sum.
type CashflowSummary struct {
	TotalRevenue     float64
	TransactionCount int
	UpsellCount      int
	Tax              float64
	CheckoutFee      float64
	CheckinFee       float64
	Service          float64
}

// MessageType tags the author of a chat message.
type MessageType string

// Chat message types.
const (
	MessageHuman MessageType = "human"
	MessageAI    MessageType = "ai"
	MessageTool  MessageType = "tool"
)

// ChatMessage is one raw entry of a guest conversation log. Content may be
// plain text or a JSON-encoded payload.
type ChatMessage struct {
	SessionID string
	Type      MessageType
	Content   string
	CreatedAt time.Time
}
