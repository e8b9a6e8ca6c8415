package source

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/currency"
)

// FileKind identifies which record type an export file holds.
type FileKind string

// Export file kinds.
const (
	KindExecutions   FileKind = "executions"
	KindTransactions FileKind = "transactions"
	KindMessages     FileKind = "messages"
)

// Kinds lists every JSONL kind in scan order.
var Kinds = []FileKind{KindExecutions, KindTransactions, KindMessages}

// DiscoveredFile represents an export file found during directory scanning.
type DiscoveredFile struct {
	Path      string
	Tenant    string
	Kind      FileKind
	SessionID string // messages only: taken from "messages-<session>.jsonl"
}

// RawExecution is one line of an executions export.
type RawExecution struct {
	ID                       Text      `json:"id"`
	WorkflowName             Text      `json:"workflow_name"`
	Status                   Text      `json:"status"`
	StartedAt                Timestamp `json:"started_at"`
	StoppedAt                Timestamp `json:"stopped_at"`
	GovernanceVerdict        Text      `json:"governance_verdict"`
	TotalCharge              Number    `json:"total_charge"`
	ValueCaptured            Number    `json:"value_captured"`
	TimeSavedSeconds         Number    `json:"time_saved_seconds"`
	HumanEscalationTriggered Flag      `json:"human_escalation_triggered"`
	EscalationStatus         Text      `json:"escalation_status"`
	EscalationPriority       Text      `json:"escalation_priority"`
	Finished                 Flag      `json:"finished"`
}

// RawTransaction is one line of a transactions export.
type RawTransaction struct {
	ID             Text      `json:"id"`
	GuestName      Text      `json:"guest_name"`
	ReferenceCode  Text      `json:"reference_code"`
	TotalAmount    Amount    `json:"total_amount"`
	CollectionDate Timestamp `json:"collection_date"`
	CreatedAt      Timestamp `json:"created_at"`
}

// RawChatMessage is one line of a chat history export. The type and content
// may sit at the top level or inside a nested "message" envelope.
type RawChatMessage struct {
	SessionID Text            `json:"session_id"`
	Type      Text            `json:"type"`
	Content   Content         `json:"content"`
	CreatedAt Timestamp       `json:"created_at"`
	Message   *RawChatPayload `json:"message,omitempty"`
}

// RawChatPayload is the nested message envelope.
type RawChatPayload struct {
	Type    Text    `json:"type"`
	Content Content `json:"content"`
}

// RawCashflow is the optional precomputed cashflow summary.
type RawCashflow struct {
	TotalRevenue     Number `json:"total_revenue"`
	TransactionCount Number `json:"transaction_count"`
	UpsellCount      Number `json:"upsell_count"`
	Tax              Number `json:"tax"`
	CheckoutFee      Number `json:"checkout_fee"`
	CheckinFee       Number `json:"checkin_fee"`
	Service          Number `json:"service"`
}

var null = []byte("null")

// Number decodes a JSON number, a numeric string, or null. Anything that
// does not parse decodes as 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*n = 0
	if len(data) == 0 || bytes.Equal(data, null) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil //nolint:nilerr // lenient: bad strings read as 0
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil //nolint:nilerr // lenient: bad strings read as 0
		}
		*n = Number(f)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil //nolint:nilerr // lenient: booleans and objects read as 0
	}
	*n = Number(f)
	return nil
}

// Flag decodes a JSON boolean, "true"/"false" strings, 0/1, or null.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.ToLower(string(bytes.TrimSpace(data))), `"`)
	switch s {
	case "true", "1", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}

// Text decodes a JSON string, a number rendered as text, or null as "".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = ""
	if len(data) == 0 || bytes.Equal(data, null) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		return nil
	}
	*t = Text(data)
	return nil
}

// Amount decodes a display string as-is, or a raw number rendered in the
// euro display convention so that downstream parsing sees one format.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*a = ""
	if len(data) == 0 || bytes.Equal(data, null) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil //nolint:nilerr // lenient: non-numeric amounts are empty
	}
	*a = Amount(currency.Format(f))
	return nil
}

// Content decodes a chat body. Strings decode verbatim; any other JSON
// value is kept as its compact JSON text for the sanitizer to inspect.
type Content string

func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*c = ""
	if len(data) == 0 || bytes.Equal(data, null) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Content(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*c = Content(buf.String())
	return nil
}

// timestampLayouts are tried in order when decoding a Timestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp decodes RFC 3339 and common SQL timestamp layouts. Null, empty
// or unrecognized values decode as the zero time, meaning "absent".
type Timestamp time.Time

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	*ts = Timestamp{}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil //nolint:nilerr // lenient: non-string timestamps are absent
	}
	*ts = Timestamp(ParseTime(s))
	return nil
}

// Time returns the decoded time.
func (ts Timestamp) Time() time.Time { return time.Time(ts) }

// ParseTime parses a timestamp in any supported layout. Layouts without a
// zone are read as UTC. It returns the zero time when nothing matches.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
