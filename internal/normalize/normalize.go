// Package normalize maps free-text status, priority, verdict and platform
// strings from upstream systems onto a small closed vocabulary.
//
// Every function is total: unknown or empty input degrades to a documented
// default instead of failing.
package normalize

import "strings"

// Normalized status labels.
const (
	StatusCompleted  = "Completed"
	StatusFailed     = "Failed"
	StatusInProgress = "In Progress"
	StatusPending    = "Pending"
)

// Normalized priority labels.
const (
	PriorityCritical = "Critical"
	PriorityHigh     = "High"
	PriorityMedium   = "Medium"
	PriorityLow      = "Low"
)

// Normalized governance verdicts.
const (
	VerdictPassed  = "PASSED"
	VerdictFlagged = "FLAGGED"
	VerdictFailed  = "FAILED"
)

// Normalized booking platforms.
const (
	PlatformWhatsApp = "WhatsApp"
	PlatformBooking  = "Booking.com"
	PlatformAirbnb   = "Airbnb"
	PlatformExpedia  = "Expedia"
	PlatformDirect   = "Direct"
)

// Status maps a run status onto Completed, Failed or In Progress.
// Unrecognized values pass through unchanged; empty input reads as Pending.
func Status(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "success", "finished":
		return StatusCompleted
	case "failed", "error":
		return StatusFailed
	case "pending", "running":
		return StatusInProgress
	}
	if raw == "" {
		return StatusPending
	}
	return raw
}

// Priority maps an escalation priority onto Critical, High, Medium or Low.
// Anything unrecognized, including empty input, is Low.
func Priority(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical", "urgent":
		return PriorityCritical
	case "high":
		return PriorityHigh
	case "medium":
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// RiskLevel is an alias of Priority.
func RiskLevel(raw string) string {
	return Priority(raw)
}

// PriorityRank orders normalized priorities, Critical first.
func PriorityRank(raw string) int {
	switch Priority(raw) {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// Verdict maps a governance verdict onto PASSED, FLAGGED or FAILED.
// An unrecognized verdict is treated as FAILED.
func Verdict(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "passed", "ok":
		return VerdictPassed
	case "flagged", "warning":
		return VerdictFlagged
	default:
		return VerdictFailed
	}
}

var platformKeywords = []struct {
	keyword string
	label   string
}{
	{"whatsapp", PlatformWhatsApp},
	{"booking", PlatformBooking},
	{"airbnb", PlatformAirbnb},
	{"expedia", PlatformExpedia},
}

// Platform maps a channel name onto a known booking platform by keyword.
// Empty input is Direct; unknown names pass through unchanged.
func Platform(raw string) string {
	lower := strings.ToLower(raw)
	for _, p := range platformKeywords {
		if strings.Contains(lower, p.keyword) {
			return p.label
		}
	}
	if strings.TrimSpace(raw) == "" {
		return PlatformDirect
	}
	return raw
}
