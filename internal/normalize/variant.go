package normalize

import "strings"

// Variant is a badge colour role used by the display layer.
type Variant string

// Badge variants.
const (
	VariantSuccess Variant = "success"
	VariantWarning Variant = "warning"
	VariantError   Variant = "error"
	VariantInfo    Variant = "info"
	VariantNeutral Variant = "neutral"
)

var statusVariants = map[string]Variant{
	"completed":   VariantSuccess,
	"success":     VariantSuccess,
	"finished":    VariantSuccess,
	"resolved":    VariantSuccess,
	"passed":      VariantSuccess,
	"failed":      VariantError,
	"error":       VariantError,
	"cancelled":   VariantError,
	"canceled":    VariantError,
	"in progress": VariantInfo,
	"running":     VariantInfo,
	"pending":     VariantWarning,
	"waiting":     VariantWarning,
	"open":        VariantWarning,
	"flagged":     VariantWarning,
}

var priorityVariants = map[string]Variant{
	PriorityCritical: VariantError,
	PriorityHigh:     VariantWarning,
	PriorityMedium:   VariantInfo,
	PriorityLow:      VariantNeutral,
}

// StatusVariant returns the badge variant for a raw or normalized status.
func StatusVariant(status string) Variant {
	if v, ok := statusVariants[strings.ToLower(strings.TrimSpace(status))]; ok {
		return v
	}
	return VariantNeutral
}

// PriorityVariant returns the badge variant for a raw or normalized priority.
func PriorityVariant(priority string) Variant {
	return priorityVariants[Priority(priority)]
}

// StatusColor returns the variant for a status, falling back to info for
// anything that is not recognized.
func StatusColor(status string) Variant {
	if v, ok := statusVariants[strings.ToLower(strings.TrimSpace(status))]; ok {
		return v
	}
	return VariantInfo
}
