package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := map[string]string{
		"success":   StatusCompleted,
		"FINISHED":  StatusCompleted,
		"failed":    StatusFailed,
		"Error":     StatusFailed,
		"pending":   StatusInProgress,
		"running":   StatusInProgress,
		"cancelled": "cancelled",
		"waiting":   "waiting",
		"":          StatusPending,
	}
	for in, want := range cases {
		assert.Equal(t, want, Status(in), "Status(%q)", in)
	}
}

func TestPriority(t *testing.T) {
	cases := map[string]string{
		"critical": PriorityCritical,
		"URGENT":   PriorityCritical,
		"High":     PriorityHigh,
		"medium":   PriorityMedium,
		"low":      PriorityLow,
		"whatever": PriorityLow,
		"":         PriorityLow,
	}
	for in, want := range cases {
		assert.Equal(t, want, Priority(in), "Priority(%q)", in)
		assert.Equal(t, want, RiskLevel(in), "RiskLevel(%q)", in)
	}
}

func TestPriorityRankOrdersCriticalFirst(t *testing.T) {
	assert.Less(t, PriorityRank("urgent"), PriorityRank("high"))
	assert.Less(t, PriorityRank("high"), PriorityRank("medium"))
	assert.Less(t, PriorityRank("medium"), PriorityRank(""))
}

func TestVerdict(t *testing.T) {
	cases := map[string]string{
		"passed":  VerdictPassed,
		"OK":      VerdictPassed,
		"flagged": VerdictFlagged,
		"Warning": VerdictFlagged,
		"failed":  VerdictFailed,
		"bogus":   VerdictFailed,
		"":        VerdictFailed,
	}
	for in, want := range cases {
		assert.Equal(t, want, Verdict(in), "Verdict(%q)", in)
	}
}

func TestPlatform(t *testing.T) {
	cases := map[string]string{
		"whatsapp":          PlatformWhatsApp,
		"WhatsApp Business": PlatformWhatsApp,
		"booking.com":       PlatformBooking,
		"Airbnb":            PlatformAirbnb,
		"EXPEDIA":           PlatformExpedia,
		"":                  PlatformDirect,
		"Telegram":          "Telegram",
	}
	for in, want := range cases {
		assert.Equal(t, want, Platform(in), "Platform(%q)", in)
	}
}

func TestVariantsNeverFailOnUnknownInput(t *testing.T) {
	assert.Equal(t, VariantSuccess, StatusVariant("Completed"))
	assert.Equal(t, VariantError, StatusVariant("failed"))
	assert.Equal(t, VariantInfo, StatusVariant(Status("running")))
	assert.Equal(t, VariantNeutral, StatusVariant("???"))
	assert.Equal(t, VariantNeutral, StatusVariant(""))

	assert.Equal(t, VariantError, PriorityVariant("urgent"))
	assert.Equal(t, VariantWarning, PriorityVariant("high"))
	assert.Equal(t, VariantInfo, PriorityVariant("Medium"))
	assert.Equal(t, VariantNeutral, PriorityVariant(""))

	assert.Equal(t, VariantSuccess, StatusColor("resolved"))
	assert.Equal(t, VariantInfo, StatusColor("something new"))
}
