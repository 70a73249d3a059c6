package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Quinntas/max/internal/lead"
	"github.com/Quinntas/max/internal/testutil"
)

func TestEscalationResponseTemplates(t *testing.T) {
	for reason, want := range escalationResponses {
		assert.Equal(t, want, EscalationResponse(reason, nil, time.Now()), "reason %s", reason)
	}
}

func TestEscalationResponseUnknownReasonFallsBack(t *testing.T) {
	got := EscalationResponse(lead.EscalationReason("SOLAR_FLARE"), nil, time.Now())
	assert.Equal(t, escalationResponses[lead.ReasonAIUncertainty], got)
}

func TestEscalationResponseAfterHours(t *testing.T) {
	d := testutil.TestDealership(nil)
	d.Timezone = "UTC"
	d.BusinessHours = lead.BusinessHours{
		"monday": {Open: "09:00", Close: "18:00"},
	}

	// 2026-08-24 is a Monday.
	during := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	after := time.Date(2026, 8, 24, 20, 0, 0, 0, time.UTC)

	base := escalationResponses[lead.ReasonExplicitRequest]

	assert.Equal(t, base, EscalationResponse(lead.ReasonExplicitRequest, d, during))
	assert.Equal(t, base+" "+defaultAfterHoursNote, EscalationResponse(lead.ReasonExplicitRequest, d, after))
}

func TestEscalationResponseAfterHoursCustomNote(t *testing.T) {
	d := testutil.TestDealership(&lead.DealershipConfig{
		AfterHoursMessage: "We open at 9am and will text you first thing.",
	})
	d.Timezone = "UTC"
	d.BusinessHours = lead.BusinessHours{
		"monday": {Open: "09:00", Close: "18:00"},
	}
	after := time.Date(2026, 8, 24, 20, 0, 0, 0, time.UTC)

	got := EscalationResponse(lead.ReasonAngryCustomer, d, after)
	assert.Equal(t, escalationResponses[lead.ReasonAngryCustomer]+" We open at 9am and will text you first thing.", got)
}

func TestEscalationResponseNoHoursConfigured(t *testing.T) {
	d := testutil.TestDealership(nil)
	// Middle of the night, but no hours configured means no note.
	at := time.Date(2026, 8, 24, 3, 0, 0, 0, time.UTC)
	got := EscalationResponse(lead.ReasonPriceRequest, d, at)
	assert.Equal(t, escalationResponses[lead.ReasonPriceRequest], got)
}

func TestDraftResponse(t *testing.T) {
	provider := &testutil.ScriptedProvider{Responses: []string{"Happy to help! What's your timeline?"}}
	a := New(provider, "", testutil.TestDealership(nil))

	got := a.DraftResponse(context.Background(), "CUSTOMER: any Camrys?", "- 2023 Toyota Camry SE")
	assert.Equal(t, "Happy to help! What's your timeline?", got)

	reqs := provider.Requests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Messages, 2)
	assert.Contains(t, reqs[0].Messages[1].Content, "INVENTORY INFORMATION:\n- 2023 Toyota Camry SE")
	assert.False(t, reqs[0].JSONMode)
}

func TestDraftResponseOmitsEmptyInventory(t *testing.T) {
	provider := &testutil.ScriptedProvider{Responses: []string{"ok"}}
	a := New(provider, "", nil)

	a.DraftResponse(context.Background(), "CUSTOMER: hi", "")

	reqs := provider.Requests()
	require.Len(t, reqs, 1)
	assert.NotContains(t, reqs[0].Messages[1].Content, "INVENTORY INFORMATION")
}

func TestDraftResponseProviderFailure(t *testing.T) {
	provider := &testutil.MockProvider{ProviderName: "openai", Err: errors.New("timeout")}
	a := New(provider, "", nil)

	got := a.DraftResponse(context.Background(), "CUSTOMER: hi", "")
	assert.Equal(t, "", got)
}
