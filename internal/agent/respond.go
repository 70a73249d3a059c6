package agent

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Quinntas/max/internal/guardrail"
	"github.com/Quinntas/max/internal/lead"
	"github.com/Quinntas/max/internal/llm"
	maxotel "github.com/Quinntas/max/internal/otel"
)

// escalationResponses are the pre-vetted acknowledgments sent when a
// conversation hands off to a human. They never pass through guardrail
// validation and never come from the text generator.
var escalationResponses = map[lead.EscalationReason]string{
	lead.ReasonAngryCustomer:   "I sincerely apologize for any frustration. Let me connect you with a manager right away who can address this directly. Someone will reach out within the next few minutes.",
	lead.ReasonExplicitRequest: "Absolutely! I'm connecting you with one of our team members who can better assist you. They'll reach out shortly.",
	lead.ReasonPriceRequest:    "Great question! For the best pricing details, let me connect you with our sales manager who can put together the right numbers for your situation. What's the best number to reach you?",
	lead.ReasonAIUncertainty:   "I want to make sure you get accurate information. Let me have one of our specialists reach out to you directly. What's the best way to contact you?",
	lead.ReasonComplexTrade:    "Trade-in values depend on several factors. I'd love to get you an accurate appraisal. Would you prefer to stop by for a quick evaluation, or should I have our team call you?",
	lead.ReasonCompliance:      "Thank you for reaching out. A member of our team will contact you shortly.",
}

// defaultAfterHoursNote is appended to escalation acknowledgments outside
// business hours when the dealership has not configured its own wording.
const defaultAfterHoursNote = "Our team is currently closed, but you're first in line when we open."

// EscalationResponse returns the canned acknowledgment for an escalation
// reason, falling back to the AI_UNCERTAINTY template when the reason is
// unrecognized. Outside the dealership's business hours the message gains
// an after-hours note so the customer knows the hand-off is not immediate.
func EscalationResponse(reason lead.EscalationReason, dealership *lead.Dealership, now time.Time) string {
	response, ok := escalationResponses[reason]
	if !ok {
		response = escalationResponses[lead.ReasonAIUncertainty]
	}

	if dealership == nil || len(dealership.BusinessHours) == 0 {
		return response
	}
	if guardrail.WithinBusinessHoursAt(dealership.Timezone, dealership.BusinessHours, now) {
		return response
	}

	note := defaultAfterHoursNote
	if dealership.Config != nil && dealership.Config.AfterHoursMessage != "" {
		note = dealership.Config.AfterHoursMessage
	}
	return response + " " + note
}

// DraftResponse asks the text generator for a customer-facing reply given
// the conversation so far and any inventory context. Total function: any
// provider failure returns the empty string so the pipeline can continue to
// validation and formatting without crashing.
func (a *Agent) DraftResponse(ctx context.Context, conversationContext, inventoryContext string) string {
	ctx, span := tracer.Start(ctx, "agent.draft_response")
	defer span.End()

	conversation := conversationContext
	if inventoryContext != "" {
		conversation += "\n\nINVENTORY INFORMATION:\n" + inventoryContext
	}

	resp, err := a.provider.Generate(ctx, &llm.Request{
		Model: a.model,
		Messages: []llm.Message{
			{Role: "system", Content: a.systemPrompt},
			{Role: "user", Content: responsePrompt(conversation, a.dealership.DisplayName())},
		},
		Temperature: responseTemperature,
		MaxTokens:   responseMaxTokens,
	})
	if err != nil {
		span.RecordError(err)
		log.Warn().Err(err).
			Str("provider", a.provider.Name()).
			Func(maxotel.LogTraceFields(ctx)).
			Msg("response_generation_failed")
		return ""
	}

	llm.RecordUsageMetrics(ctx, resp.InputTokens, resp.OutputTokens, a.tenantKey(), resp.Model, "response")

	return resp.Content
}
