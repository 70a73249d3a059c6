package guardrail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name           string
		response       string
		wantValid      bool
		wantViolations []string
	}{
		{
			name:      "clean response",
			response:  "Thanks for reaching out! A team member will follow up about pricing soon.",
			wantValid: true,
		},
		{
			name:           "dollar amount",
			response:       "The Camry is $28,500.",
			wantValid:      false,
			wantViolations: []string{"specific_dollar_amount"},
		},
		{
			name:           "apr percentage",
			response:       "We can do 3.9% APR on approved credit.",
			wantValid:      false,
			wantViolations: []string{"specific_percentage"},
		},
		{
			name:           "guarantee language",
			response:       "I guarantee you'll love it, absolutely.",
			wantValid:      false,
			wantViolations: []string{"guarantee_language"},
		},
		{
			name:           "inventory claim",
			response:       "That trim is in stock and available now.",
			wantValid:      false,
			wantViolations: []string{"inventory_claim"},
		},
		{
			name:           "trade-in value",
			response:       "Your trade-in is worth $12,000 easily.",
			wantValid:      false,
			wantViolations: []string{"specific_dollar_amount", "trade_in_value"},
		},
		{
			name:           "financing approval",
			response:       "You're pre-approved for financing today.",
			wantValid:      false,
			wantViolations: []string{"financing_approval"},
		},
		{
			name:           "delivery date",
			response:       "We can have it delivered by Friday.",
			wantValid:      false,
			wantViolations: []string{"delivery_date"},
		},
		{
			name:           "msrp quote",
			response:       "The MSRP is $31,200 for that package.",
			wantValid:      false,
			wantViolations: []string{"specific_dollar_amount", "msrp_quote"},
		},
		{
			name:           "multiple categories in order",
			response:       "I promise the F-150 is in stock for $45,000.",
			wantValid:      false,
			wantViolations: []string{"specific_dollar_amount", "guarantee_language", "inventory_claim"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateResponse(tt.response)
			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Equal(t, tt.wantViolations, got.Violations)
		})
	}
}

func TestSanitizeResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "dollar amount redacted",
			response: "We can offer $500 off today.",
			want:     "We can offer [price available upon request] off today.",
		},
		{
			name:     "dollar with cents",
			response: "It comes to $28,500.00 total.",
			want:     "It comes to [price available upon request] total.",
		},
		{
			name:     "apr redacted",
			response: "Financing at 3.9% APR is typical.",
			want:     "Financing at [rate details available] is typical.",
		},
		{
			name:     "interest redacted",
			response: "You'd pay 5% interest over 60 months.",
			want:     "You'd pay [rate details available] over 60 months.",
		},
		{
			name:     "both categories",
			response: "The Civic is $26,500 at 2.9% APR.",
			want:     "The Civic is [price available upon request] at [rate details available].",
		},
		{
			name:     "plain percentage untouched",
			response: "Battery health is at 95% capacity.",
			want:     "Battery health is at 95% capacity.",
		},
		{
			name:     "guarantee language not rewritten",
			response: "I promise we'll take care of you.",
			want:     "I promise we'll take care of you.",
		},
		{
			name:     "clean text unchanged",
			response: "Happy to help with your search!",
			want:     "Happy to help with your search!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeResponse(tt.response))
		})
	}
}

func TestSanitizedResponseClearsPriceViolations(t *testing.T) {
	dirty := "The Camry is $28,500 with 3.9% APR."
	sanitized := SanitizeResponse(dirty)
	got := ValidateResponse(sanitized)
	assert.NotContains(t, got.Violations, "specific_dollar_amount")
	assert.NotContains(t, got.Violations, "specific_percentage")
}
