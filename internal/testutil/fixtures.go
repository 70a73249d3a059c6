package testutil

import "github.com/Quinntas/max/internal/lead"

// TestWebhookAuthToken is the HMAC key used by webhook signature tests.
const TestWebhookAuthToken = "test-webhook-token-1234567890abc"

// ExtractionJSON is a well-formed extraction payload for a high-intent
// sales lead: immediate timeline, bounded budget, full vehicle interest,
// and a trade-in. It scores 100 under the rubric.
const ExtractionJSON = `{
	"intent": "SALES",
	"vehicleInterest": {"make": "Toyota", "model": "Camry", "year": 2023, "trim": "SE"},
	"timeline": "immediate",
	"budgetMentioned": true,
	"budgetRange": {"min": 25000, "max": 30000},
	"hasTradeIn": true,
	"wantsHuman": false,
	"sentimentScore": 0.5,
	"confidence": 0.9
}`

// TestDealership returns a dealership with the given persona config and a
// fixed identity, suitable for prompt and pipeline tests.
func TestDealership(config *lead.DealershipConfig) *lead.Dealership {
	return &lead.Dealership{
		ID:     1,
		PID:    "sunrise-toyota",
		Name:   "Sunrise Toyota",
		Brand:  "Toyota",
		Config: config,
	}
}
