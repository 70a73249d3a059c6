package guardrail

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Quinntas/max/internal/lead"
)

func TestDetectStopMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{name: "bare stop", message: "STOP", want: true},
		{name: "stop with whitespace", message: "  stop  ", want: true},
		{name: "unsubscribe", message: "unsubscribe", want: true},
		{name: "stop in sentence", message: "please stop texting me", want: true},
		{name: "opt-out with hyphen", message: "I want to opt-out", want: true},
		{name: "opt out with space", message: "opt out please", want: true},
		{name: "cancel", message: "cancel my subscription", want: true},
		{name: "quit", message: "quit it", want: true},
		{name: "end", message: "end these messages", want: true},
		{name: "stop as substring does not match", message: "the bus stops here are unstoppable", want: false},
		{name: "normal inquiry", message: "do you have a Camry in stock?", want: false},
		{name: "empty message", message: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectStopMessage(tt.message))
		})
	}
}

func TestDetectHumanRequest(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{name: "speak to a human", message: "can I speak to a human", want: true},
		{name: "talk to someone", message: "I want to talk to someone", want: true},
		{name: "connect with an agent", message: "connect me with an agent", want: true},
		{name: "transfer to manager", message: "transfer me to your manager", want: true},
		{name: "speak with a representative", message: "I'd like to speak with a representative please", want: true},
		{name: "verb without noun", message: "I want to talk about financing", want: false},
		{name: "noun without verb", message: "is a human reading this?", want: false},
		{name: "noun before verb does not match", message: "which person should I talk", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectHumanRequest(tt.message))
		})
	}
}

func TestDetectPriceNegotiation(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{name: "best price", message: "what's your best price", want: true},
		{name: "otd", message: "give me the OTD number", want: true},
		{name: "out the door", message: "what's the out the door cost", want: true},
		{name: "out-the-door", message: "out-the-door price?", want: true},
		{name: "bottom line", message: "just tell me the bottom line", want: true},
		{name: "lowest", message: "is that the lowest you can go", want: true},
		{name: "deal", message: "can we make a deal", want: true},
		{name: "plain price question", message: "how much is the Camry", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPriceNegotiation(tt.message))
		})
	}
}

func TestDetectAngrySentiment(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{name: "angry", message: "I am so angry right now", want: true},
		{name: "ridiculous", message: "this is ridiculous", want: true},
		{name: "lawsuit threat", message: "my lawyer will hear about this lawsuit", want: true},
		{name: "bbb complaint", message: "I'm filing a BBB complaint", want: true},
		{name: "worst", message: "worst dealership ever", want: true},
		{name: "calm message", message: "looking forward to the test drive", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectAngrySentiment(tt.message))
		})
	}
}

func TestCheckEscalationTriggers(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		confidence float64
		want       EscalationCheck
	}{
		{
			name:       "angry message",
			message:    "this is unacceptable",
			confidence: 0.9,
			want:       EscalationCheck{ShouldEscalate: true, Reason: lead.ReasonAngryCustomer},
		},
		{
			name:       "human request",
			message:    "I want to speak to a manager",
			confidence: 0.9,
			want:       EscalationCheck{ShouldEscalate: true, Reason: lead.ReasonExplicitRequest},
		},
		{
			name:       "price negotiation",
			message:    "what's your best price on the Civic",
			confidence: 0.9,
			want:       EscalationCheck{ShouldEscalate: true, Reason: lead.ReasonPriceRequest},
		},
		{
			name:       "anger wins over human request",
			message:    "this is ridiculous, let me talk to a person",
			confidence: 0.9,
			want:       EscalationCheck{ShouldEscalate: true, Reason: lead.ReasonAngryCustomer},
		},
		{
			name:       "human request wins over price",
			message:    "connect me with someone about your best price",
			confidence: 0.9,
			want:       EscalationCheck{ShouldEscalate: true, Reason: lead.ReasonExplicitRequest},
		},
		{
			name:       "low confidence fallback",
			message:    "hmm maybe something blue?",
			confidence: 0.5,
			want:       EscalationCheck{ShouldEscalate: true, Reason: lead.ReasonAIUncertainty},
		},
		{
			name:       "confidence at floor does not escalate",
			message:    "looking for a sedan",
			confidence: 0.6,
			want:       EscalationCheck{},
		},
		{
			name:       "stop message never escalates",
			message:    "STOP",
			confidence: 0.1,
			want:       EscalationCheck{},
		},
		{
			name:       "no trigger and confident",
			message:    "do you have any SUVs",
			confidence: 0.9,
			want:       EscalationCheck{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckEscalationTriggers(tt.message, tt.confidence))
		})
	}
}

func TestEscalationTriggerOrder(t *testing.T) {
	// The chain order is load-bearing: anger outranks a human request,
	// which outranks price talk.
	var names []string
	for _, trig := range EscalationTriggers {
		names = append(names, trig.Name)
	}
	assert.Equal(t, []string{"angry_sentiment", "human_request", "price_negotiation"}, names)
}
