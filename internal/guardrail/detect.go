// Package guardrail provides the pure pattern checks that keep the pipeline
// compliant: opt-out detection, escalation triggers, hallucination detection,
// response sanitization, and the business-hours check. No state, no I/O.
package guardrail

import (
	"regexp"
	"strings"

	"github.com/Quinntas/max/internal/lead"
)

var (
	stopPattern = regexp.MustCompile(`(?i)\b(stop|unsubscribe|cancel|quit|end|opt.?out)\b`)

	humanRequestPattern = regexp.MustCompile(`(?i)\b(speak|talk|connect|transfer)\b.*\b(human|person|agent|someone|representative|manager)\b`)

	priceNegotiationPattern = regexp.MustCompile(`(?i)\b(best price|otd|out.?the.?door|bottom line|lowest|deal)\b`)

	angryPattern = regexp.MustCompile(`(?i)\b(angry|furious|upset|frustrated|ridiculous|unacceptable|terrible|worst|hate|lawsuit|sue|attorney|lawyer|bbb|complaint)\b`)
)

// DetectStopMessage reports whether the message is a carrier-compliance
// opt-out. An exact trimmed "stop"/"unsubscribe" always matches; otherwise
// the broader keyword pattern applies.
func DetectStopMessage(message string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(message))
	if trimmed == "stop" || trimmed == "unsubscribe" {
		return true
	}
	return stopPattern.MatchString(message)
}

// DetectHumanRequest reports whether the customer asked for a person:
// a communicate verb followed by a human-designation noun.
func DetectHumanRequest(message string) bool {
	return humanRequestPattern.MatchString(message)
}

// DetectPriceNegotiation reports whether the customer is negotiating price.
func DetectPriceNegotiation(message string) bool {
	return priceNegotiationPattern.MatchString(message)
}

// DetectAngrySentiment reports whether the message contains anger, complaint,
// or legal-threat vocabulary.
func DetectAngrySentiment(message string) bool {
	return angryPattern.MatchString(message)
}

// EscalationTrigger pairs a message predicate with the escalation reason it
// produces. Triggers are evaluated in slice order, first match wins, so tests
// can enumerate the chain and assert coverage per rule.
type EscalationTrigger struct {
	Name      string
	Reason    lead.EscalationReason
	Predicate func(message string) bool
}

// EscalationTriggers is the fixed-precedence message-level trigger chain:
// anger before human request before price negotiation.
var EscalationTriggers = []EscalationTrigger{
	{Name: "angry_sentiment", Reason: lead.ReasonAngryCustomer, Predicate: DetectAngrySentiment},
	{Name: "human_request", Reason: lead.ReasonExplicitRequest, Predicate: DetectHumanRequest},
	{Name: "price_negotiation", Reason: lead.ReasonPriceRequest, Predicate: DetectPriceNegotiation},
}

// ConfidenceFloor is the extraction confidence below which the pipeline
// escalates with AI_UNCERTAINTY rather than answering on its own.
const ConfidenceFloor = 0.6

// EscalationCheck is the outcome of the message-level trigger scan.
type EscalationCheck struct {
	ShouldEscalate bool
	Reason         lead.EscalationReason
}

// CheckEscalationTriggers walks the trigger chain in order and returns the
// first matching reason. A stop message never escalates: the compliance gate
// owns that path. When no trigger fires, confidence below ConfidenceFloor
// escalates with AI_UNCERTAINTY.
func CheckEscalationTriggers(message string, aiConfidence float64) EscalationCheck {
	if DetectStopMessage(message) {
		return EscalationCheck{}
	}
	for _, trig := range EscalationTriggers {
		if trig.Predicate(message) {
			return EscalationCheck{ShouldEscalate: true, Reason: trig.Reason}
		}
	}
	if aiConfidence < ConfidenceFloor {
		return EscalationCheck{ShouldEscalate: true, Reason: lead.ReasonAIUncertainty}
	}
	return EscalationCheck{}
}
