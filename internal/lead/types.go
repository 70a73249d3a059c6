// Package lead defines the domain types threaded through one qualification
// pipeline run: the accumulated run context, the structured lead information
// extracted from a customer message, the rubric score, the escalation
// decision, and the final result handed back to the caller.
//
// A PipelineContext is created fresh per inbound message and discarded after
// the PipelineResult is returned. Nothing in this package is persisted;
// persistence belongs to the host application.
package lead

import "errors"

// ErrEmptyMessage is returned when a pipeline run is started without
// message content. This is a programmer error, not a recoverable condition.
var ErrEmptyMessage = errors.New("message content is required")

// Channel is the delivery medium constraining message formatting.
type Channel string

const (
	ChannelSMS   Channel = "SMS"
	ChannelEmail Channel = "EMAIL"
	ChannelVoice Channel = "VOICE"
)

// Intent classifies what the customer is trying to do.
type Intent string

const (
	IntentSales   Intent = "SALES"
	IntentService Intent = "SERVICE"
	IntentTradeIn Intent = "TRADE_IN"
	IntentUnknown Intent = "UNKNOWN"
)

// Timeline is the customer's stated purchase horizon.
type Timeline string

const (
	TimelineImmediate    Timeline = "immediate"
	TimelineThisWeek     Timeline = "this_week"
	TimelineThisMonth    Timeline = "this_month"
	TimelineJustBrowsing Timeline = "just_browsing"
)

// Recommendation is the scoring engine's verdict on a lead.
type Recommendation string

const (
	RecommendQualified Recommendation = "QUALIFIED"
	RecommendNurture   Recommendation = "NURTURE"
	RecommendEscalate  Recommendation = "ESCALATE"
)

// EscalationReason identifies why a conversation is handed to a human.
type EscalationReason string

const (
	ReasonAngryCustomer   EscalationReason = "ANGRY_CUSTOMER"
	ReasonPriceRequest    EscalationReason = "PRICE_REQUEST"
	ReasonComplexTrade    EscalationReason = "COMPLEX_TRADE"
	ReasonAIUncertainty   EscalationReason = "AI_UNCERTAINTY"
	ReasonExplicitRequest EscalationReason = "EXPLICIT_REQUEST"
	ReasonCompliance      EscalationReason = "COMPLIANCE"
)

// Action is the final disposition of a pipeline run.
type Action string

const (
	ActionRespond   Action = "RESPOND"
	ActionEscalate  Action = "ESCALATE"
	ActionOptOut    Action = "OPT_OUT"
	ActionNoConsent Action = "NO_CONSENT"
)

// VehicleInterest is the vehicle the customer asked about. All fields are
// optional; zero values mean "not mentioned".
type VehicleInterest struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Trim  string `json:"trim"`
}

// Empty reports whether no vehicle attribute was mentioned at all.
func (v VehicleInterest) Empty() bool {
	return v.Make == "" && v.Model == "" && v.Year == 0 && v.Trim == ""
}

// BudgetRange is the customer's stated budget. Nil pointers mean the bound
// was not given.
type BudgetRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// ExtractedLeadInfo is the structured output of the extraction adapter.
// Every field is always populated: on extractor failure the pipeline
// substitutes DefaultExtraction() rather than erroring.
type ExtractedLeadInfo struct {
	Intent          Intent          `json:"intent"`
	VehicleInterest VehicleInterest `json:"vehicleInterest"`
	Timeline        Timeline        `json:"timeline"`
	BudgetMentioned bool            `json:"budgetMentioned"`
	BudgetRange     *BudgetRange    `json:"budgetRange"`
	HasTradeIn      bool            `json:"hasTradeIn"`
	TradeInVehicle  string          `json:"tradeInVehicle"`
	WantsHuman      bool            `json:"wantsHuman"`
	SentimentScore  float64         `json:"sentimentScore"` // -1 (angry) .. 1 (positive)
	Confidence      float64         `json:"confidence"`     // 0 .. 1
}

// DefaultExtraction is the all-default fallback used when the extractor
// returns nothing usable. Confidence 0.5 sits below the uncertainty floor,
// so a run on fallback data hands off to a human instead of guessing.
func DefaultExtraction() ExtractedLeadInfo {
	return ExtractedLeadInfo{
		Intent:         IntentUnknown,
		SentimentScore: 0,
		Confidence:     0.5,
	}
}

// ScoreBreakdown holds the per-category sub-scores for auditability.
type ScoreBreakdown struct {
	Intent   int `json:"intent"`
	Timeline int `json:"timeline"`
	Budget   int `json:"budget"`
	Vehicle  int `json:"vehicle"`
	TradeIn  int `json:"tradeIn"`
}

// Total sums the sub-scores. Always equals QualificationScore.Score.
func (b ScoreBreakdown) Total() int {
	return b.Intent + b.Timeline + b.Budget + b.Vehicle + b.TradeIn
}

// QualificationScore is the 0-100 rubric result.
type QualificationScore struct {
	Score          int            `json:"score"`
	Breakdown      ScoreBreakdown `json:"breakdown"`
	Recommendation Recommendation `json:"recommendation"`
}

// EscalationDecision is the outcome of the escalation stage.
type EscalationDecision struct {
	ShouldEscalate bool             `json:"shouldEscalate"`
	Reason         EscalationReason `json:"reason,omitempty"`
	AIConfidence   float64          `json:"aiConfidence"`
}

// Dealership is the tenant context for a run. A nil *Dealership means
// "use the default persona".
type Dealership struct {
	ID            int64             `json:"id"`
	PID           string            `json:"pid"`
	Name          string            `json:"name"`
	Brand         string            `json:"brand,omitempty"`
	Timezone      string            `json:"timezone,omitempty"`
	BusinessHours BusinessHours     `json:"businessHours,omitempty"`
	Config        *DealershipConfig `json:"config,omitempty"`
}

// DisplayName returns the dealership name, or the generic fallback used
// in prompts and email signatures when no tenant is bound.
func (d *Dealership) DisplayName() string {
	if d == nil || d.Name == "" {
		return "Our Dealership"
	}
	return d.Name
}

// DealershipConfig is per-tenant persona tuning.
type DealershipConfig struct {
	Tone                string   `json:"tone,omitempty" yaml:"tone,omitempty"` // professional|friendly|casual|luxury
	Persona             string   `json:"persona,omitempty" yaml:"persona,omitempty"`
	QualifyingQuestions []string `json:"qualifyingQuestions,omitempty" yaml:"qualifying_questions,omitempty"`
	AfterHoursMessage   string   `json:"afterHoursMessage,omitempty" yaml:"after_hours_message,omitempty"`
	EscalationEmail     string   `json:"escalationEmail,omitempty" yaml:"escalation_email,omitempty"`
	WelcomeMessage      string   `json:"welcomeMessage,omitempty" yaml:"welcome_message,omitempty"`
}

// DayHours is an open/close pair in zero-padded 24h "HH:MM" form.
type DayHours struct {
	Open  string `json:"open" yaml:"open"`
	Close string `json:"close" yaml:"close"`
}

// BusinessHours maps lowercase English weekday names to opening hours.
// A missing weekday means closed that day; a nil map means no hours are
// configured at all (always open).
type BusinessHours map[string]DayHours

// PipelineContext is the input to one pipeline run.
type PipelineContext struct {
	MessageContent      string      `json:"messageContent"`
	ConversationContext string      `json:"conversationContext"` // newline-joined "SENDER: text", most recent last
	Channel             Channel     `json:"channel"`
	Dealership          *Dealership `json:"dealership"`
	HasConsent          bool        `json:"hasConsent"`
}

// Validate checks the programmer-error surface: required inputs that no
// fallback can repair.
func (c *PipelineContext) Validate() error {
	if c.MessageContent == "" {
		return ErrEmptyMessage
	}
	return nil
}

// Qualification is the lead summary included in a PipelineResult.
type Qualification struct {
	Intent          Intent           `json:"intent"`
	Score           int              `json:"score"`
	Recommendation  Recommendation   `json:"recommendation"`
	Timeline        Timeline         `json:"timeline,omitempty"`
	VehicleInterest *VehicleInterest `json:"vehicleInterest"`
	HasTradeIn      bool             `json:"hasTradeIn"`
}

// Escalation is the hand-off summary included in a PipelineResult.
type Escalation struct {
	Reason       EscalationReason `json:"reason"`
	AIConfidence float64          `json:"aiConfidence"`
}

// PipelineResult is the final output of a run. Qualification and Escalation
// are nil when the compliance gate short-circuited the run.
type PipelineResult struct {
	Response      string         `json:"response"`
	MessageChunks []string       `json:"messageChunks"`
	Action        Action         `json:"action"`
	Qualification *Qualification `json:"qualification"`
	Escalation    *Escalation    `json:"escalation"`
}
