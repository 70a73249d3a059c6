// Package pipeline runs the lead qualification and response sequence for one
// inbound customer message: compliance gate, extraction, inventory lookup,
// scoring, escalation decision, response generation, guardrail validation,
// channel formatting, and result assembly.
//
// The stage order is fixed and strictly sequential; a compliance failure
// short-circuits everything after it. Adapter failures are absorbed in-stage
// through documented fallbacks, so the only orchestrator-level retry covers
// unexpected failures escaping a stage.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/Quinntas/max/internal/agent"
	"github.com/Quinntas/max/internal/channel"
	"github.com/Quinntas/max/internal/guardrail"
	"github.com/Quinntas/max/internal/inventory"
	"github.com/Quinntas/max/internal/lead"
	"github.com/Quinntas/max/internal/llm"
	maxotel "github.com/Quinntas/max/internal/otel"
	"github.com/Quinntas/max/internal/scoring"
)

var tracer = maxotel.Tracer("github.com/Quinntas/max/internal/pipeline")

// Retry policy for unexpected stage failures. Adapter-local failures never
// reach this loop.
const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = time.Second
)

// angrySentimentThreshold mirrors the scoring stage: sentiment below this
// maps a score-level ESCALATE to ANGRY_CUSTOMER when the customer did not
// explicitly ask for a human.
const angrySentimentThreshold = -0.5

// Pipeline is the orchestrator. Safe for concurrent use: each Run carries
// its own context and the only shared state is the read-mostly agent cache.
type Pipeline struct {
	provider   llm.Provider
	model      string
	inventory  inventory.Service
	agents     *agent.Cache
	attempts   int
	retryDelay time.Duration
	now        func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithModel overrides the default generation model.
func WithModel(model string) Option {
	return func(p *Pipeline) { p.model = model }
}

// WithAgentCache injects a shared agent cache, letting the host own its
// lifecycle (and clear it on tenant-config reload).
func WithAgentCache(c *agent.Cache) Option {
	return func(p *Pipeline) { p.agents = c }
}

// WithRetry overrides the retry policy for unexpected stage failures.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(p *Pipeline) { p.attempts, p.retryDelay = attempts, delay }
}

// WithClock injects the time source used for business-hours checks.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline over the given text generator and inventory service.
func New(provider llm.Provider, inv inventory.Service, opts ...Option) *Pipeline {
	p := &Pipeline{
		provider:   provider,
		model:      agent.DefaultModel,
		inventory:  inv,
		agents:     agent.NewCache(),
		attempts:   defaultMaxAttempts,
		retryDelay: defaultRetryDelay,
		now:        time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run executes the full stage sequence for one inbound message. Collaborator
// failures never surface as errors; invalid input does, and unexpected stage
// failures surface only after the retry budget is exhausted (the caller then
// sends nothing, which is the safe default).
func (p *Pipeline) Run(ctx context.Context, pc lead.PipelineContext) (*lead.PipelineResult, error) {
	if err := pc.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()

	var lastErr error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		result, err := p.runOnce(ctx, runID, pc)
		if err == nil {
			return result, nil
		}
		lastErr = err
		log.Error().Err(err).
			Str("run_id", runID).
			Int("attempt", attempt).
			Func(maxotel.LogTraceFields(ctx)).
			Msg("pipeline_run_failed")
		if attempt < p.attempts {
			select {
			case <-time.After(p.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("pipeline run %s: %w", runID, lastErr)
}

// runOnce executes one attempt of the stage sequence. A panic in any stage
// is converted to an error so the retry loop can decide whether to try again.
func (p *Pipeline) runOnce(ctx context.Context, runID string, pc lead.PipelineContext) (result *lead.PipelineResult, err error) {
	ctx, span := tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			maxotel.PipelineChannel.String(string(pc.Channel)),
			maxotel.PipelineDealership.String(pc.Dealership.DisplayName()),
		))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage panic: %v", r)
			span.RecordError(err)
		}
	}()

	// Stage 1: compliance gate.
	if guardrail.DetectStopMessage(pc.MessageContent) {
		log.Info().Str("run_id", runID).Msg("compliance_opt_out")
		span.SetAttributes(maxotel.PipelineAction.String(string(lead.ActionOptOut)))
		return earlyExit(lead.ActionOptOut), nil
	}
	if !pc.HasConsent {
		log.Info().Str("run_id", runID).Msg("compliance_no_consent")
		span.SetAttributes(maxotel.PipelineAction.String(string(lead.ActionNoConsent)))
		return earlyExit(lead.ActionNoConsent), nil
	}

	dealershipAgent := p.agentFor(pc.Dealership)

	// Stage 2: extraction. Total function; falls back internally.
	info := dealershipAgent.ExtractLeadInfo(ctx, pc.MessageContent, pc.ConversationContext)

	// Stage 3: inventory lookup.
	inventoryContext := p.lookupInventory(ctx, runID, info.VehicleInterest)

	// Stage 4: scoring.
	score := scoring.Score(info)
	span.SetAttributes(maxotel.PipelineScore.Int(score.Score))

	// Stage 5: escalation decision.
	escalation := decideEscalation(pc.MessageContent, info, score)

	// Stages 6-7: response generation and guardrail validation. Canned
	// escalation templates are pre-vetted, so validation only runs on
	// generated text.
	var response string
	if escalation.ShouldEscalate {
		response = agent.EscalationResponse(escalation.Reason, pc.Dealership, p.now())
	} else {
		response = dealershipAgent.DraftResponse(ctx, pc.ConversationContext, inventoryContext)
		response = p.validateResponse(ctx, runID, response)
	}

	// Stage 8: channel formatting.
	formatted := channel.Format(response, pc.Channel, pc.Dealership.DisplayName())

	// Stage 9: result assembly.
	action := lead.ActionRespond
	if escalation.ShouldEscalate {
		action = lead.ActionEscalate
	}
	span.SetAttributes(maxotel.PipelineAction.String(string(action)))

	log.Info().
		Str("run_id", runID).
		Str("action", string(action)).
		Int("score", score.Score).
		Str("recommendation", string(score.Recommendation)).
		Int("chunks", len(formatted.Chunks)).
		Func(maxotel.LogTraceFields(ctx)).
		Msg("pipeline_run_complete")

	result = &lead.PipelineResult{
		Response:      formatted.Response,
		MessageChunks: formatted.Chunks,
		Action:        action,
		Qualification: &lead.Qualification{
			Intent:          info.Intent,
			Score:           score.Score,
			Recommendation:  score.Recommendation,
			Timeline:        info.Timeline,
			VehicleInterest: &info.VehicleInterest,
			HasTradeIn:      info.HasTradeIn,
		},
	}
	if escalation.ShouldEscalate {
		result.Escalation = &lead.Escalation{
			Reason:       escalation.Reason,
			AIConfidence: escalation.AIConfidence,
		}
	}
	return result, nil
}

// earlyExit is the result shape for compliance short-circuits: no response,
// no qualification, no escalation.
func earlyExit(action lead.Action) *lead.PipelineResult {
	return &lead.PipelineResult{
		Response:      "",
		MessageChunks: []string{},
		Action:        action,
	}
}

// agentFor resolves the cached agent for the run's dealership.
func (p *Pipeline) agentFor(d *lead.Dealership) *agent.Agent {
	key := ""
	if d != nil {
		key = d.PID
	}
	return p.agents.GetOrCreate(key, func() *agent.Agent {
		return agent.New(p.provider, p.model, d)
	})
}

// lookupInventory renders the inventory context for the response prompt.
// With no make and no model there is nothing to search and no external call
// is made. A failed search is absorbed as zero matches: inventory trouble
// must not kill a customer conversation.
func (p *Pipeline) lookupInventory(ctx context.Context, runID string, vi lead.VehicleInterest) string {
	if vi.Make == "" && vi.Model == "" {
		return inventory.NoInterestContext
	}

	q := inventory.Query{Make: vi.Make, Model: vi.Model, Year: vi.Year}
	vehicles, err := p.inventory.Search(ctx, q)
	if err != nil {
		log.Warn().Err(err).
			Str("run_id", runID).
			Str("make", vi.Make).
			Str("model", vi.Model).
			Msg("inventory_search_failed")
		vehicles = nil
	}
	return inventory.Summarize(vehicles, q)
}

// decideEscalation applies the two-layer precedence: the score-level
// recommendation first, then the message-level trigger chain (which also
// owns the low-confidence fallback).
func decideEscalation(messageContent string, info lead.ExtractedLeadInfo, score lead.QualificationScore) lead.EscalationDecision {
	if score.Recommendation == lead.RecommendEscalate {
		reason := lead.ReasonAIUncertainty
		if info.WantsHuman {
			reason = lead.ReasonExplicitRequest
		} else if info.SentimentScore < angrySentimentThreshold {
			reason = lead.ReasonAngryCustomer
		}
		return lead.EscalationDecision{ShouldEscalate: true, Reason: reason, AIConfidence: info.Confidence}
	}

	check := guardrail.CheckEscalationTriggers(messageContent, info.Confidence)
	if check.ShouldEscalate {
		return lead.EscalationDecision{ShouldEscalate: true, Reason: check.Reason, AIConfidence: info.Confidence}
	}

	return lead.EscalationDecision{AIConfidence: info.Confidence}
}

// validateResponse runs the hallucination check on generated text and
// redacts what it can. Unsanitizable categories are logged and delivered
// as-is; the pipeline redacts unsafe spans but never blocks delivery.
func (p *Pipeline) validateResponse(ctx context.Context, runID, response string) string {
	validation := guardrail.ValidateResponse(response)
	if validation.Valid {
		return response
	}

	log.Warn().
		Str("run_id", runID).
		Strs("violations", validation.Violations).
		Func(maxotel.LogTraceFields(ctx)).
		Msg("response_sanitized")

	return guardrail.SanitizeResponse(response)
}
