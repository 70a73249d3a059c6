package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Quinntas/max/internal/lead"
	"github.com/Quinntas/max/internal/llm"
	maxotel "github.com/Quinntas/max/internal/otel"
)

// ExtractLeadInfo turns a raw message plus conversation history into a
// structured lead-info record. Total function: any provider failure, empty
// reply, or unparseable JSON falls back to lead.DefaultExtraction() with a
// warning log, never an error.
func (a *Agent) ExtractLeadInfo(ctx context.Context, messageContent, conversationContext string) lead.ExtractedLeadInfo {
	ctx, span := tracer.Start(ctx, "agent.extract_lead_info")
	defer span.End()

	resp, err := a.provider.Generate(ctx, &llm.Request{
		Model: a.model,
		Messages: []llm.Message{
			{Role: "system", Content: a.systemPrompt},
			{Role: "user", Content: extractionPrompt(messageContent, conversationContext)},
		},
		Temperature: extractionTemperature,
		MaxTokens:   extractionMaxTokens,
		JSONMode:    true,
	})
	if err != nil {
		span.RecordError(err)
		log.Warn().Err(err).
			Str("provider", a.provider.Name()).
			Func(maxotel.LogTraceFields(ctx)).
			Msg("lead_extraction_failed")
		return lead.DefaultExtraction()
	}

	llm.RecordUsageMetrics(ctx, resp.InputTokens, resp.OutputTokens, a.tenantKey(), resp.Model, "extraction")

	info, err := parseExtraction(resp.Content)
	if err != nil {
		log.Warn().Err(err).
			Str("provider", a.provider.Name()).
			Func(maxotel.LogTraceFields(ctx)).
			Msg("lead_extraction_unparseable")
		return lead.DefaultExtraction()
	}
	return info
}

// parseExtraction unmarshals and normalizes the model's JSON reply. Models
// occasionally wrap JSON in markdown fences even in JSON mode; strip them
// before decoding.
func parseExtraction(content string) (lead.ExtractedLeadInfo, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	if trimmed == "" {
		return lead.ExtractedLeadInfo{}, llm.ErrEmptyContent
	}

	var info lead.ExtractedLeadInfo
	if err := json.Unmarshal([]byte(trimmed), &info); err != nil {
		return lead.ExtractedLeadInfo{}, err
	}

	normalizeExtraction(&info)
	return info, nil
}

// normalizeExtraction clamps model outputs into the documented domains so a
// sloppy reply can't push scores or thresholds out of range.
func normalizeExtraction(info *lead.ExtractedLeadInfo) {
	switch info.Intent {
	case lead.IntentSales, lead.IntentService, lead.IntentTradeIn, lead.IntentUnknown:
	default:
		info.Intent = lead.IntentUnknown
	}

	switch info.Timeline {
	case lead.TimelineImmediate, lead.TimelineThisWeek, lead.TimelineThisMonth, lead.TimelineJustBrowsing, "":
	default:
		info.Timeline = ""
	}

	info.SentimentScore = clamp(info.SentimentScore, -1, 1)
	info.Confidence = clamp(info.Confidence, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
