// Package scoring turns extracted lead attributes into the 0-100
// qualification score and a recommendation tier. Pure and deterministic:
// the same extraction always yields the same score.
package scoring

import "github.com/Quinntas/max/internal/lead"

// Sub-score ceilings per rubric category. The five categories sum to 100.
const (
	MaxIntentScore   = 30
	MaxTimelineScore = 25
	MaxBudgetScore   = 20
	MaxVehicleScore  = 15
	MaxTradeInScore  = 10
)

// QualifiedThreshold is the minimum total score for a QUALIFIED
// recommendation when no escalation condition applies.
const QualifiedThreshold = 50

// angrySentimentThreshold mirrors the escalation stage: sentiment below
// this forces an ESCALATE recommendation regardless of score.
const angrySentimentThreshold = -0.5

// Score applies the rubric to an extraction and returns the total,
// the per-category breakdown, and the recommendation tier.
func Score(info lead.ExtractedLeadInfo) lead.QualificationScore {
	breakdown := lead.ScoreBreakdown{
		Intent:   intentScore(info.Intent),
		Timeline: timelineScore(info.Timeline),
		Budget:   budgetScore(info),
		Vehicle:  vehicleScore(info.VehicleInterest),
		TradeIn:  tradeInScore(info.HasTradeIn),
	}

	score := breakdown.Total()

	var recommendation lead.Recommendation
	switch {
	case info.WantsHuman || info.SentimentScore < angrySentimentThreshold:
		recommendation = lead.RecommendEscalate
	case score >= QualifiedThreshold:
		recommendation = lead.RecommendQualified
	default:
		recommendation = lead.RecommendNurture
	}

	return lead.QualificationScore{
		Score:          score,
		Breakdown:      breakdown,
		Recommendation: recommendation,
	}
}

func intentScore(intent lead.Intent) int {
	switch intent {
	case lead.IntentSales:
		return MaxIntentScore
	case lead.IntentTradeIn:
		return 25
	case lead.IntentService:
		return 15
	default:
		return 0
	}
}

func timelineScore(timeline lead.Timeline) int {
	switch timeline {
	case lead.TimelineImmediate:
		return MaxTimelineScore
	case lead.TimelineThisWeek:
		return 20
	case lead.TimelineThisMonth:
		return 10
	default:
		// just_browsing and unset both score zero
		return 0
	}
}

func budgetScore(info lead.ExtractedLeadInfo) int {
	if !info.BudgetMentioned {
		return 0
	}
	if info.BudgetRange != nil && (info.BudgetRange.Min != nil || info.BudgetRange.Max != nil) {
		return MaxBudgetScore
	}
	return 10
}

func vehicleScore(vi lead.VehicleInterest) int {
	switch {
	case vi.Make != "" && vi.Model != "" && vi.Year != 0:
		return MaxVehicleScore
	case vi.Make != "" && vi.Model != "":
		return 10
	case vi.Make != "":
		return 5
	default:
		return 0
	}
}

func tradeInScore(hasTradeIn bool) int {
	if hasTradeIn {
		return MaxTradeInScore
	}
	return 0
}
