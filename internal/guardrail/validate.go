package guardrail

import "regexp"

// HallucinationPattern is one category of fabricated commitment a drafted
// response must not contain.
type HallucinationPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// HallucinationPatterns is the ordered list of response checks. Order is
// stable so violation lists are deterministic and tests can assert coverage
// per category.
var HallucinationPatterns = []HallucinationPattern{
	{Name: "specific_dollar_amount", Pattern: regexp.MustCompile(`\$[\d,]+`)},
	{Name: "specific_percentage", Pattern: regexp.MustCompile(`(?i)\d+%\s*(apr|interest|off|discount)`)},
	{Name: "guarantee_language", Pattern: regexp.MustCompile(`(?i)\b(guarantee|promise|definitely|for sure|absolutely)\b`)},
	{Name: "inventory_claim", Pattern: regexp.MustCompile(`(?i)\b(in stock|available now|we have \d+|currently have)\b`)},
	{Name: "trade_in_value", Pattern: regexp.MustCompile(`(?i)trade.?in.*worth.*\$[\d,]+`)},
	{Name: "financing_approval", Pattern: regexp.MustCompile(`(?i)\b(approved|pre-approved) for`)},
	{Name: "delivery_date", Pattern: regexp.MustCompile(`(?i)deliver(y|ed)? (by|on|within) \w+`)},
	{Name: "msrp_quote", Pattern: regexp.MustCompile(`(?i)\b(msrp|sticker price) (is|of) \$[\d,]+`)},
}

// ValidationResult lists which hallucination categories a response tripped.
type ValidationResult struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations"`
}

// ValidateResponse tests a drafted response against every hallucination
// pattern. Valid is true iff no pattern matched.
func ValidateResponse(response string) ValidationResult {
	var violations []string
	for _, hp := range HallucinationPatterns {
		if hp.Pattern.MatchString(response) {
			violations = append(violations, hp.Name)
		}
	}
	return ValidationResult{
		Valid:      len(violations) == 0,
		Violations: violations,
	}
}

var (
	sanitizeDollarPattern = regexp.MustCompile(`\$[\d,]+(\.\d{2})?`)
	sanitizeRatePattern   = regexp.MustCompile(`(?i)\d+(\.\d+)?%\s*(apr|interest)`)
)

// SanitizeResponse redacts dollar amounts and APR/interest percentages from
// a response. Best-effort: the remaining six hallucination categories are
// detected by ValidateResponse but not rewritten; callers log those
// violations and deliver the response as-is rather than blocking it.
func SanitizeResponse(response string) string {
	sanitized := sanitizeDollarPattern.ReplaceAllString(response, "[price available upon request]")
	sanitized = sanitizeRatePattern.ReplaceAllString(sanitized, "[rate details available]")
	return sanitized
}
