package llm

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const usageMeterName = "github.com/Quinntas/max/internal/llm"

var (
	usageTokensHistogram   metric.Int64Histogram
	usageMetricsOnce       sync.Once
	usageMetricsRegistered bool
)

func initUsageMetrics() {
	meter := otel.Meter(usageMeterName)
	var err error
	usageTokensHistogram, err = meter.Int64Histogram(
		"max.llm.tokens",
		metric.WithDescription("Total tokens consumed per LLM request"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return
	}
	usageMetricsRegistered = true
}

// RecordUsageMetrics records token usage after an LLM call. The dealership,
// model, and mode attributes allow per-tenant filtering in observability
// backends; mode distinguishes extraction from response drafting.
func RecordUsageMetrics(ctx context.Context, inputTokens, outputTokens int, dealership, model, mode string) {
	usageMetricsOnce.Do(initUsageMetrics)
	if !usageMetricsRegistered {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("dealership", dealership),
		attribute.String("model", model),
		attribute.String("mode", mode),
	)
	usageTokensHistogram.Record(ctx, int64(inputTokens+outputTokens), attrs)
}
