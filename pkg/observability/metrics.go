package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ChatMetrics holds the instruments for the AI chat pipeline
type ChatMetrics struct {
	requests        metric.Int64Counter
	quotaRejections metric.Int64Counter
	providerCalls   metric.Int64Counter
}

// NewChatMetrics registers the chat instruments on the global meter provider
func NewChatMetrics() (*ChatMetrics, error) {
	meter := otel.Meter("video-hub/chat")

	requests, err := meter.Int64Counter("chat_requests_total",
		metric.WithDescription("AI chat requests by outcome"))
	if err != nil {
		return nil, err
	}

	quotaRejections, err := meter.Int64Counter("chat_quota_rejections_total",
		metric.WithDescription("Chat requests rejected by the daily credit quota"))
	if err != nil {
		return nil, err
	}

	providerCalls, err := meter.Int64Counter("chat_provider_calls_total",
		metric.WithDescription("Outbound LLM provider calls by vendor and outcome"))
	if err != nil {
		return nil, err
	}

	return &ChatMetrics{
		requests:        requests,
		quotaRejections: quotaRejections,
		providerCalls:   providerCalls,
	}, nil
}

// RecordRequest counts a chat request with its outcome ("ok", "error", "check")
func (m *ChatMetrics) RecordRequest(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordQuotaRejection counts a quota rejection
func (m *ChatMetrics) RecordQuotaRejection(ctx context.Context) {
	if m == nil {
		return
	}
	m.quotaRejections.Add(ctx, 1)
}

// RecordProviderCall counts an outbound provider call
func (m *ChatMetrics) RecordProviderCall(ctx context.Context, vendor string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.providerCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("vendor", vendor),
		attribute.String("outcome", outcome),
	))
}
