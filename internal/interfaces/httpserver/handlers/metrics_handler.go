package handlers

import (
	"jan-server/services/chat-api/internal/infrastructure/metrics"
)

const (
	prometheusEndpoint = "/metrics"
	summaryEndpoint    = "/api/metrics/summary"
)

// MetricsSource exposes the current metric values.
type MetricsSource interface {
	Snapshot() metrics.Snapshot
}

// MetricsSummary is an informational JSON view of the registry. Prometheus
// scraping stays the source of truth.
type MetricsSummary struct {
	LLM           LLMSummary          `json:"llm"`
	Messages      MessageSummary      `json:"messages"`
	Conversations ConversationSummary `json:"conversations"`
	Errors        ErrorSummary        `json:"errors"`
	Info          string              `json:"info"`
}

type LLMSummary struct {
	TotalAPICalls float64            `json:"total_api_calls"`
	CallsByStatus map[string]float64 `json:"calls_by_status"`
	TotalTokens   float64            `json:"total_tokens"`
	TokensByType  map[string]float64 `json:"tokens_by_type"`
}

type MessageSummary struct {
	TotalMessages float64            `json:"total_messages"`
	ByRole        map[string]float64 `json:"by_role"`
}

type ConversationSummary struct {
	TotalCreated float64 `json:"total_created"`
	TotalDeleted float64 `json:"total_deleted"`
	ActiveCount  float64 `json:"active_count"`
}

type ErrorSummary struct {
	Total     float64            `json:"total"`
	ByService map[string]float64 `json:"by_service"`
}

// MetricsHealth describes the metrics subsystem.
type MetricsHealth struct {
	Status             string `json:"status"`
	MetricsEnabled     bool   `json:"metrics_enabled"`
	PrometheusEndpoint string `json:"prometheus_endpoint"`
	SummaryEndpoint    string `json:"summary_endpoint"`
}

// MetricsHandler builds the metrics JSON endpoints.
type MetricsHandler struct {
	source MetricsSource
}

// NewMetricsHandler wires the metrics handler to a registry.
func NewMetricsHandler(source MetricsSource) *MetricsHandler {
	return &MetricsHandler{source: source}
}

// Summary aggregates the registry across labels.
func (h *MetricsHandler) Summary() MetricsSummary {
	snap := h.source.Snapshot()
	tokensByType := snap.SumBy(metrics.LLMTokensTotal, "token_type")

	return MetricsSummary{
		LLM: LLMSummary{
			TotalAPICalls: snap.Total(metrics.LLMAPICallsTotal),
			CallsByStatus: snap.SumBy(metrics.LLMAPICallsTotal, "status"),
			TotalTokens:   tokensByType["total"],
			TokensByType:  tokensByType,
		},
		Messages: MessageSummary{
			TotalMessages: snap.Total(metrics.MessagesTotal),
			ByRole:        snap.SumBy(metrics.MessagesTotal, "role"),
		},
		Conversations: ConversationSummary{
			TotalCreated: snap.Total(metrics.ConversationsTotal),
			TotalDeleted: snap.Total(metrics.ConversationsDeletedTotal),
			ActiveCount:  snap.Value(metrics.ActiveConversations, nil),
		},
		Errors: ErrorSummary{
			Total:     snap.Total(metrics.ErrorsTotal),
			ByService: snap.SumBy(metrics.ErrorsTotal, "service"),
		},
		Info: "For detailed metrics, scrape " + prometheusEndpoint + " with Prometheus",
	}
}

// Health reports the metrics endpoints.
func (h *MetricsHandler) Health() MetricsHealth {
	return MetricsHealth{
		Status:             "healthy",
		MetricsEnabled:     h.source != nil,
		PrometheusEndpoint: prometheusEndpoint,
		SummaryEndpoint:    summaryEndpoint,
	}
}
