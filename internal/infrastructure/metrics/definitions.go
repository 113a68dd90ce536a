package metrics

// Logical metric names. The exported Prometheus name is namespace + "_" + name.
const (
	LLMAPICallsTotal           = "llm_api_calls_total"
	LLMTokensTotal             = "llm_tokens_total"
	LLMTokenUsage              = "llm_token_usage"
	LLMResponseTimeSeconds     = "llm_response_time_seconds"
	MessagesTotal              = "messages_total"
	MessageLengthCharacters    = "message_length_characters"
	ConversationsTotal         = "conversations_total"
	ConversationsDeletedTotal  = "conversations_deleted_total"
	ActiveConversations        = "active_conversations"
	MessagesPerConversation    = "messages_per_conversation"
	ErrorsTotal                = "errors_total"
	ApplicationInfo            = "application_info"
	HTTPRequestsTotal          = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
)

// DefaultNamespace prefixes every exported metric name.
const DefaultNamespace = "genesis_ai"

type kind int

const (
	kindCounter kind = iota
	kindHistogram
	kindGauge
)

func (k kind) String() string {
	switch k {
	case kindCounter:
		return "counter"
	case kindHistogram:
		return "histogram"
	default:
		return "gauge"
	}
}

type definition struct {
	name    string
	kind    kind
	help    string
	labels  []string
	buckets []float64
}

// catalog is the closed set of metrics the service emits.
var catalog = []definition{
	{
		name:   LLMAPICallsTotal,
		kind:   kindCounter,
		help:   "Total number of LLM API calls",
		labels: []string{"model", "status"},
	},
	{
		name:   LLMTokensTotal,
		kind:   kindCounter,
		help:   "Total number of tokens used",
		labels: []string{"model", "token_type"},
	},
	{
		name:    LLMTokenUsage,
		kind:    kindHistogram,
		help:    "Distribution of token usage per request",
		labels:  []string{"model", "token_type"},
		buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	},
	{
		name:    LLMResponseTimeSeconds,
		kind:    kindHistogram,
		help:    "LLM API response time in seconds",
		labels:  []string{"model"},
		buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	},
	{
		name:   MessagesTotal,
		kind:   kindCounter,
		help:   "Total number of messages",
		labels: []string{"role"},
	},
	{
		name:    MessageLengthCharacters,
		kind:    kindHistogram,
		help:    "Distribution of message lengths in characters",
		labels:  []string{"role"},
		buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000},
	},
	{
		name: ConversationsTotal,
		kind: kindCounter,
		help: "Total number of conversations created",
	},
	{
		name: ConversationsDeletedTotal,
		kind: kindCounter,
		help: "Total number of conversations deleted",
	},
	{
		name: ActiveConversations,
		kind: kindGauge,
		help: "Number of active conversations",
	},
	{
		name:    MessagesPerConversation,
		kind:    kindHistogram,
		help:    "Distribution of messages per conversation",
		buckets: []float64{1, 5, 10, 20, 50, 100, 200},
	},
	{
		name:   ErrorsTotal,
		kind:   kindCounter,
		help:   "Total number of errors",
		labels: []string{"error_type", "service"},
	},
	{
		name:   ApplicationInfo,
		kind:   kindGauge,
		help:   "Application information",
		labels: []string{"version", "name", "default_model"},
	},
	{
		name:   HTTPRequestsTotal,
		kind:   kindCounter,
		help:   "Total number of HTTP requests",
		labels: []string{"method", "endpoint", "status"},
	},
	{
		name:    HTTPRequestDurationSeconds,
		kind:    kindHistogram,
		help:    "HTTP request duration in seconds",
		labels:  []string{"method", "endpoint"},
		buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	},
}
