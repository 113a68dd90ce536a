package metrics

import (
	"time"
)

// RecordConversationCreated counts a new conversation and bumps the active gauge.
func (r *Registry) RecordConversationCreated() {
	r.IncCounter(ConversationsTotal, nil, 1)
	r.IncGauge(ActiveConversations, nil, 1)
}

// RecordConversationDeleted counts a deletion and lowers the active gauge.
func (r *Registry) RecordConversationDeleted() {
	r.IncCounter(ConversationsDeletedTotal, nil, 1)
	r.DecGauge(ActiveConversations, nil, 1)
}

// SetActiveConversations overwrites the active gauge, used at startup.
func (r *Registry) SetActiveConversations(count int64) {
	r.SetGauge(ActiveConversations, nil, float64(count))
}

// RecordMessage counts a stored message and its length in characters.
func (r *Registry) RecordMessage(role string, length int) {
	labels := Labels{"role": role}
	r.IncCounter(MessagesTotal, labels, 1)
	r.ObserveHistogram(MessageLengthCharacters, labels, float64(length))
}

// RecordMessagesPerConversation observes the history length after a chat turn.
func (r *Registry) RecordMessagesPerConversation(count int) {
	r.ObserveHistogram(MessagesPerConversation, nil, float64(count))
}

// RecordLLMCall records the outcome and latency of one provider call.
func (r *Registry) RecordLLMCall(model, status string, duration time.Duration) {
	r.IncCounter(LLMAPICallsTotal, Labels{"model": model, "status": status}, 1)
	r.ObserveHistogram(LLMResponseTimeSeconds, Labels{"model": model}, duration.Seconds())
}

// RecordTokens records prompt, completion and total token usage.
func (r *Registry) RecordTokens(model string, prompt, completion, total int) {
	for tokenType, count := range map[string]int{
		"prompt":     prompt,
		"completion": completion,
		"total":      total,
	} {
		labels := Labels{"model": model, "token_type": tokenType}
		r.IncCounter(LLMTokensTotal, labels, float64(count))
		r.ObserveHistogram(LLMTokenUsage, labels, float64(count))
	}
}

// RecordError counts an error by type and originating service.
func (r *Registry) RecordError(errorType, service string) {
	r.IncCounter(ErrorsTotal, Labels{"error_type": errorType, "service": service}, 1)
}

// RecordHTTPRequest records one served request. endpoint must be a route template.
func (r *Registry) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	r.IncCounter(HTTPRequestsTotal, Labels{"method": method, "endpoint": endpoint, "status": status}, 1)
	r.ObserveHistogram(HTTPRequestDurationSeconds, Labels{"method": method, "endpoint": endpoint}, duration.Seconds())
}

// SetApplicationInfo publishes static build information as a constant 1 gauge.
func (r *Registry) SetApplicationInfo(version, name, defaultModel string) {
	r.SetGauge(ApplicationInfo, Labels{"version": version, "name": name, "default_model": defaultModel}, 1)
}
