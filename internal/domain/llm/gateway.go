package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Call outcomes used as the status label of llm_api_calls_total.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrorTypeAPI classifies every provider failure. Timeouts, auth errors and
// rate limits are not distinguished.
const ErrorTypeAPI = "api_error"

const serviceLabel = "llm"

// ErrEmptyChoices is returned for responses without any completion choice.
var ErrEmptyChoices = errors.New("llm response contained no choices")

// Metrics receives the outcome of every provider call.
type Metrics interface {
	RecordLLMCall(model, status string, duration time.Duration)
	RecordTokens(model string, prompt, completion, total int)
	RecordError(errorType, service string)
}

// ContentSanitizer redacts prompt and response text before it is logged.
type ContentSanitizer interface {
	SanitizePrompt(input string) string
	SanitizeResponse(response string) string
}

// GatewayConfig holds the per-process call settings.
type GatewayConfig struct {
	Model        string
	Timeout      time.Duration
	SystemPrompt string
}

// Gateway wraps a Provider with timing, failure absorption, tracing and metrics.
type Gateway struct {
	provider  Provider
	metrics   Metrics
	cfg       GatewayConfig
	sanitizer ContentSanitizer
	tracer    trace.Tracer
	log       zerolog.Logger
}

// GatewayOption customises a Gateway.
type GatewayOption func(*Gateway)

// WithSanitizer redacts content in debug logs.
func WithSanitizer(s ContentSanitizer) GatewayOption {
	return func(g *Gateway) { g.sanitizer = s }
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) GatewayOption {
	return func(g *Gateway) { g.tracer = t }
}

// NewGateway creates a gateway for provider.
func NewGateway(provider Provider, metrics Metrics, cfg GatewayConfig, log zerolog.Logger, opts ...GatewayOption) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	g := &Gateway{
		provider: provider,
		metrics:  metrics,
		cfg:      cfg,
		tracer:   otel.Tracer("chat-api/llm"),
		log:      log.With().Str("component", "llm-gateway").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Model returns the model name sent to the provider.
func (g *Gateway) Model() string {
	return g.cfg.Model
}

// Complete sends history to the provider. It never returns an error: failures
// are reported through the Completion and recorded as metrics.
func (g *Gateway) Complete(ctx context.Context, history []ChatMessage) Completion {
	ctx, span := g.tracer.Start(ctx, "llm.complete", trace.WithAttributes(
		attribute.String("llm.model", g.cfg.Model),
		attribute.Int("llm.history_length", len(history)),
	))
	defer span.End()

	req := ChatCompletionRequest{
		Model:    g.cfg.Model,
		Messages: g.buildMessages(history),
	}

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.dispatch(callCtx, req)
	elapsed := time.Since(start)

	completion := interpret(resp, err)
	completion.Model = g.cfg.Model

	if !completion.OK() {
		g.metrics.RecordLLMCall(g.cfg.Model, StatusError, elapsed)
		g.metrics.RecordError(ErrorTypeAPI, serviceLabel)
		span.RecordError(completion.Err)
		span.SetStatus(codes.Error, completion.Err.Error())
		g.log.Warn().
			Err(completion.Err).
			Str("model", g.cfg.Model).
			Dur("duration", elapsed).
			Msg("llm call failed")
		return completion
	}

	g.metrics.RecordLLMCall(g.cfg.Model, StatusSuccess, elapsed)
	if u := completion.Usage; u.TotalTokens > 0 {
		g.metrics.RecordTokens(g.cfg.Model, u.PromptTokens, u.CompletionTokens, u.TotalTokens)
	}
	span.SetAttributes(
		attribute.Int("llm.usage.prompt_tokens", completion.Usage.PromptTokens),
		attribute.Int("llm.usage.completion_tokens", completion.Usage.CompletionTokens),
	)

	if e := g.log.Debug(); e.Enabled() {
		e.Str("model", g.cfg.Model).
			Dur("duration", elapsed).
			Int("total_tokens", completion.Usage.TotalTokens).
			Str("prompt", g.sanitizePrompt(history)).
			Str("response", g.sanitizeResponse(completion.Text)).
			Msg("llm call succeeded")
	}
	return completion
}

func (g *Gateway) dispatch(ctx context.Context, req ChatCompletionRequest) (resp *ChatCompletionResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = fmt.Errorf("llm provider panic: %v", r)
		}
	}()
	return g.provider.CreateChatCompletion(ctx, req)
}

func (g *Gateway) buildMessages(history []ChatMessage) []ChatMessage {
	prompt := strings.TrimSpace(g.cfg.SystemPrompt)
	if prompt == "" {
		return history
	}
	messages := make([]ChatMessage, 0, len(history)+1)
	messages = append(messages, ChatMessage{Role: "system", Content: prompt})
	return append(messages, history...)
}

func interpret(resp *ChatCompletionResponse, err error) Completion {
	if err != nil {
		return Completion{Err: err}
	}
	if resp == nil || len(resp.Choices) == 0 {
		return Completion{Err: ErrEmptyChoices}
	}

	completion := Completion{Text: resp.Choices[0].Message.Content}
	if resp.Usage != nil {
		completion.Usage = *resp.Usage
	}
	return completion
}

func (g *Gateway) sanitizePrompt(history []ChatMessage) string {
	if len(history) == 0 {
		return ""
	}
	last := history[len(history)-1].Content
	if g.sanitizer == nil {
		return "[REDACTED]"
	}
	return g.sanitizer.SanitizePrompt(last)
}

func (g *Gateway) sanitizeResponse(text string) string {
	if g.sanitizer == nil {
		return "[REDACTED]"
	}
	return g.sanitizer.SanitizeResponse(text)
}
