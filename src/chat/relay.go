package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"
)

const SystemPrompt = "You are a finance assistant helping with budgeting."

var (
	ErrEmptyMessage  = errors.New("message is required")
	ErrEmptyResponse = errors.New("completion returned no choices")
)

// Completer is the slice of the OpenAI client the relay needs. *openai.Client satisfies it.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Outcome int

const (
	OutcomeReply Outcome = iota
	OutcomeInvalid
	OutcomeUpstreamFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReply:
		return "reply"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeUpstreamFailure:
		return "upstream_failure"
	default:
		return "unknown"
	}
}

// Result is what one relay attempt produced. Err is set for every outcome except OutcomeReply.
type Result struct {
	Outcome Outcome
	Reply   string
	Reason  string
	Err     error
}

type Relay struct {
	client    Completer
	model     string
	maxTokens int
	timeout   time.Duration
}

func NewRelay(client Completer, model string, maxTokens int, timeout time.Duration) *Relay {
	return &Relay{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
	}
}

// Send forwards message to the completion service once and returns the first choice's text.
// An empty message never reaches the service.
func (r *Relay) Send(ctx context.Context, message string) Result {
	if message == "" {
		return Result{Outcome: OutcomeInvalid, Reason: "empty_message", Err: ErrEmptyMessage}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		MaxTokens: r.maxTokens,
	})
	if err != nil {
		reason := classify(ctx, err)
		slog.Warn("Chat completion failed", "reason", reason, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return Result{Outcome: OutcomeUpstreamFailure, Reason: reason, Err: fmt.Errorf("chat completion failed: %w", err)}
	}
	if len(resp.Choices) == 0 {
		slog.Warn("Chat completion returned no choices", "model", resp.Model, "id", resp.ID)
		return Result{Outcome: OutcomeUpstreamFailure, Reason: "empty_response", Err: fmt.Errorf("chat completion failed: %w", ErrEmptyResponse)}
	}

	slog.Debug("Chat completion ok", "model", resp.Model, "tokens", resp.Usage.TotalTokens, "duration_ms", time.Since(start).Milliseconds())
	return Result{Outcome: OutcomeReply, Reply: resp.Choices[0].Message.Content}
}

func classify(ctx context.Context, err error) string {
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &apiErr):
		return statusReason(apiErr.HTTPStatusCode)
	case errors.As(err, &reqErr):
		return statusReason(reqErr.HTTPStatusCode)
	default:
		return "transport"
	}
}

func statusReason(status int) string {
	switch {
	case status == 401 || status == 403:
		return "unauthorized"
	case status == 429:
		return "rate_limited"
	case status >= 500:
		return "provider_error"
	default:
		return "rejected"
	}
}
