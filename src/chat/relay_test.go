package chat

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
)

type fakeCompleter struct {
	calls int
	req   openai.ChatCompletionRequest
	resp  openai.ChatCompletionResponse
	err   error
	wait  bool
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.req = req
	if f.wait {
		<-ctx.Done()
		return openai.ChatCompletionResponse{}, ctx.Err()
	}
	return f.resp, f.err
}

func replyWith(text string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: text}},
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "second"}},
		},
	}
}

func TestSendEmptyMessageSkipsUpstream(t *testing.T) {
	fake := &fakeCompleter{resp: replyWith("hi")}
	res := NewRelay(fake, "gpt-4.1", 200, time.Second).Send(context.Background(), "")

	if res.Outcome != OutcomeInvalid || !errors.Is(res.Err, ErrEmptyMessage) {
		t.Fatalf("unexpected result: %+v", res)
	}
	if fake.calls != 0 {
		t.Fatalf("completion service called %d times", fake.calls)
	}
}

func TestSendBuildsRequest(t *testing.T) {
	fake := &fakeCompleter{resp: replyWith("Try a 50/30/20 budget.")}
	res := NewRelay(fake, "gpt-4.1", 200, time.Second).Send(context.Background(), "How do I save?")

	if res.Outcome != OutcomeReply || res.Err != nil {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Reply != "Try a 50/30/20 budget." {
		t.Fatalf("reply=%q", res.Reply)
	}
	if fake.calls != 1 {
		t.Fatalf("calls=%d", fake.calls)
	}
	if fake.req.Model != "gpt-4.1" || fake.req.MaxTokens != 200 {
		t.Fatalf("model=%q max_tokens=%d", fake.req.Model, fake.req.MaxTokens)
	}
	msgs := fake.req.Messages
	if len(msgs) != 2 {
		t.Fatalf("messages=%d", len(msgs))
	}
	if msgs[0].Role != openai.ChatMessageRoleSystem || msgs[0].Content != SystemPrompt {
		t.Fatalf("system message=%+v", msgs[0])
	}
	if msgs[1].Role != openai.ChatMessageRoleUser || msgs[1].Content != "How do I save?" {
		t.Fatalf("user message=%+v", msgs[1])
	}
}

func TestSendUpstreamFailures(t *testing.T) {
	cases := []struct {
		name       string
		fake       *fakeCompleter
		wantReason string
		wantText   string
	}{
		{
			name:       "unauthorized",
			fake:       &fakeCompleter{err: &openai.APIError{HTTPStatusCode: 401, Message: "Access denied due to invalid subscription key"}},
			wantReason: "unauthorized",
			wantText:   "invalid subscription key",
		},
		{
			name:       "quota",
			fake:       &fakeCompleter{err: &openai.APIError{HTTPStatusCode: 429, Message: "Rate limit reached"}},
			wantReason: "rate_limited",
			wantText:   "Rate limit reached",
		},
		{
			name:       "provider down",
			fake:       &fakeCompleter{err: &openai.RequestError{HTTPStatusCode: 503, Err: errors.New("service unavailable")}},
			wantReason: "provider_error",
			wantText:   "service unavailable",
		},
		{
			name:       "network",
			fake:       &fakeCompleter{err: errors.New("dial tcp: connection refused")},
			wantReason: "transport",
			wantText:   "connection refused",
		},
		{
			name:       "no choices",
			fake:       &fakeCompleter{resp: openai.ChatCompletionResponse{}},
			wantReason: "empty_response",
			wantText:   "no choices",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := NewRelay(tc.fake, "gpt-4.1", 200, time.Second).Send(context.Background(), "hello")
			if res.Outcome != OutcomeUpstreamFailure {
				t.Fatalf("outcome=%v", res.Outcome)
			}
			if res.Reason != tc.wantReason {
				t.Fatalf("reason=%q want %q", res.Reason, tc.wantReason)
			}
			if res.Err == nil || !strings.Contains(res.Err.Error(), tc.wantText) {
				t.Fatalf("err=%v should contain %q", res.Err, tc.wantText)
			}
			if tc.fake.calls != 1 {
				t.Fatalf("expected exactly one attempt, got %d", tc.fake.calls)
			}
		})
	}
}

func TestSendTimeout(t *testing.T) {
	fake := &fakeCompleter{wait: true}
	res := NewRelay(fake, "gpt-4.1", 200, 20*time.Millisecond).Send(context.Background(), "hello")

	if res.Outcome != OutcomeUpstreamFailure || res.Reason != "timeout" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Fatalf("err=%v", res.Err)
	}
}

func TestOutcomeString(t *testing.T) {
	if OutcomeReply.String() != "reply" || OutcomeInvalid.String() != "invalid" || OutcomeUpstreamFailure.String() != "upstream_failure" {
		t.Fatalf("unexpected outcome labels")
	}
}

func TestAzureClientRoutesToDeployment(t *testing.T) {
	var gotPath, gotVersion, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotVersion = r.URL.Query().Get("api-version")
		gotKey = r.Header.Get("api-key")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"cmpl-1","object":"chat.completion","model":"gpt-4.1","choices":[{"index":0,"message":{"role":"assistant","content":"Spend less on takeout."},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	client := NewAzureClient(srv.URL+"/", "secret", "budget-deploy", "2025-01-01-preview")
	res := NewRelay(client, "budget-deploy", 200, 5*time.Second).Send(context.Background(), "tips?")

	if res.Outcome != OutcomeReply || res.Reply != "Spend less on takeout." {
		t.Fatalf("unexpected result: %+v", res)
	}
	if gotPath != "/openai/deployments/budget-deploy/chat/completions" {
		t.Fatalf("path=%q", gotPath)
	}
	if gotVersion != "2025-01-01-preview" {
		t.Fatalf("api-version=%q", gotVersion)
	}
	if gotKey != "secret" {
		t.Fatalf("api-key=%q", gotKey)
	}
}
