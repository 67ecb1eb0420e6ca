package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/llmerrors"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/transport"
)

func openAIRequest() *transport.Request {
	return &transport.Request{
		Provider:     ProviderOpenAI,
		Model:        "gpt-4o-mini",
		Prompt:       "Write a quote about focus.",
		SystemPrompt: "You write short motivational quotes.",
		MaxTokens:    100,
		Temperature:  0.7,
	}
}

func TestOpenAIBuild(t *testing.T) {
	adapter := NewOpenAIAdapter(Config{APIKey: "sk-test", Headers: map[string]string{"X-Org": "acme"}})

	httpReq, err := adapter.Build(context.Background(), openAIRequest())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, httpReq.Method)
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", httpReq.URL.String())
	assert.Equal(t, "Bearer sk-test", httpReq.Header.Get("Authorization"))
	assert.Equal(t, "application/json", httpReq.Header.Get("Content-Type"))
	assert.Equal(t, "acme", httpReq.Header.Get("X-Org"))

	var body struct {
		Model       string           `json:"model"`
		Messages    []map[string]any `json:"messages"`
		MaxTokens   int              `json:"max_tokens"`
		Temperature float64          `json:"temperature"`
	}
	require.NoError(t, json.NewDecoder(httpReq.Body).Decode(&body))
	assert.Equal(t, "gpt-4o-mini", body.Model)
	assert.Equal(t, 100, body.MaxTokens)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "system", body.Messages[0]["role"])
	assert.Equal(t, "user", body.Messages[1]["role"])
	assert.Equal(t, "Write a quote about focus.", body.Messages[1]["content"])
}

func TestOpenAIBuildWithoutSystemPrompt(t *testing.T) {
	adapter := NewOpenAIAdapter(Config{APIKey: "sk-test"})
	req := openAIRequest()
	req.SystemPrompt = ""

	httpReq, err := adapter.Build(context.Background(), req)
	require.NoError(t, err)

	var body struct {
		Messages []map[string]any `json:"messages"`
	}
	require.NoError(t, json.NewDecoder(httpReq.Body).Decode(&body))
	require.Len(t, body.Messages, 1)
	assert.Equal(t, "user", body.Messages[0]["role"])
}

func TestOpenAIParse(t *testing.T) {
	raw := `{
		"id": "chatcmpl-1",
		"model": "gpt-4o-mini",
		"choices": [{"message": {"content": "Focus beats talent when talent loses focus."}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 20, "completion_tokens": 10, "total_tokens": 30}
	}`
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(raw)),
		Header:     http.Header{},
	}

	adapter := NewOpenAIAdapter(Config{})
	parsed, err := adapter.Parse(resp)
	require.NoError(t, err)

	assert.Equal(t, "Focus beats talent when talent loses focus.", parsed.Content)
	assert.Equal(t, "gpt-4o-mini", parsed.Model)
	assert.Equal(t, int64(20), parsed.Usage.PromptTokens)
	assert.Equal(t, int64(30), parsed.Usage.TotalTokens)
}

func TestOpenAIParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		retryAfter string
		wantType   llmerrors.ErrorType
		wantRetry  int
	}{
		{
			name:       "rate limit with retry-after",
			statusCode: http.StatusTooManyRequests,
			body:       `{"error": {"message": "Rate limit reached", "type": "rate_limit_error", "code": "rate_limit_exceeded"}}`,
			retryAfter: "30",
			wantType:   llmerrors.ErrorTypeRateLimit,
			wantRetry:  30,
		},
		{
			name:       "auth failure",
			statusCode: http.StatusUnauthorized,
			body:       `{"error": {"message": "Invalid API key", "type": "invalid_request_error", "code": "invalid_api_key"}}`,
			wantType:   llmerrors.ErrorTypeAuth,
		},
		{
			name:       "server error",
			statusCode: http.StatusServiceUnavailable,
			body:       `{"error": {"message": "Overloaded", "type": "server_error"}}`,
			wantType:   llmerrors.ErrorTypeProvider,
		},
		{
			name:       "unparseable error body",
			statusCode: http.StatusBadGateway,
			body:       `upstream exploded`,
			wantType:   llmerrors.ErrorTypeProvider,
		},
	}

	adapter := NewOpenAIAdapter(Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.retryAfter != "" {
				header.Set("Retry-After", tt.retryAfter)
			}
			resp := &http.Response{
				StatusCode: tt.statusCode,
				Body:       io.NopCloser(strings.NewReader(tt.body)),
				Header:     header,
			}

			_, err := adapter.Parse(resp)
			require.Error(t, err)

			var provErr *llmerrors.ProviderError
			require.ErrorAs(t, err, &provErr)
			assert.Equal(t, ProviderOpenAI, provErr.Provider)
			assert.Equal(t, tt.statusCode, provErr.StatusCode)
			assert.Equal(t, tt.wantType, provErr.Type)
			assert.Equal(t, tt.wantRetry, provErr.RetryAfter)
		})
	}
}

func TestRouterPick(t *testing.T) {
	router, err := NewRouter(map[string]Config{
		ProviderOpenAI:    {Model: "gpt-4o-mini"},
		ProviderAnthropic: {Model: "claude-3-5-haiku"},
	})
	require.NoError(t, err)

	adapter, err := router.Pick(ProviderOpenAI)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, adapter.Name())

	_, err = router.Pick("mystery")
	assert.ErrorIs(t, err, llmerrors.ErrUnknownProvider)
}

func TestNewRouterRejectsUnknownProvider(t *testing.T) {
	_, err := NewRouter(map[string]Config{"mystery": {}})
	assert.ErrorIs(t, err, llmerrors.ErrUnknownProvider)
}
