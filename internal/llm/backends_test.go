package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func serve(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func insightLikeSchema() *Schema {
	return &Schema{
		Name: "test-observation",
		Definition: map[string]any{
			"type":       "object",
			"properties": map[string]any{"observation": map[string]any{"type": "string"}},
			"required":   []any{"observation"},
		},
	}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	srv := serve(t, http.StatusOK, map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": `{"observation":"calm"}`}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": "end_turn",
		"usage":       map[string]any{"input_tokens": 40, "output_tokens": 12},
	})
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "claude-haiku", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "claude-haiku-4-5-20251001" {
		t.Errorf("model = %q", p.ModelID())
	}

	resp, err := p.Generate(context.Background(), UserRequest("sys", "go", insightLikeSchema(), 256))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 52 {
		t.Errorf("total tokens = %d, want 52", resp.Usage.TotalTokens)
	}
	if string(resp.Content) != `{"observation":"calm"}` {
		t.Errorf("content = %s", resp.Content)
	}
}

func TestAnthropicProvider_RateLimit(t *testing.T) {
	srv := serve(t, http.StatusTooManyRequests, map[string]any{
		"type":  "error",
		"error": map[string]any{"type": "rate_limit_error", "message": "slow down"},
	})
	// The SDK retries 429s on its own; disable that so only our mapping runs.
	client := anthropic.NewClient(
		option.WithAPIKey("k"),
		option.WithBaseURL(srv.URL),
		option.WithMaxRetries(0),
	)
	p := &AnthropicProvider{client: &client, model: "claude-haiku-4-5-20251001"}

	_, err := p.Generate(context.Background(), UserRequest("", "go", nil, 10))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("got %T (%v), want *ErrRateLimit", err, err)
	}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	srv := serve(t, http.StatusOK, map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": `{"observation":"steady"}`},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 20, "completion_tokens": 8, "total_tokens": 28},
	})
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-mini", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.Generate(context.Background(), UserRequest("sys", "go", insightLikeSchema(), 64))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Model != "gpt-4o-mini" || resp.Usage.TotalTokens != 28 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestOpenAIProvider_TruncatedAndInvalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
		finish  string
		check   func(error) bool
	}{
		{"truncated", `{"obs`, "length", func(err error) bool { var e *ErrMaxTokensExceeded; return errors.As(err, &e) }},
		{"invalid", `{"other":1}`, "stop", func(err error) bool { var e *ErrInvalidResponse; return errors.As(err, &e) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := serve(t, http.StatusOK, map[string]any{
				"model": "gpt-4o-mini",
				"choices": []map[string]any{{
					"message":       map[string]any{"role": "assistant", "content": tc.content},
					"finish_reason": tc.finish,
				}},
			})
			p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
			_, err := p.Generate(context.Background(), UserRequest("", "go", insightLikeSchema(), 64))
			if !tc.check(err) {
				t.Fatalf("unexpected error: %T %v", err, err)
			}
		})
	}
}

func TestOpenRouterProvider_SendsTitle(t *testing.T) {
	var gotTitle, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("X-Title")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model": "google/gemini-3-flash-preview",
			"choices": []map[string]any{{
				"message":       map[string]any{"role": "assistant", "content": `{"observation":"ok"}`},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "google/gemini-3-flash-preview", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "google/gemini-3-flash-preview" {
		t.Errorf("model = %q", p.ModelID())
	}
	if _, err := p.Generate(context.Background(), UserRequest("", "go", insightLikeSchema(), 64)); err != nil {
		t.Fatal(err)
	}
	if gotTitle != openRouterTitle {
		t.Errorf("X-Title = %q", gotTitle)
	}
	if !strings.HasSuffix(gotPath, "/chat/completions") {
		t.Errorf("path = %q", gotPath)
	}
}

func TestNewOpenRouterProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "x"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestGeminiProvider_Generate(t *testing.T) {
	srv := serve(t, http.StatusOK, map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": `{"observation":"focused"}`}}},
			"finishReason": "STOP",
		}},
		"usageMetadata": map[string]any{"promptTokenCount": 30, "candidatesTokenCount": 9, "totalTokenCount": 39},
	})
	p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "k", Model: "gemini-flash", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "gemini-3-flash-preview" {
		t.Errorf("model = %q", p.ModelID())
	}
	resp, err := p.Generate(context.Background(), UserRequest("sys", "go", insightLikeSchema(), 64))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 39 || string(resp.Content) != `{"observation":"focused"}` {
		t.Errorf("resp = %+v", resp)
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"tags":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"mood":  map[string]any{"type": "string", "enum": []any{"calm", "busy"}},
		},
		"required": []any{"score"},
	})
	if s.Type != "OBJECT" || len(s.Properties) != 3 {
		t.Fatalf("schema = %+v", s)
	}
	score := s.Properties["score"]
	if score.Type != "INTEGER" || score.Minimum == nil || *score.Maximum != 100 {
		t.Errorf("score = %+v", score)
	}
	if s.Properties["tags"].Items.Type != "STRING" {
		t.Error("array items not converted")
	}
	if len(s.Properties["mood"].Enum) != 2 || len(s.Required) != 1 {
		t.Error("enum or required lost")
	}
}

func TestResolveModel(t *testing.T) {
	if got := resolveModel("gemini-pro", geminiModels); got != "gemini-3-pro-preview" {
		t.Errorf("alias = %q", got)
	}
	if got := resolveModel("gemini-2.5-flash", geminiModels); got != "gemini-2.5-flash" {
		t.Errorf("pass-through = %q", got)
	}
}
