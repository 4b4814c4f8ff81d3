package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestOpenAICompatible(t *testing.T, name string, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return newOpenAICompatible(name, OpenAIConfig{
		APIKey:  "test-key",
		Model:   "llama-3.1-8b-instant",
		BaseURL: server.URL + "/v1",
	})
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "llama-3.1-8b-instant",
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": finish,
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     40,
			"completion_tokens": 25,
			"total_tokens":      65,
		},
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	var body map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion("Volcanoes are mountains that erupt.", "stop"))
	}

	p := newTestOpenAICompatible(t, ProviderGroq, handler)
	resp, err := p.Generate(context.Background(), UserPrompt("You write reading passages.", "Write about volcanoes."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "Volcanoes are mountains that erupt." {
		t.Fatalf("unexpected text %q", resp.Text())
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Fatalf("unexpected usage %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp.StopReason)
	}
	if body["model"] != "llama-3.1-8b-instant" {
		t.Fatalf("expected default model, got %v", body["model"])
	}
	if _, ok := body["response_format"]; ok {
		t.Fatal("plain text request should not set response_format")
	}
}

func TestOpenAIProvider_ModelOverrideAndJSONMode(t *testing.T) {
	var body map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion("```json\n{\"ok\":true}\n```", "stop"))
	}

	p := newTestOpenAICompatible(t, ProviderOllama, handler)
	req := UserPrompt("", "json please")
	req.Model = "gemma3:12b"
	req.JSON = true

	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("expected fence stripped, got %s", resp.Content)
	}
	if body["model"] != "gemma3:12b" {
		t.Fatalf("expected override model, got %v", body["model"])
	}
	rf, _ := body["response_format"].(map[string]any)
	if rf["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", body["response_format"])
	}
}

func TestOpenAIProvider_SchemaFallsBackToJSONObject(t *testing.T) {
	var body map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"name":"Ann"}`, "stop"))
	}

	p := newTestOpenAICompatible(t, ProviderGroq, handler)
	req := UserPrompt("", "describe")
	req.Schema = testSchema()

	_, err := p.Generate(context.Background(), req)
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse for missing age, got %T (%v)", err, err)
	}
	rf, _ := body["response_format"].(map[string]any)
	if rf["type"] != "json_object" {
		t.Fatalf("expected json_object without native schema support, got %v", rf["type"])
	}
}

func TestOpenAIProvider_NativeSchema(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"name":"Ann","age":9}`, "stop"))
	}))
	t.Cleanup(server.Close)

	p := newOpenAICompatible(ProviderOpenAI, OpenAIConfig{
		APIKey: "k", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1", NativeSchema: true,
	})
	req := UserPrompt("", "describe")
	req.Schema = testSchema()

	if _, err := p.Generate(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rf, _ := body["response_format"].(map[string]any)
	if rf["type"] != "json_schema" {
		t.Fatalf("expected json_schema, got %v", rf["type"])
	}
}

func TestOpenAIProvider_TruncatedJSON(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"questions":[`, "length"))
	}

	p := newTestOpenAICompatible(t, ProviderGroq, handler)
	req := UserPrompt("", "json")
	req.JSON = true

	_, err := p.Generate(context.Background(), req)
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "tokens",
				"message": "Rate limit exceeded",
				"code":    "rate_limit_exceeded",
			},
		})
	}

	p := newTestOpenAICompatible(t, ProviderGroq, handler)
	_, err := p.Generate(context.Background(), UserPrompt("", "test"))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T (%v)", err, err)
	}
	if rl.Provider != ProviderGroq {
		t.Fatalf("expected provider groq, got %q", rl.Provider)
	}
}

func TestOpenAIProvider_ServerAndClientErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		permanent bool
	}{
		{"server error", http.StatusInternalServerError, false},
		{"bad key", http.StatusUnauthorized, true},
		{"unknown model", http.StatusNotFound, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"type": "error", "message": "nope"},
				})
			}

			p := newTestOpenAICompatible(t, ProviderOpenAI, handler)
			_, err := p.Generate(context.Background(), UserPrompt("", "test"))
			var unavail *ErrProviderUnavailable
			if !errors.As(err, &unavail) {
				t.Fatalf("expected ErrProviderUnavailable, got: %T (%v)", err, err)
			}
			if unavail.Permanent != tt.permanent {
				t.Fatalf("Permanent = %v, want %v", unavail.Permanent, tt.permanent)
			}
		})
	}
}

func TestOpenAIProvider_ListModels(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"id": "llama-3.1-8b-instant", "object": "model", "owned_by": "Meta", "created": 1},
				{"id": "whisper-large-v3", "object": "model", "owned_by": "OpenAI", "created": 2},
			},
		})
	}

	p := newTestOpenAICompatible(t, ProviderGroq, handler)
	models, err := p.ListModels(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
	if models[0].Provider != ProviderGroq || models[0].Details["owned_by"] != "Meta" {
		t.Fatalf("unexpected model %+v", models[0])
	}
}

func TestNewOpenAICompatibleProviders(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{}); err == nil {
		t.Fatal("expected error without openai key")
	}

	_, err := NewGroqProvider(OpenAIConfig{})
	var nc *ErrNotConfigured
	if !errors.As(err, &nc) || nc.Error() != "GROQ_API_KEY is not set" {
		t.Fatalf("expected GROQ_API_KEY error, got %v", err)
	}

	p, err := NewOllamaProvider(OpenAIConfig{Model: "gemma3:12b"})
	if err != nil {
		t.Fatalf("ollama needs no key: %v", err)
	}
	if p.Name() != ProviderOllama || p.ModelID() != "gemma3:12b" {
		t.Fatalf("unexpected provider %s/%s", p.Name(), p.ModelID())
	}
}
