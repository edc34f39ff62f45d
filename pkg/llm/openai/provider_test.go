package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"assembly-guide-be/pkg/llm"
)

func TestChatSuccess(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("auth header = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"bag A1 is the one"}}]}`))
	}))
	defer server.Close()

	p := NewProvider("test-key", server.URL, "gpt-4o-mini")
	answer, err := p.Chat(context.Background(), "you are a build assistant",
		[]llm.Message{{Role: "user", Content: "what bag do I need?"}},
		[]llm.ImageAttachment{{DataURL: "data:image/png;base64,aaaa", Detail: "low"}})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if answer != "bag A1 is the one" {
		t.Errorf("answer = %q", answer)
	}

	messages := gotBody["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("sent %d messages, want system + user", len(messages))
	}
	first := messages[0].(map[string]any)
	if first["role"] != "system" {
		t.Errorf("first role = %v", first["role"])
	}
	// The user message carries text + image content parts.
	second := messages[1].(map[string]any)
	parts, ok := second["content"].([]any)
	if !ok {
		t.Fatalf("user content is %T, want content parts", second["content"])
	}
	if len(parts) != 2 {
		t.Errorf("got %d content parts, want text + image", len(parts))
	}
}

func TestChatTextOnlyWithoutImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		messages := body["messages"].([]any)
		user := messages[len(messages)-1].(map[string]any)
		if _, isString := user["content"].(string); !isString {
			t.Errorf("content without images should be a plain string, got %T", user["content"])
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	p := NewProvider("k", server.URL, "gpt-4o-mini")
	if _, err := p.Chat(context.Background(), "", []llm.Message{{Role: "user", Content: "hi"}}, nil); err != nil {
		t.Fatalf("Chat: %v", err)
	}
}

func TestChatRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer server.Close()

	p := NewProvider("k", server.URL, "gpt-4o-mini")
	_, err := p.Chat(context.Background(), "", []llm.Message{{Role: "user", Content: "hi"}}, nil)
	if !errors.Is(err, llm.ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited", err)
	}
}

func TestChatAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	}))
	defer server.Close()

	p := NewProvider("k", server.URL, "gpt-4o-mini")
	_, err := p.Chat(context.Background(), "", []llm.Message{{Role: "user", Content: "hi"}}, nil)
	var apiErr *llm.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *llm.APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if errors.Is(err, llm.ErrRateLimited) {
		t.Error("api error must not classify as rate limited")
	}
}

func TestChatErrorBodyInsideOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
	}))
	defer server.Close()

	p := NewProvider("k", server.URL, "gpt-4o-mini")
	_, err := p.Chat(context.Background(), "", []llm.Message{{Role: "user", Content: "hi"}}, nil)
	var apiErr *llm.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *llm.APIError", err)
	}
}

func TestChatTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"choices":[{"message":{"content":"late"}}]}`))
	}))
	defer server.Close()

	p := NewProvider("k", server.URL, "gpt-4o-mini")
	p.client.Timeout = 50 * time.Millisecond

	_, err := p.Chat(context.Background(), "", []llm.Message{{Role: "user", Content: "hi"}}, nil)
	if !errors.Is(err, llm.ErrTimeout) {
		t.Errorf("error = %v, want ErrTimeout", err)
	}
	if errors.Is(err, llm.ErrRateLimited) {
		t.Error("timeout must report distinctly from rate limiting")
	}
}
