package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vnmchuo/openrouter-cli/internal/provider"
)

func newTestClient(handler http.HandlerFunc) (*Client, func()) {
	server := httptest.NewServer(handler)
	return New(provider.NewHTTPSender("test-key", server.URL)), server.Close
}

func TestChat_Mock(t *testing.T) {
	var got chatRequest
	c, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected /chat/completions, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected bearer auth, got %s", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"hi"}}],"usage":{"total_tokens":10}}`)
	})
	defer done()

	resp, err := c.Chat(context.Background(), "req-1", "openai/gpt-4", "hello")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if resp.Content != "hi" {
		t.Errorf("Expected 'hi', got %s", resp.Content)
	}
	if resp.TotalTokens != 10 {
		t.Errorf("Expected 10 tokens, got %d", resp.TotalTokens)
	}
	if got.Model != "openai/gpt-4" {
		t.Errorf("Expected model openai/gpt-4, got %s", got.Model)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "hello" {
		t.Errorf("Unexpected messages %+v", got.Messages)
	}
}

func TestChat_EmptyInputIsSent(t *testing.T) {
	var raw map[string]any
	c, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		fmt.Fprint(w, `{"choices":[{"message":{"content":""}}],"usage":{"total_tokens":1}}`)
	})
	defer done()

	resp, err := c.Chat(context.Background(), "", "openai/gpt-4", "")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Content != "" {
		t.Errorf("Expected empty content, got %q", resp.Content)
	}

	messages := raw["messages"].([]any)
	content, ok := messages[0].(map[string]any)["content"]
	if !ok || content != "" {
		t.Errorf("Expected empty content field to be sent, got %v", content)
	}
}

func TestChat_MissingUsage(t *testing.T) {
	c, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"content":"no usage"}}]}`)
	})
	defer done()

	resp, err := c.Chat(context.Background(), "", "openai/gpt-4", "x")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.TotalTokens != 0 {
		t.Errorf("Expected 0 tokens, got %d", resp.TotalTokens)
	}
}

func TestChat_UnexpectedStructure(t *testing.T) {
	bodies := map[string]string{
		"no choices":      `{"usage":{"total_tokens":3}}`,
		"empty choices":   `{"choices":[]}`,
		"no message":      `{"choices":[{}]}`,
		"null content":    `{"choices":[{"message":{"content":null}}]}`,
		"not json":        `<html>oops</html>`,
		"wrong json type": `{"choices":"nope"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, body)
			})
			defer done()

			_, err := c.Chat(context.Background(), "", "openai/gpt-4", "x")
			var ue *provider.UnexpectedResponseError
			if !errors.As(err, &ue) {
				t.Fatalf("Expected UnexpectedResponseError, got %v", err)
			}
			var te *provider.TransportError
			if errors.As(err, &te) {
				t.Errorf("Unexpected structure must not be a TransportError")
			}
		})
	}
}

func TestChat_NonOKStatus(t *testing.T) {
	c, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"code":401,"message":"No auth credentials found"}}`)
	})
	defer done()

	_, err := c.Chat(context.Background(), "", "openai/gpt-4", "x")
	var te *provider.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
	if te.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", te.StatusCode)
	}
	if te.Op != OpChat {
		t.Errorf("Expected op %q, got %q", OpChat, te.Op)
	}
}

func TestChat_ErrorObjectInOKBody(t *testing.T) {
	c, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":{"code":502,"message":"upstream provider down"}}`)
	})
	defer done()

	_, err := c.Chat(context.Background(), "", "openai/gpt-4", "x")
	var te *provider.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
}

func TestChat_ConnectionFailure(t *testing.T) {
	c := New(provider.SenderFunc(func(ctx context.Context, req *provider.Request) (*provider.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	}))

	_, err := c.Chat(context.Background(), "", "openai/gpt-4", "x")
	var te *provider.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
	if te.StatusCode != 0 {
		t.Errorf("Expected no status code, got %d", te.StatusCode)
	}
}

func TestChat_EmptyModel(t *testing.T) {
	called := false
	c := New(provider.SenderFunc(func(ctx context.Context, req *provider.Request) (*provider.Response, error) {
		called = true
		return nil, nil
	}))

	_, err := c.Chat(context.Background(), "", "", "x")
	if !errors.Is(err, provider.ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest, got %v", err)
	}
	if called {
		t.Error("Sender must not be called for an empty model")
	}
}

func TestEmbed_Mock(t *testing.T) {
	vector := make([]float64, 1536)
	for i := range vector {
		vector[i] = float64(i) / 1000
	}

	var got embeddingRequest
	c, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("Expected /embeddings, got %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":  []map[string]any{{"embedding": vector, "index": 0}},
			"usage": map[string]int{"prompt_tokens": 4, "total_tokens": 4},
		})
	})
	defer done()

	resp, err := c.Embed(context.Background(), "", "openai/text-embedding-3-small", "some text")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(resp.Embedding) != 1536 {
		t.Errorf("Expected 1536 dimensions, got %d", len(resp.Embedding))
	}
	if resp.Embedding[1535] != 1.535 {
		t.Errorf("Expected last element 1.535, got %v", resp.Embedding[1535])
	}
	if resp.TotalTokens != 4 {
		t.Errorf("Expected 4 tokens, got %d", resp.TotalTokens)
	}
	if got.Model != "openai/text-embedding-3-small" || got.Input != "some text" {
		t.Errorf("Unexpected request %+v", got)
	}
}

func TestEmbed_UnexpectedStructure(t *testing.T) {
	for _, body := range []string{`{}`, `{"data":[]}`, `{"data":[{"index":0}]}`} {
		c, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		})

		_, err := c.Embed(context.Background(), "", "openai/text-embedding-3-small", "x")
		var ue *provider.UnexpectedResponseError
		if !errors.As(err, &ue) {
			t.Errorf("body %s: expected UnexpectedResponseError, got %v", body, err)
		}
		done()
	}
}

func TestEmbed_NonOKStatus(t *testing.T) {
	c, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer done()

	_, err := c.Embed(context.Background(), "", "openai/text-embedding-3-small", "x")
	var te *provider.TransportError
	if !errors.As(err, &te) || te.StatusCode != http.StatusInternalServerError {
		t.Fatalf("Expected TransportError with status 500, got %v", err)
	}
}
