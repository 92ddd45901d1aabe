package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vnmchuo/openrouter-cli/internal/provider"
)

const (
	OpChat      = "chat completion"
	OpEmbedding = "embedding"

	chatEndpoint      = "/chat/completions"
	embeddingEndpoint = "/embeddings"

	maxErrorBody = 512
)

type Client struct {
	sender provider.Sender
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Usage   *usage       `json:"usage"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message *choiceMessage `json:"message"`
}

type choiceMessage struct {
	Content *string `json:"content"`
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data  []embeddingData `json:"data"`
	Usage *usage          `json:"usage"`
	Error *apiError       `json:"error,omitempty"`
}

type embeddingData struct {
	Embedding []float64 `json:"embedding"`
}

type usage struct {
	TotalTokens int `json:"total_tokens"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ChatResult is the raw outcome of a chat call, before pricing.
type ChatResult struct {
	Content     string
	TotalTokens int
}

// EmbeddingResult is the raw outcome of an embedding call, before pricing.
type EmbeddingResult struct {
	Embedding   []float64
	TotalTokens int
}

func New(sender provider.Sender) *Client {
	return &Client{sender: sender}
}

// Chat sends userInput as a single user message to model.
func (c *Client) Chat(ctx context.Context, requestID, model, userInput string) (*ChatResult, error) {
	if model == "" {
		return nil, fmt.Errorf("%s: model is required: %w", OpChat, provider.ErrInvalidRequest)
	}

	body, err := c.post(ctx, OpChat, chatEndpoint, requestID, chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: userInput}},
	})
	if err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &provider.UnexpectedResponseError{Op: OpChat, Field: "body", Err: err}
	}
	if resp.Error != nil && len(resp.Choices) == 0 {
		return nil, upstreamError(OpChat, resp.Error)
	}
	if len(resp.Choices) == 0 {
		return nil, &provider.UnexpectedResponseError{Op: OpChat, Field: "choices[0]"}
	}
	msg := resp.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return nil, &provider.UnexpectedResponseError{Op: OpChat, Field: "choices[0].message.content"}
	}

	return &ChatResult{
		Content:     *msg.Content,
		TotalTokens: totalTokens(resp.Usage),
	}, nil
}

// Embed requests an embedding of text from model.
func (c *Client) Embed(ctx context.Context, requestID, model, text string) (*EmbeddingResult, error) {
	if model == "" {
		return nil, fmt.Errorf("%s: model is required: %w", OpEmbedding, provider.ErrInvalidRequest)
	}

	body, err := c.post(ctx, OpEmbedding, embeddingEndpoint, requestID, embeddingRequest{
		Model: model,
		Input: text,
	})
	if err != nil {
		return nil, err
	}

	var resp embeddingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &provider.UnexpectedResponseError{Op: OpEmbedding, Field: "body", Err: err}
	}
	if resp.Error != nil && len(resp.Data) == 0 {
		return nil, upstreamError(OpEmbedding, resp.Error)
	}
	if len(resp.Data) == 0 {
		return nil, &provider.UnexpectedResponseError{Op: OpEmbedding, Field: "data[0]"}
	}
	if resp.Data[0].Embedding == nil {
		return nil, &provider.UnexpectedResponseError{Op: OpEmbedding, Field: "data[0].embedding"}
	}

	return &EmbeddingResult{
		Embedding:   resp.Data[0].Embedding,
		TotalTokens: totalTokens(resp.Usage),
	}, nil
}

func (c *Client) post(ctx context.Context, op, endpoint, requestID string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", op, err)
	}

	resp, err := c.sender.Send(ctx, &provider.Request{
		Endpoint:  endpoint,
		Body:      body,
		RequestID: requestID,
	})
	if err != nil {
		var te *provider.TransportError
		if errors.As(err, &te) {
			return nil, err
		}
		return nil, &provider.TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &provider.TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(resp.Body)), maxErrorBody),
		}
	}

	return resp.Body, nil
}

// upstreamError maps an error object delivered inside a 2xx body.
func upstreamError(op string, e *apiError) error {
	return &provider.TransportError{
		Op:  op,
		Err: fmt.Errorf("api error (code %d): %s", e.Code, e.Message),
	}
}

func totalTokens(u *usage) int {
	if u == nil || u.TotalTokens < 0 {
		return 0
	}
	return u.TotalTokens
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
