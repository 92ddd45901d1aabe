package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type HTTPSender struct {
	apiKey   string
	baseURL  string
	appURL   string
	appTitle string
	client   *http.Client
}

type HTTPOption func(*HTTPSender)

// WithAttribution sets the optional OpenRouter HTTP-Referer and X-Title headers.
func WithAttribution(appURL, appTitle string) HTTPOption {
	return func(s *HTTPSender) {
		s.appURL = appURL
		s.appTitle = appTitle
	}
}

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSender) {
		s.client = c
	}
}

func NewHTTPSender(apiKey, baseURL string, opts ...HTTPOption) *HTTPSender {
	s := &HTTPSender{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPSender) Send(ctx context.Context, req *Request) (*Response, error) {
	url := fmt.Sprintf("%s%s", s.baseURL, req.Endpoint)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(req.Body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	if req.RequestID != "" {
		httpReq.Header.Set("X-Request-ID", req.RequestID)
	}
	if s.appURL != "" {
		httpReq.Header.Set("HTTP-Referer", s.appURL)
	}
	if s.appTitle != "" {
		httpReq.Header.Set("X-Title", s.appTitle)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
