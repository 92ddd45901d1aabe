package provider

import (
	"context"
)

type Request struct {
	Endpoint  string // path relative to the base URL, e.g. "/chat/completions"
	Body      []byte
	RequestID string
}

type Response struct {
	StatusCode int
	Body       []byte
}

// Sender performs exactly one upstream call. Implementations return an error
// only when no HTTP response was obtained; status handling is left to callers.
type Sender interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, req *Request) (*Response, error)

func (f SenderFunc) Send(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
