package dispatch

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vnmchuo/openrouter-cli/internal/billing"
	"github.com/vnmchuo/openrouter-cli/internal/provider/openrouter"
	"github.com/vnmchuo/openrouter-cli/internal/render"
	"github.com/vnmchuo/openrouter-cli/pkg/ratelimit"
)

type CompletionResult struct {
	Content          string
	TokensUsed       int
	EstimatedCostUSD float64
}

type EmbeddingResult struct {
	Vector           []float64
	TokensUsed       int
	EstimatedCostUSD float64
}

// Dispatcher runs one upstream call at a time, reports the outcome and then
// waits out the cooldown. Failures are reported, never returned.
type Dispatcher struct {
	client   *openrouter.Client
	prices   billing.PriceTable
	renderer *render.Renderer
	cooldown *ratelimit.Cooldown
	tracer   trace.Tracer
	logger   *log.Logger
}

func NewDispatcher(client *openrouter.Client, prices billing.PriceTable, renderer *render.Renderer, cooldown *ratelimit.Cooldown, tracer trace.Tracer, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Dispatcher{
		client:   client,
		prices:   prices,
		renderer: renderer,
		cooldown: cooldown,
		tracer:   tracer,
		logger:   logger,
	}
}

// ChatCompletion returns nil when the call failed; the failure has already been reported.
func (d *Dispatcher) ChatCompletion(ctx context.Context, wireModelID, userInput string) *CompletionResult {
	defer d.cooldown.Wait()

	requestID := uuid.New().String()
	ctx, span := d.start(ctx, "openrouter.chat_completion", requestID, wireModelID)
	defer span.End()

	start := time.Now()
	resp, err := d.client.Chat(ctx, requestID, wireModelID, userInput)
	if err != nil {
		d.fail(span, openrouter.OpChat, requestID, err)
		return nil
	}

	usage := billing.UsageRecord{
		RequestID:  requestID,
		Operation:  openrouter.OpChat,
		Model:      wireModelID,
		TokensUsed: resp.TotalTokens,
		CostUSD:    billing.EstimateFor(d.prices, wireModelID, resp.TotalTokens),
		LatencyMs:  time.Since(start).Milliseconds(),
	}
	d.record(span, usage)

	d.renderer.Completion(resp.Content, usage.TokensUsed, usage.CostUSD)
	return &CompletionResult{
		Content:          resp.Content,
		TokensUsed:       usage.TokensUsed,
		EstimatedCostUSD: usage.CostUSD,
	}
}

// EmbedText returns the full vector; only a preview of it is printed.
func (d *Dispatcher) EmbedText(ctx context.Context, wireModelID, text string) *EmbeddingResult {
	defer d.cooldown.Wait()

	requestID := uuid.New().String()
	ctx, span := d.start(ctx, "openrouter.embedding", requestID, wireModelID)
	defer span.End()

	start := time.Now()
	resp, err := d.client.Embed(ctx, requestID, wireModelID, text)
	if err != nil {
		d.fail(span, openrouter.OpEmbedding, requestID, err)
		return nil
	}

	usage := billing.UsageRecord{
		RequestID:  requestID,
		Operation:  openrouter.OpEmbedding,
		Model:      wireModelID,
		TokensUsed: resp.TotalTokens,
		CostUSD:    billing.EstimateFor(d.prices, wireModelID, resp.TotalTokens),
		LatencyMs:  time.Since(start).Milliseconds(),
	}
	d.record(span, usage)
	span.SetAttributes(attribute.Int("embedding.dimensions", len(resp.Embedding)))

	d.renderer.Embedding(resp.Embedding, usage.TokensUsed, usage.CostUSD)
	return &EmbeddingResult{
		Vector:           resp.Embedding,
		TokensUsed:       usage.TokensUsed,
		EstimatedCostUSD: usage.CostUSD,
	}
}

func (d *Dispatcher) start(ctx context.Context, name, requestID, model string) (context.Context, trace.Span) {
	ctx, span := d.tracer.Start(ctx, name)
	span.SetAttributes(
		attribute.String("request_id", requestID),
		attribute.String("model", model),
	)
	return ctx, span
}

func (d *Dispatcher) fail(span trace.Span, op, requestID string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	d.logger.Printf("dispatch: %s request %s failed: %v", op, requestID, err)
	d.renderer.Failure(op, err)
}

func (d *Dispatcher) record(span trace.Span, u billing.UsageRecord) {
	span.SetAttributes(
		attribute.Int("usage.total_tokens", u.TokensUsed),
		attribute.Float64("usage.cost_usd", u.CostUSD),
		attribute.Int64("latency_ms", u.LatencyMs),
	)
	d.logger.Printf("dispatch: %s request %s model=%s tokens=%d cost=%.6f latency=%dms",
		u.Operation, u.RequestID, u.Model, u.TokensUsed, u.CostUSD, u.LatencyMs)
}
