package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"github.com/vnmchuo/openrouter-cli/internal/provider"
)

var errUpstreamStatus = errors.New("upstream server error")

// BreakerSender stops calling next once it has failed three times in a row.
// It never retries; a short-circuited call fails immediately.
type BreakerSender struct {
	next provider.Sender
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerSender(name string, next provider.Sender) *BreakerSender {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &BreakerSender{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *BreakerSender) Send(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		resp, err := b.next.Send(ctx, req)
		if err != nil {
			return nil, err
		}
		// 5xx counts against the breaker but is still handed back for status reporting
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errUpstreamStatus
		}
		return resp, nil
	})
	if errors.Is(err, errUpstreamStatus) {
		return result.(*provider.Response), nil
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("circuit breaker %q: %w", b.cb.Name(), err)
		}
		return nil, err
	}
	return result.(*provider.Response), nil
}

func (b *BreakerSender) State() gobreaker.State {
	return b.cb.State()
}
