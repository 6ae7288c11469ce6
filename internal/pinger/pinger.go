package pinger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/angeloszaimis/keepalive/internal/target"
)

// DefaultTimeout leaves room for a dormant service to cold start.
const DefaultTimeout = 25 * time.Second

// Bodies are drained up to this many bytes so the connection can be reused.
const maxDrainBytes = 64 << 10

// HTTPPinger issues keep-alive GET requests.
type HTTPPinger struct {
	logger    *slog.Logger
	timeout   time.Duration
	transport http.RoundTripper
}

// Option configures an HTTPPinger.
type Option func(*HTTPPinger)

// WithTimeout overrides the per-ping timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *HTTPPinger) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithTransport sets the round tripper shared by the per-ping clients.
// A nil transport means http.DefaultTransport.
func WithTransport(rt http.RoundTripper) Option {
	return func(p *HTTPPinger) {
		p.transport = rt
	}
}

// New creates an HTTPPinger with DefaultTimeout.
func New(logger *slog.Logger, opts ...Option) *HTTPPinger {
	p := &HTTPPinger{
		logger:  logger,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Timeout returns the per-ping timeout.
func (p *HTTPPinger) Timeout() time.Duration {
	return p.timeout
}

// Ping sends one GET to the target address and reports the classified outcome.
// The request observes ctx, so cancelling it aborts an in-flight ping.
func (p *HTTPPinger) Ping(ctx context.Context, t target.PingTarget) Outcome {
	client := &http.Client{
		Timeout:   p.timeout,
		Transport: p.transport,
	}

	start := time.Now()
	out := p.do(ctx, client, t.Address())
	out.Latency = time.Since(start)

	p.report(ctx, t, out)

	return out
}

func (p *HTTPPinger) do(ctx context.Context, client *http.Client, address string) Outcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return Outcome{Kind: Transport, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	res, err := client.Do(req)
	if err != nil {
		return Outcome{Kind: Transport, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer res.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxDrainBytes))

	return Outcome{
		Kind:       Classify(res.StatusCode),
		StatusCode: res.StatusCode,
	}
}

func (p *HTTPPinger) report(ctx context.Context, t target.PingTarget, out Outcome) {
	attrs := []any{
		slog.String("target", t.Name()),
		slog.String("address", t.Address()),
		slog.String("outcome", out.Kind.String()),
		slog.Duration("latency", out.Latency),
	}

	switch out.Kind {
	case Success:
		p.logger.Info("Ping succeeded", append(attrs, slog.Int("status_code", out.StatusCode))...)
	case FailureStatus:
		p.logger.Warn("Ping returned failure status", append(attrs, slog.Int("status_code", out.StatusCode))...)
	default:
		attrs = append(attrs, slog.String("error", out.Err.Error()))
		if ctx.Err() != nil {
			p.logger.Info("Ping aborted by shutdown", attrs...)
			return
		}
		p.logger.Error("Ping failed", attrs...)
	}
}
