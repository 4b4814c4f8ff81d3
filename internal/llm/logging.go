package llm

import (
	"context"
	"log"
	"time"
)

// LoggingProvider is a decorator that writes one log line per LLM call.
type LoggingProvider struct {
	inner  Provider
	logger *log.Logger
}

// WithLogging wraps a Provider with call logging. A nil logger uses the
// standard logger.
func WithLogging(p Provider, logger *log.Logger) Provider {
	if logger == nil {
		logger = log.Default()
	}
	return &LoggingProvider{inner: p, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start).Milliseconds()

	model := modelFor(req, l.inner.ModelID())
	rid := RequestIDFrom(ctx)
	if rid == "" {
		rid = "-"
	}

	if err != nil {
		l.logger.Printf("llm provider=%s model=%s purpose=%s request_id=%s latency_ms=%d error=%q",
			l.inner.Name(), model, PurposeFrom(ctx), rid, latency, err.Error())
		return nil, err
	}

	if resp.Model != "" {
		model = resp.Model
	}
	l.logger.Printf("llm provider=%s model=%s purpose=%s request_id=%s latency_ms=%d tokens_in=%d tokens_out=%d stop=%s",
		l.inner.Name(), model, PurposeFrom(ctx), rid, latency,
		resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.StopReason)
	return resp, nil
}

func (l *LoggingProvider) Name() string { return l.inner.Name() }

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) ListModels(ctx context.Context) ([]ModelInfo, error) {
	return listModels(ctx, l.inner)
}
