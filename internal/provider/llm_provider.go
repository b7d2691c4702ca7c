package provider

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fleveque/namesmith/internal/llm"
	"github.com/fleveque/namesmith/internal/model"
	"github.com/fleveque/namesmith/internal/storage"
)

// tracker holds what TextProvider and ImageProvider have in common.
// Rate limited when ratePerMinute > 0 to keep API costs predictable.
type tracker struct {
	limiter  *rate.Limiter // nil when pacing is disabled
	calls    storage.CallRepository
	observer CallObserver
	logger   *zap.Logger
}

func newTracker(ratePerMinute int, calls storage.CallRepository, observer CallObserver, logger *zap.Logger) tracker {
	t := tracker{calls: calls, observer: observer, logger: logger}
	if ratePerMinute > 0 {
		// rate.Every returns a rate.Limit from a time interval between events.
		t.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), 1)
	}
	return t
}

// wait blocks until the limiter grants a token or the context is cancelled.
func (t *tracker) wait(ctx context.Context, name string) error {
	if t.limiter == nil {
		return nil
	}
	start := time.Now()
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	if t.observer != nil {
		t.observer.ObserveThrottle(name, time.Since(start))
	}
	return nil
}

// record writes the audit row and the metrics for one call. Recording
// failures are logged and never change the call's outcome.
func (t *tracker) record(ctx context.Context, kind model.CallKind, providerName, modelName string, callErr error, d time.Duration) {
	durationMs := d.Milliseconds()
	call := &model.ModelCall{
		Kind:       kind,
		Provider:   providerName,
		Model:      modelName,
		Subject:    SubjectFrom(ctx),
		Success:    callErr == nil,
		DurationMs: &durationMs,
	}
	if callErr != nil {
		msg := callErr.Error()
		call.ErrorMessage = &msg
	}

	if t.observer != nil {
		t.observer.ObserveCall(string(kind), providerName, modelName, callErr == nil, d)
	}

	if callErr != nil {
		t.logger.Warn("model call failed",
			zap.String("kind", string(kind)),
			zap.String("provider", providerName),
			zap.String("subject", call.Subject),
			zap.Duration("duration", d),
			zap.Error(callErr),
		)
	} else {
		t.logger.Debug("model call succeeded",
			zap.String("kind", string(kind)),
			zap.String("provider", providerName),
			zap.String("subject", call.Subject),
			zap.Duration("duration", d),
		)
	}

	if t.calls == nil {
		return
	}
	// The audit row must be written even if the request context was cancelled.
	if err := t.calls.Create(context.WithoutCancel(ctx), call); err != nil {
		t.logger.Error("recording model call", zap.Error(err))
	}
}

// TextProvider decorates an llm.TextClient. Structured calls are recorded as
// idea generation, free-text calls as SVG generation.
type TextProvider struct {
	client llm.TextClient
	tracker
}

// NewTextProvider wraps client. calls and observer may be nil.
func NewTextProvider(
	client llm.TextClient,
	ratePerMinute int,
	calls storage.CallRepository,
	observer CallObserver,
	logger *zap.Logger,
) *TextProvider {
	return &TextProvider{
		client:  client,
		tracker: newTracker(ratePerMinute, calls, observer, logger),
	}
}

func (p *TextProvider) ProviderName() string { return p.client.ProviderName() }
func (p *TextProvider) ModelName() string    { return p.client.ModelName() }

func (p *TextProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := p.wait(ctx, "text"); err != nil {
		return "", err
	}
	start := time.Now()
	text, err := p.client.GenerateText(ctx, prompt)
	p.record(ctx, model.CallSVG, p.client.ProviderName(), p.client.ModelName(), err, time.Since(start))
	return text, err
}

func (p *TextProvider) GenerateStructured(ctx context.Context, prompt string, out llm.StructuredOutput) (string, error) {
	if err := p.wait(ctx, "text"); err != nil {
		return "", err
	}
	start := time.Now()
	text, err := p.client.GenerateStructured(ctx, prompt, out)
	p.record(ctx, model.CallIdeas, p.client.ProviderName(), p.client.ModelName(), err, time.Since(start))
	return text, err
}

// ImageProvider decorates an llm.ImageClient.
type ImageProvider struct {
	client llm.ImageClient
	tracker
}

// NewImageProvider wraps client. calls and observer may be nil.
func NewImageProvider(
	client llm.ImageClient,
	ratePerMinute int,
	calls storage.CallRepository,
	observer CallObserver,
	logger *zap.Logger,
) *ImageProvider {
	return &ImageProvider{
		client:  client,
		tracker: newTracker(ratePerMinute, calls, observer, logger),
	}
}

func (p *ImageProvider) ProviderName() string { return p.client.ProviderName() }
func (p *ImageProvider) ModelName() string    { return p.client.ModelName() }

func (p *ImageProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	if err := p.wait(ctx, "image"); err != nil {
		return nil, err
	}
	start := time.Now()
	data, err := p.client.GenerateImage(ctx, prompt)
	p.record(ctx, model.CallImage, p.client.ProviderName(), p.client.ModelName(), err, time.Since(start))
	return data, err
}

// Interface checks: compile-time proof the wrappers stay drop-in replacements.
var (
	_ llm.TextClient  = (*TextProvider)(nil)
	_ llm.ImageClient = (*ImageProvider)(nil)
)
