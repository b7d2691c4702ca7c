// Package service contains the core business logic: idea generation, logo
// generation and the orchestrator that sequences them into a batch.
//
//	Step 1, ideas: one text request returns N name + description pairs
//	Step 2, logos: per idea, one image request and one SVG request in parallel
//
// Step 1 failing aborts the batch. Step 2 failing for one idea only degrades
// that idea's card.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/fleveque/namesmith/internal/model"
)

// IdeaSource produces name ideas. *IdeaGenerator implements it.
type IdeaSource interface {
	Generate(ctx context.Context, input model.UserInput) ([]model.NameIdea, error)
}

// LogoSource produces one idea's logos. *LogoGenerator implements it.
type LogoSource interface {
	Generate(ctx context.Context, idea model.NameIdea, preferences string) (model.Logo, error)
}

// BatchObserver receives batch-level metrics. *metrics.Recorder implements it.
type BatchObserver interface {
	ObserveBatch(outcome string, d time.Duration)
	IncLogoFailure()
}

// Policy controls how ideas are submitted to the logo backends.
// The default submits one idea at a time to stay clear of upstream rate limits.
// Neither knob changes failure semantics or result order.
type Policy struct {
	// MaxConcurrentIdeas bounds how many ideas have logo requests in flight.
	// 1 means idea i+1 is not started until idea i's pair has settled.
	MaxConcurrentIdeas int

	// IdeasPerMinute paces idea starts. 0 disables pacing.
	IdeasPerMinute int
}

// SequentialPolicy is the default: strictly one idea at a time, no pacing.
func SequentialPolicy() Policy {
	return Policy{MaxConcurrentIdeas: 1}
}

// Orchestrator runs one batch end to end.
type Orchestrator struct {
	ideas    IdeaSource
	logos    LogoSource
	policy   Policy
	pacer    *rate.Limiter // nil when IdeasPerMinute is 0
	observer BatchObserver // may be nil
	logger   *zap.Logger
}

// NewOrchestrator creates an orchestrator. observer may be nil.
func NewOrchestrator(ideas IdeaSource, logos LogoSource, policy Policy, observer BatchObserver, logger *zap.Logger) *Orchestrator {
	if policy.MaxConcurrentIdeas < 1 {
		policy.MaxConcurrentIdeas = 1
	}

	o := &Orchestrator{
		ideas:    ideas,
		logos:    logos,
		policy:   policy,
		observer: observer,
		logger:   logger,
	}
	if policy.IdeasPerMinute > 0 {
		o.pacer = rate.NewLimiter(rate.Every(time.Minute/time.Duration(policy.IdeasPerMinute)), 1)
	}
	return o
}

// Policy returns the policy in effect.
func (o *Orchestrator) Policy() Policy { return o.policy }

// Run executes a batch. It returns an *AIGenerationError (and no results) when
// idea generation fails; otherwise it returns exactly one result per idea, in
// the order the ideas were generated.
func (o *Orchestrator) Run(ctx context.Context, input model.UserInput) ([]model.GeneratedResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	ideas, err := o.ideas.Generate(ctx, input)
	if err != nil {
		o.logger.Error("batch aborted: idea generation failed",
			zap.String("industry", input.Industry),
			zap.Error(err),
		)
		o.observeBatch("error", time.Since(start))
		return nil, err
	}

	// Each goroutine writes only its own slot, so the slice needs no lock and
	// the output order matches the idea order whatever the concurrency.
	results := make([]model.GeneratedResult, len(ideas))

	var g errgroup.Group
	g.SetLimit(o.policy.MaxConcurrentIdeas)

	for i, idea := range ideas {
		// With a limit of 1, Go blocks until the previous idea has settled.
		g.Go(func() error {
			results[i] = o.runIdea(ctx, idea, input.Preferences)
			return nil
		})
	}
	_ = g.Wait() // runIdea never returns an error

	o.observeBatch("success", time.Since(start))
	o.logger.Info("batch complete",
		zap.String("industry", input.Industry),
		zap.Int("ideas", len(ideas)),
		zap.Duration("duration", time.Since(start)),
	)
	return results, nil
}

// runIdea always yields a result: a failure becomes the placeholder card.
func (o *Orchestrator) runIdea(ctx context.Context, idea model.NameIdea, preferences string) model.GeneratedResult {
	if o.pacer != nil {
		if err := o.pacer.Wait(ctx); err != nil {
			return o.failed(idea, err)
		}
	}

	logo, err := o.logos.Generate(ctx, idea, preferences)
	if err != nil {
		return o.failed(idea, err)
	}
	return Result(idea, logo)
}

func (o *Orchestrator) failed(idea model.NameIdea, err error) model.GeneratedResult {
	o.logger.Warn("logo generation failed, using placeholder",
		zap.String("name", idea.Name),
		zap.Error(err),
	)
	if o.observer != nil {
		o.observer.IncLogoFailure()
	}
	return model.FailedResult(idea)
}

func (o *Orchestrator) observeBatch(outcome string, d time.Duration) {
	if o.observer != nil {
		o.observer.ObserveBatch(outcome, d)
	}
}
