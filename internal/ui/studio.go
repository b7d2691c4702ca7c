package ui

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/namesmith/internal/model"
)

// BatchRunner runs one batch. *service.Orchestrator implements it.
type BatchRunner interface {
	Run(ctx context.Context, input model.UserInput) ([]model.GeneratedResult, error)
}

// Studio submits batches on behalf of sessions. Each batch runs on its own
// goroutine, detached from the HTTP request that started it, and reports back
// into the session's State when it finishes.
type Studio struct {
	runner   BatchRunner
	sessions *SessionStore
	timeout  time.Duration
	logger   *zap.Logger

	wg sync.WaitGroup
}

// NewStudio creates a studio. timeout bounds each batch; 0 means no limit.
func NewStudio(runner BatchRunner, sessions *SessionStore, timeout time.Duration, logger *zap.Logger) *Studio {
	return &Studio{
		runner:   runner,
		sessions: sessions,
		timeout:  timeout,
		logger:   logger,
	}
}

// Sessions returns the session store.
func (s *Studio) Sessions() *SessionStore { return s.sessions }

// Submit validates input, moves state to loading and starts the batch.
// Invalid input returns an error and leaves state untouched.
func (s *Studio) Submit(state *State, input model.UserInput) error {
	ticket, err := state.Submit(input)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(state, ticket, input)
	}()
	return nil
}

func (s *Studio) run(state *State, ticket Ticket, input model.UserInput) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	results, err := s.runner.Run(ctx, input)

	var applied bool
	if err != nil {
		applied = state.Reject(ticket, err)
	} else {
		applied = state.Resolve(ticket, results)
	}
	if !applied {
		s.logger.Debug("discarding superseded batch outcome",
			zap.Uint64("ticket", uint64(ticket)),
			zap.String("industry", input.Industry),
		)
	}
}

// Wait blocks until every running batch has finished or ctx is done.
func (s *Studio) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
