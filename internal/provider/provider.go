// Package provider wraps the raw llm clients with the concerns every model call
// shares: pacing, the audit log, metrics and logging. The wrappers satisfy the
// same llm interfaces, so the service layer never knows they are there.
package provider

import (
	"context"
	"time"
)

// CallObserver receives timing for each completed call and each limiter wait.
// *metrics.Recorder implements it.
type CallObserver interface {
	ObserveCall(kind, provider, model string, success bool, d time.Duration)
	ObserveThrottle(limiter string, d time.Duration)
}

type subjectKey struct{}

// WithSubject tags the context with what a call is about (an industry, a
// business name). The subject lands in the audit log next to the call.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// SubjectFrom returns the subject set by WithSubject, or "".
func SubjectFrom(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey{}).(string)
	return s
}
