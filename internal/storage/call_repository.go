package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/namesmith/internal/model"
)

// CallStats summarizes the audit log for the admin endpoint and the CLI.
type CallStats struct {
	Total  int64                    `json:"total"`
	Failed int64                    `json:"failed"`
	ByKind map[model.CallKind]int64 `json:"by_kind"`
	AvgMs  float64                  `json:"avg_duration_ms"`
}

// CallRepository handles persistence of model call tracking.
// Go interfaces are implicit: any struct with these methods satisfies it,
// which lets tests swap in an in-memory fake.
type CallRepository interface {
	Create(ctx context.Context, call *model.ModelCall) error
	Count(ctx context.Context) (int64, error)
	CountByKind(ctx context.Context, kind model.CallKind) (int64, error)
	CountFailed(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int) ([]model.ModelCall, error)
	Stats(ctx context.Context) (*CallStats, error)
}

// sqliteCallRepository is the SQLite implementation of CallRepository.
// The struct is unexported: only the interface is public.
type sqliteCallRepository struct {
	db *sqlx.DB
}

// NewCallRepository creates a new SQLite-backed CallRepository.
func NewCallRepository(db *sqlx.DB) CallRepository {
	return &sqliteCallRepository{db: db}
}

func (r *sqliteCallRepository) Create(ctx context.Context, call *model.ModelCall) error {
	// NamedExecContext uses the struct's `db:` tags to map fields to :named placeholders.
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO model_calls (kind, provider, model, subject, success, duration_ms, error_message)
		VALUES (:kind, :provider, :model, :subject, :success, :duration_ms, :error_message)
	`, call)
	if err != nil {
		return fmt.Errorf("creating model call record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteCallRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM model_calls")
	return count, err
}

func (r *sqliteCallRepository) CountByKind(ctx context.Context, kind model.CallKind) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM model_calls WHERE kind = ?", kind)
	return count, err
}

func (r *sqliteCallRepository) CountFailed(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM model_calls WHERE success = 0")
	return count, err
}

func (r *sqliteCallRepository) Recent(ctx context.Context, limit int) ([]model.ModelCall, error) {
	var calls []model.ModelCall
	err := r.db.SelectContext(ctx, &calls,
		"SELECT * FROM model_calls ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent model calls: %w", err)
	}
	return calls, nil
}

func (r *sqliteCallRepository) Stats(ctx context.Context) (*CallStats, error) {
	stats := &CallStats{ByKind: make(map[model.CallKind]int64)}

	var err error
	if stats.Total, err = r.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting calls: %w", err)
	}
	if stats.Failed, err = r.CountFailed(ctx); err != nil {
		return nil, fmt.Errorf("counting failed calls: %w", err)
	}
	for _, kind := range model.AllCallKinds {
		n, err := r.CountByKind(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("counting %s calls: %w", kind, err)
		}
		stats.ByKind[kind] = n
	}

	// AVG over zero rows is NULL; COALESCE keeps the scan target a plain float.
	if err := r.db.GetContext(ctx, &stats.AvgMs,
		"SELECT COALESCE(AVG(duration_ms), 0) FROM model_calls"); err != nil {
		return nil, fmt.Errorf("averaging durations: %w", err)
	}
	return stats, nil
}
