// Package store journals scrape runs and failed listings so batches can be
// audited after the fact. It never stores listing content; the workbook is
// the output of record.
package store

import (
	"context"

	"github.com/sells-group/housekg-scraper/internal/model"
)

// Store records run lifecycles and per-listing failures.
type Store interface {
	Migrate(ctx context.Context) error
	CreateRun(ctx context.Context, startPage, endPage int) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, listings, failures int) error
	FailRun(ctx context.Context, runID, reason string, listings, failures int) error
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
	RecordFailure(ctx context.Context, runID, url, reason string) error
	ListFailures(ctx context.Context, runID string) ([]model.Failure, error)
	Close() error
}

// Noop is the journal used when store.driver is "none".
type Noop struct{}

func (Noop) Migrate(context.Context) error { return nil }

func (Noop) CreateRun(context.Context, int, int) (*model.Run, error) {
	return &model.Run{ID: "", Status: model.RunStatusRunning}, nil
}

func (Noop) CompleteRun(context.Context, string, int, int) error { return nil }

func (Noop) FailRun(context.Context, string, string, int, int) error { return nil }

func (Noop) ListRuns(context.Context, int) ([]model.Run, error) { return nil, nil }

func (Noop) RecordFailure(context.Context, string, string, string) error { return nil }

func (Noop) ListFailures(context.Context, string) ([]model.Failure, error) { return nil, nil }

func (Noop) Close() error { return nil }
