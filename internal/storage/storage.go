// Package storage defines the persistence interface for validation run history.
package storage

import (
	"context"

	"github.com/hyperjump/tadasu/internal/report"
)

// Storage defines run-history persistence operations.
type Storage interface {
	// CreateRun stores a run together with its findings.
	CreateRun(ctx context.Context, run *report.Run) error
	// GetRun returns a run by ID, findings included.
	GetRun(ctx context.Context, id string) (*report.Run, error)
	// ListRuns returns runs newest-first, without findings.
	ListRuns(ctx context.Context, offset, limit int) ([]*report.Run, error)
	// CountRuns returns the total number of stored runs.
	CountRuns(ctx context.Context) (int64, error)

	Close() error
}
