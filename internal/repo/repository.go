package repo

import (
	"context"

	"github.com/hamed0406/readywait/internal/domain"
)

// ReportStore keeps recently completed wait reports so operators can ask the
// serve-mode API what happened. Stores are memory-only: the prober itself
// holds no persisted state.
type ReportStore interface {
	Append(ctx context.Context, r *domain.WaitReport) error
	Recent(ctx context.Context, n int) ([]*domain.WaitReport, error)
}
