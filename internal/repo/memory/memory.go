package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hamed0406/readywait/internal/domain"
)

// maxReports bounds the store; older reports fall off the front.
const maxReports = 256

type Store struct {
	mu      sync.RWMutex
	reports []*domain.WaitReport
}

func New() *Store {
	return &Store{
		reports: make([]*domain.WaitReport, 0, 64),
	}
}

func (m *Store) Append(ctx context.Context, r *domain.WaitReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = domain.ReportID(time.Now().UTC().Format("20060102T150405.000000000"))
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now().UTC()
	}
	m.reports = append(m.reports, r)
	if len(m.reports) > maxReports {
		m.reports = m.reports[len(m.reports)-maxReports:]
	}
	return nil
}

// Recent returns up to n reports, newest first.
func (m *Store) Recent(ctx context.Context, n int) ([]*domain.WaitReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n <= 0 || n > len(m.reports) {
		n = len(m.reports)
	}
	out := make([]*domain.WaitReport, 0, n)
	for i := len(m.reports) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.reports[i])
	}
	return out, nil
}
