package repositories

import (
	"context"

	"storefront/internal/database"
	"storefront/internal/metrics"
)

// UnitOfWork flushes everything staged during one request in a single commit.
type UnitOfWork interface {
	Commit(ctx context.Context) (bool, error)
}

// SessionUnitOfWork commits the session bound to the request context.
type SessionUnitOfWork struct{}

// NewUnitOfWork creates a SessionUnitOfWork.
func NewUnitOfWork() *SessionUnitOfWork {
	return &SessionUnitOfWork{}
}

// Commit reports whether at least one row was affected. There is no retry.
func (u *SessionUnitOfWork) Commit(ctx context.Context) (bool, error) {
	s, ok := database.FromContext(ctx)
	if !ok {
		return false, database.ErrNoSession
	}
	changed, err := s.Commit(ctx)
	switch {
	case err != nil:
		metrics.CommitsTotal.WithLabelValues("error").Inc()
	case changed:
		metrics.CommitsTotal.WithLabelValues("changed").Inc()
	default:
		metrics.CommitsTotal.WithLabelValues("noop").Inc()
	}
	return changed, err
}
