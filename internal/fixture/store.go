package fixture

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/mauv0809/wicketkeeper/internal/metrics"
)

// Option configures the fixture service.
type Option func(*service)

// WithClock replaces the time source used for created/published/archived timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates the fixture Service on top of db.
func New(db *sql.DB, m metrics.Metrics, opts ...Option) Service {
	s := &service{
		db:      db,
		metrics: m,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp returns "now" at the resolution the store keeps.
func (s *service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func newID() string {
	return uuid.New().String()
}

func unixUTC(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
