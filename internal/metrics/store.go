package metrics

import (
	"database/sql"
	"sync"

	"github.com/charmbracelet/log"
)

// store keeps lifetime counters in the database so they survive restarts.
type store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new metrics Store.
func New(db *sql.DB) MetricsStore {
	return &store{
		db: db,
	}
}

// Increment upserts a counter key and increments its value by one.
// Failures are logged and swallowed; counters are best effort.
func (s *store) Increment(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO metrics (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1`, key)
	if err != nil {
		log.Error("Failed to increment metric", "error", err, "key", key)
		return
	}
	log.Debug("Incremented metric", "key", key)
}

// GetAll returns all counters.
func (s *store) GetAll() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT key, value FROM metrics")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metrics := make(map[string]int)
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metrics[key] = value
	}
	return metrics, rows.Err()
}
