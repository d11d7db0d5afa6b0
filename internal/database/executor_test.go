package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countTeams(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM teams").Scan(&n))
	return n
}

func TestWithTx(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()
	ctx := context.Background()

	t.Run("commits when fn succeeds", func(t *testing.T) {
		err := WithTx(ctx, db, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "INSERT INTO teams (id, name) VALUES ('a', 'Adelaide Strikers')")
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 1, countTeams(t, db))
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		boom := errors.New("boom")
		err := WithTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, "INSERT INTO teams (id, name) VALUES ('b', 'Brisbane Heat')"); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, countTeams(t, db))
	})

	t.Run("rolls back and re-panics", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = WithTx(ctx, db, func(tx *sql.Tx) error {
				_, _ = tx.ExecContext(ctx, "INSERT INTO teams (id, name) VALUES ('c', 'Hobart Hurricanes')")
				panic("unexpected")
			})
		})
		assert.Equal(t, 1, countTeams(t, db))
	})
}

func TestNullTimeRoundTrip(t *testing.T) {
	assert.False(t, NullTime(nil).Valid)
	assert.Nil(t, TimePtr(sql.NullInt64{}))

	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	got := TimePtr(NullTime(&at))
	require.NotNil(t, got)
	assert.True(t, at.Equal(*got))
}
