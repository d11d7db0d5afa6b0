package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mauv0809/wicketkeeper/internal/database"
)

// ChangeLogEntry is one append-only audit record. Entries are never updated or deleted.
type ChangeLogEntry struct {
	ID               string          `json:"id"`
	TournamentID     string          `json:"tournament_id"`
	StageID          *string         `json:"stage_id,omitempty"`
	FixtureVersionID *string         `json:"fixture_version_id,omitempty"`
	FixtureRoundID   *string         `json:"fixture_round_id,omitempty"`
	Action           Action          `json:"action"`
	Reason           *string         `json:"reason,omitempty"`
	Payload          json.RawMessage `json:"payload"`
	CreatedAt        time.Time       `json:"created_at"`
}

// writeChangeLog appends entry with the given payload through exec, normally the caller's transaction.
// ID, Action and Payload are filled in from payload.
func writeChangeLog(ctx context.Context, exec database.Executor, entry *ChangeLogEntry, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode change log payload: %w", err)
	}
	entry.ID = newID()
	entry.Action = payload.Action()
	entry.Payload = body

	_, err = exec.ExecContext(ctx, `
		INSERT INTO fixture_change_logs (
			id, tournament_id, stage_id, fixture_version_id, fixture_round_id, action, reason, payload_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.TournamentID, entry.StageID, entry.FixtureVersionID, entry.FixtureRoundID,
		string(entry.Action), entry.Reason, string(body), entry.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write change log: %w", err)
	}
	return nil
}
