package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/wicketkeeper/internal/fixture"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
)

type conflictsRequest struct {
	ScheduledStartAt *time.Time `json:"scheduled_start_at" validate:"required"`
	ScheduledEndAt   *time.Time `json:"scheduled_end_at"`
	TeamIDs          []string   `json:"team_ids" validate:"omitempty,dive,required"`
	VenueID          *string    `json:"venue_id" validate:"omitempty,min=1"`
	StageID          *string    `json:"stage_id" validate:"omitempty,min=1"`
	ExcludeMatchID   *string    `json:"exclude_match_id" validate:"omitempty,min=1"`
}

type rescheduleRequest struct {
	MatchDate        *time.Time `json:"match_date"`
	ScheduledStartAt *time.Time `json:"scheduled_start_at" validate:"required"`
	ScheduledEndAt   *time.Time `json:"scheduled_end_at"`
	VenueID          *string    `json:"venue_id" validate:"omitempty,min=1"`
}

type rescheduleResponse struct {
	Match     *tournament.Match       `json:"match"`
	Conflicts *fixture.ConflictReport `json:"conflicts"`
	Forced    bool                    `json:"forced"`
}

func ValidateConflictsHandler(svc fixture.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req conflictsRequest
		if err := readJSON(w, r, &req); err != nil {
			badRequest(w, err)
			return
		}
		report, err := svc.ValidateConflicts(r.Context(), fixture.ValidateConflictsInput{
			TournamentID:     chi.URLParam(r, "tournamentID"),
			ScheduledStartAt: *req.ScheduledStartAt,
			ScheduledEndAt:   req.ScheduledEndAt,
			TeamIDs:          req.TeamIDs,
			VenueID:          req.VenueID,
			StageID:          req.StageID,
			ExcludeMatchID:   req.ExcludeMatchID,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// RescheduleMatchHandler moves a match after checking the new window against the rest of the
// tournament. Conflicts block the move with 409 unless force=true is given.
func RescheduleMatchHandler(svc fixture.Service, store tournament.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tournamentID := chi.URLParam(r, "tournamentID")
		matchID := chi.URLParam(r, "matchID")
		force := r.URL.Query().Get("force") == "true"

		var req rescheduleRequest
		if err := readJSON(w, r, &req); err != nil {
			badRequest(w, err)
			return
		}

		match, err := store.GetMatch(r.Context(), matchID)
		if err != nil {
			writeError(w, err)
			return
		}
		if match.TournamentID != tournamentID {
			writeError(w, &fixture.Error{
				Kind:    fixture.KindMatchTournamentMismatch,
				Message: fmt.Sprintf("match %s does not belong to tournament %s", matchID, tournamentID),
			})
			return
		}

		venueID := req.VenueID
		if venueID == nil {
			venueID = match.VenueID
		}
		report, err := svc.ValidateConflicts(r.Context(), fixture.ValidateConflictsInput{
			TournamentID:     tournamentID,
			ScheduledStartAt: *req.ScheduledStartAt,
			ScheduledEndAt:   req.ScheduledEndAt,
			TeamIDs:          match.TeamIDs(),
			VenueID:          venueID,
			ExcludeMatchID:   &match.ID,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		if report.HasConflicts && !force {
			log.Warn("Reschedule blocked by conflicts", "match_id", matchID, "conflicts", len(report.Conflicts))
			writeJSON(w, http.StatusConflict, rescheduleResponse{Match: match, Conflicts: report})
			return
		}

		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would have rescheduled match", "match_id", matchID, "start", req.ScheduledStartAt)
			writeJSON(w, http.StatusOK, rescheduleResponse{Match: match, Conflicts: report, Forced: force && report.HasConflicts})
			return
		}
		if err := store.UpdateMatchSchedule(r.Context(), matchID, tournament.MatchSchedule{
			MatchDate:        req.MatchDate,
			ScheduledStartAt: *req.ScheduledStartAt,
			ScheduledEndAt:   req.ScheduledEndAt,
			VenueID:          venueID,
		}); err != nil {
			writeError(w, err)
			return
		}
		updated, err := store.GetMatch(r.Context(), matchID)
		if err != nil {
			writeError(w, err)
			return
		}
		if report.HasConflicts {
			log.Warn("Match rescheduled over conflicts", "match_id", matchID, "conflicts", len(report.Conflicts))
		}
		writeJSON(w, http.StatusOK, rescheduleResponse{Match: updated, Conflicts: report, Forced: force && report.HasConflicts})
	}
}
