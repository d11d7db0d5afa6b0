package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/wicketkeeper/internal/fixture"
)

type createRoundRequest struct {
	StageID          string            `json:"stage_id" validate:"required"`
	RoundNumber      int               `json:"round_number" validate:"required,gt=0"`
	StageGroupID     *string           `json:"stage_group_id" validate:"omitempty,min=1"`
	FixtureVersionID *string           `json:"fixture_version_id" validate:"omitempty,min=1"`
	ScheduledStartAt *time.Time        `json:"scheduled_start_at"`
	ScheduledEndAt   *time.Time        `json:"scheduled_end_at"`
	Name             *string           `json:"name" validate:"omitempty,max=100"`
	PairingMethod    string            `json:"pairing_method" validate:"omitempty,max=50"`
	Metadata         *fixture.Metadata `json:"metadata"`
}

func CreateRoundHandler(svc fixture.Service, proc EventProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRoundRequest
		if err := readJSON(w, r, &req); err != nil {
			badRequest(w, err)
			return
		}
		round, err := svc.CreateRound(r.Context(), fixture.CreateRoundInput{
			TournamentID:     chi.URLParam(r, "tournamentID"),
			StageID:          req.StageID,
			RoundNumber:      req.RoundNumber,
			StageGroupID:     req.StageGroupID,
			FixtureVersionID: req.FixtureVersionID,
			ScheduledStartAt: req.ScheduledStartAt,
			ScheduledEndAt:   req.ScheduledEndAt,
			Name:             req.Name,
			PairingMethod:    req.PairingMethod,
			Metadata:         req.Metadata,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		proc.RoundCreated(backgroundContext(r), round, IsDryRunFromContext(r))
		writeJSON(w, http.StatusCreated, round)
	}
}

func ListRoundsHandler(svc fixture.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var stageID *string
		if v := r.URL.Query().Get("stage_id"); v != "" {
			stageID = &v
		}
		rounds, err := svc.ListRounds(r.Context(), chi.URLParam(r, "tournamentID"), stageID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rounds)
	}
}

func ListChangesHandler(svc fixture.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.ListChangeLog(r.Context(), chi.URLParam(r, "tournamentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
