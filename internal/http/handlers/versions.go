package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/wicketkeeper/internal/fixture"
)

type createDraftRequest struct {
	StageID               *string           `json:"stage_id" validate:"omitempty,min=1"`
	Label                 *string           `json:"label" validate:"omitempty,max=200"`
	Metadata              *fixture.Metadata `json:"metadata"`
	IncludeCurrentMatches *bool             `json:"include_current_matches"`
}

type attachMatchRequest struct {
	MatchID string `json:"match_id" validate:"required"`
}

type publishRequest struct {
	Note *string `json:"note" validate:"omitempty,max=500"`
}

func CreateDraftHandler(svc fixture.Service, proc EventProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createDraftRequest
		if err := readJSON(w, r, &req); err != nil {
			badRequest(w, err)
			return
		}
		res, err := svc.CreateDraft(r.Context(), fixture.CreateDraftInput{
			TournamentID:          chi.URLParam(r, "tournamentID"),
			StageID:               req.StageID,
			Label:                 req.Label,
			Metadata:              req.Metadata,
			IncludeCurrentMatches: req.IncludeCurrentMatches,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		proc.DraftCreated(backgroundContext(r), res, IsDryRunFromContext(r))
		writeJSON(w, http.StatusCreated, res)
	}
}

func ListVersionsHandler(svc fixture.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		versions, err := svc.ListVersions(r.Context(), chi.URLParam(r, "tournamentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, versions)
	}
}

func ActiveVersionHandler(svc fixture.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version, err := svc.ActiveVersion(r.Context(), chi.URLParam(r, "tournamentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, version)
	}
}

func GetVersionHandler(svc fixture.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version, ok := versionInTournament(w, r, svc)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, version)
	}
}

func ListVersionMatchesHandler(svc fixture.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version, ok := versionInTournament(w, r, svc)
		if !ok {
			return
		}
		matches, err := svc.ListVersionMatches(r.Context(), version.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func AttachMatchHandler(svc fixture.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req attachMatchRequest
		if err := readJSON(w, r, &req); err != nil {
			badRequest(w, err)
			return
		}
		link, err := svc.AttachMatch(r.Context(), chi.URLParam(r, "tournamentID"), chi.URLParam(r, "versionID"), req.MatchID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, link)
	}
}

func PublishHandler(svc fixture.Service, proc EventProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req publishRequest
		if r.ContentLength != 0 {
			if err := readJSON(w, r, &req); err != nil {
				badRequest(w, err)
				return
			}
		}
		res, err := svc.Publish(r.Context(), chi.URLParam(r, "tournamentID"), chi.URLParam(r, "versionID"), req.Note)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := proc.VersionPublished(backgroundContext(r), res, IsDryRunFromContext(r)); err != nil {
			log.Warn("Fixture published but fan-out was incomplete", "error", err, "version_id", res.VersionID)
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// versionInTournament loads the version in the path and hides versions of other tournaments.
func versionInTournament(w http.ResponseWriter, r *http.Request, svc fixture.Service) (*fixture.FixtureVersion, bool) {
	tournamentID := chi.URLParam(r, "tournamentID")
	version, err := svc.GetVersion(r.Context(), chi.URLParam(r, "versionID"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	if version.TournamentID != tournamentID {
		writeError(w, &fixture.Error{Kind: fixture.KindVersionNotFound, Message: "fixture version " + version.ID + " not found in tournament " + tournamentID})
		return nil, false
	}
	return version, true
}
