package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/wicketkeeper/internal/fixture"
	"github.com/mauv0809/wicketkeeper/internal/notifier"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// FixturesCommandHandler answers `/fixtures <tournament id>` with the active fixture of the tournament.
func FixturesCommandHandler(store tournament.Store, svc fixture.Service, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		tournamentID := strings.TrimSpace(cmd.Text)
		if tournamentID == "" {
			http.Error(w, "Tournament id is required.", http.StatusBadRequest)
			return
		}
		log.Info("Received fixtures command", "tournament_id", tournamentID, "user", cmd.UserName)

		t, err := store.GetTournament(r.Context(), tournamentID)
		if errors.Is(err, tournament.ErrTournamentNotFound) {
			respondNoActiveFixture(w, notifier, tournamentID)
			return
		}
		if err != nil {
			http.Error(w, "Failed to get tournament", http.StatusInternalServerError)
			log.Error("Failed to get tournament", "error", err)
			return
		}

		version, err := svc.ActiveVersion(r.Context(), tournamentID)
		if fixture.IsKind(err, fixture.KindVersionNotFound) {
			respondNoActiveFixture(w, notifier, tournamentID)
			return
		}
		if err != nil {
			http.Error(w, "Failed to get active fixture", http.StatusInternalServerError)
			log.Error("Failed to get active fixture version", "error", err)
			return
		}
		matches, err := svc.ListVersionMatches(r.Context(), version.ID)
		if err != nil {
			http.Error(w, "Failed to get fixture matches", http.StatusInternalServerError)
			log.Error("Failed to list fixture version matches", "error", err)
			return
		}

		msg, err := notifier.FormatActiveFixtureResponse(t.Name, version, matches)
		if err != nil {
			http.Error(w, "Failed to format fixture", http.StatusInternalServerError)
			log.Error("Failed to format active fixture", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

func respondNoActiveFixture(w http.ResponseWriter, notifier notifier.Notifier, tournamentID string) {
	msg, err := notifier.FormatNoActiveFixtureResponse(tournamentID)
	if err != nil {
		http.Error(w, "Failed to format fixture", http.StatusInternalServerError)
		log.Error("Failed to format no-fixture response", "error", err)
		return
	}
	respondWithSlackMsg(w, msg)
}
