package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/mauv0809/wicketkeeper/internal/fixture"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

// EventProcessor fans committed fixture changes out to Slack and Pub/Sub.
type EventProcessor interface {
	DraftCreated(ctx context.Context, res *fixture.DraftResult, dryRun bool)
	RoundCreated(ctx context.Context, round *fixture.FixtureRound, dryRun bool)
	VersionPublished(ctx context.Context, res *fixture.PublishResult, dryRun bool) error
}

const maxBodyBytes = 1_048_576

var validate = validator.New()

type errorBody struct {
	Error string       `json:"error"`
	Kind  fixture.Kind `json:"kind,omitempty"`
}

// readJSON decodes a single JSON value into dst and validates it.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var typeError *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &typeError):
			return fmt.Errorf("body contains incorrect JSON type for field %q", typeError.Field)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return fmt.Errorf("body contains unknown key %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
		default:
			return err
		}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return validateRequest(dst)
}

func validateRequest(payload any) error {
	if err := validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("validation failed: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Failed to encode response to JSON", "error", err)
	}
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
}

// writeError maps an engine or store error to its HTTP status.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
		writeJSON(w, status, errorBody{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Kind: fixture.KindOf(err)})
}

func statusFor(err error) int {
	switch fixture.KindOf(err) {
	case fixture.KindTournamentNotFound, fixture.KindStageNotFound, fixture.KindStageGroupNotFound,
		fixture.KindVersionNotFound, fixture.KindMatchNotFound:
		return http.StatusNotFound
	case fixture.KindVersionNotDraft, fixture.KindRoundAlreadyExists, fixture.KindMatchAlreadyAttached:
		return http.StatusConflict
	case fixture.KindVersionEmpty:
		return http.StatusUnprocessableEntity
	case fixture.KindVersionTournamentMismatch, fixture.KindMatchTournamentMismatch, fixture.KindInvalidScheduleWindow:
		return http.StatusBadRequest
	}
	switch {
	case errors.Is(err, tournament.ErrTournamentNotFound), errors.Is(err, tournament.ErrStageNotFound),
		errors.Is(err, tournament.ErrStageGroupNotFound), errors.Is(err, tournament.ErrMatchNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// backgroundContext keeps request values but survives the request being cancelled,
// so post-commit fan-out is not cut short by a client disconnect.
func backgroundContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}
