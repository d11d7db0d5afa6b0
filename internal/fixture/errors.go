package fixture

import (
	"errors"
	"fmt"
)

// Kind tags every business-rule failure of the engine.
type Kind string

const (
	KindTournamentNotFound        Kind = "TOURNAMENT_NOT_FOUND"
	KindStageNotFound             Kind = "STAGE_NOT_FOUND"
	KindStageGroupNotFound        Kind = "STAGE_GROUP_NOT_FOUND"
	KindVersionNotFound           Kind = "FIXTURE_VERSION_NOT_FOUND"
	KindVersionNotDraft           Kind = "FIXTURE_VERSION_NOT_DRAFT"
	KindVersionEmpty              Kind = "FIXTURE_VERSION_EMPTY"
	KindVersionTournamentMismatch Kind = "FIXTURE_VERSION_TOURNAMENT_MISMATCH"
	KindRoundAlreadyExists        Kind = "ROUND_ALREADY_EXISTS"
	KindInvalidScheduleWindow     Kind = "INVALID_SCHEDULE_WINDOW"
	KindMatchNotFound             Kind = "MATCH_NOT_FOUND"
	KindMatchAlreadyAttached      Kind = "MATCH_ALREADY_ATTACHED"
	KindMatchTournamentMismatch   Kind = "MATCH_TOURNAMENT_MISMATCH"
)

// Error is the single tagged error type returned for precondition failures.
// Storage failures are plain wrapped errors and carry no Kind.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the tag of err, or "" when err is not a tagged engine error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// IsKind reports whether err is a tagged engine error of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
