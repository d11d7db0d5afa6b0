package fixture

import "time"

// Guards are pure precondition checks. They return nil when the operation may proceed.

// checkWindow rejects an explicit window whose start is not strictly before its end.
func checkWindow(start, end *time.Time) error {
	if start == nil || end == nil {
		return nil
	}
	if !start.Before(*end) {
		return newError(KindInvalidScheduleWindow, "start %s must be before end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

// PublishCheck carries what CanPublish needs to know about a version.
type PublishCheck struct {
	TournamentID  string
	VersionID     string
	Version       *FixtureVersion
	LinkedMatches int
}

// CanPublish evaluates the publish preconditions in order:
// the version exists in the tournament, it is still a draft, and it has matches.
func CanPublish(c PublishCheck) error {
	if c.Version == nil || c.Version.TournamentID != c.TournamentID {
		return newError(KindVersionNotFound, "fixture version %s not found in tournament %s", c.VersionID, c.TournamentID)
	}
	if c.Version.Status != VersionStatusDraft {
		return newError(KindVersionNotDraft, "fixture version %d is %s", c.Version.VersionNumber, c.Version.Status)
	}
	if c.LinkedMatches == 0 {
		return newError(KindVersionEmpty, "fixture version %d has no matches", c.Version.VersionNumber)
	}
	return nil
}

// CanOwnRound checks that version may own a round placed in the given tournament and stage.
func CanOwnRound(version FixtureVersion, tournamentID, stageID string) error {
	if version.TournamentID != tournamentID {
		return newError(KindVersionTournamentMismatch, "fixture version %s belongs to another tournament", version.ID)
	}
	if version.StageID != nil && *version.StageID != stageID {
		return newError(KindVersionTournamentMismatch, "fixture version %s is scoped to stage %s", version.ID, *version.StageID)
	}
	return nil
}

// AttachCheck carries what CanAttach needs to know about a version and a match.
type AttachCheck struct {
	TournamentID    string
	Version         FixtureVersion
	MatchID         string
	MatchTournament string
	MatchStageID    *string
	AlreadyAttached bool
}

// CanAttach evaluates whether a match may be added to a version.
func CanAttach(c AttachCheck) error {
	if c.Version.TournamentID != c.TournamentID {
		return newError(KindVersionNotFound, "fixture version %s not found in tournament %s", c.Version.ID, c.TournamentID)
	}
	if c.Version.Status != VersionStatusDraft {
		return newError(KindVersionNotDraft, "fixture version %d is %s", c.Version.VersionNumber, c.Version.Status)
	}
	if c.MatchTournament != c.TournamentID {
		return newError(KindMatchTournamentMismatch, "match %s belongs to another tournament", c.MatchID)
	}
	if c.Version.StageID != nil && (c.MatchStageID == nil || *c.MatchStageID != *c.Version.StageID) {
		return newError(KindMatchTournamentMismatch, "match %s is outside stage %s", c.MatchID, *c.Version.StageID)
	}
	if c.AlreadyAttached {
		return newError(KindMatchAlreadyAttached, "match %s is already in fixture version %d", c.MatchID, c.Version.VersionNumber)
	}
	return nil
}
