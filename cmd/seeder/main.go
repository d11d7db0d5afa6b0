package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/wicketkeeper/internal/database"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{"DB_NAME": "wicketkeeper.db"}
	for _, key := range []string{"DB_NAME", "TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"} {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			config[key] = value
		}
	}
	return config
}

// roundRobin returns every pairing of the given teams once.
func roundRobin(teams []*tournament.Team) [][2]*tournament.Team {
	var pairs [][2]*tournament.Team
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			pairs = append(pairs, [2]*tournament.Team{teams[i], teams[j]})
		}
	}
	return pairs
}

func must(err error, what string) {
	if err != nil {
		log.Fatalf("Failed to %s: %s", what, err)
	}
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()
	ctx := context.Background()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()
	store := tournament.New(db)

	startTime := time.Now()
	opening := time.Date(startTime.Year(), startTime.Month(), startTime.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 14)
	closing := opening.AddDate(0, 0, 10)

	cup := &tournament.Tournament{Name: "Seeder Cup", StartDate: &opening, EndDate: &closing}
	must(store.CreateTournament(ctx, cup), "create tournament")

	league := &tournament.Stage{TournamentID: cup.ID, Name: "Group Stage", StageType: tournament.StageTypeLeague, Sequence: 1}
	must(store.CreateStage(ctx, league), "create group stage")
	knockout := &tournament.Stage{TournamentID: cup.ID, Name: "Knockouts", StageType: tournament.StageTypeKnockout, Sequence: 2}
	must(store.CreateStage(ctx, knockout), "create knockout stage")

	venues := []*tournament.Venue{
		{Name: "Seeded Oval", City: "Northport"},
		{Name: "Seeded Park", City: "Southbay"},
	}
	for _, v := range venues {
		must(store.CreateVenue(ctx, v), "create venue")
	}

	var groups []*tournament.StageGroup
	var matchCount int
	for g, groupName := range []string{"A", "B"} {
		group := &tournament.StageGroup{StageID: league.ID, Name: "Group " + groupName, Sequence: g + 1}
		must(store.CreateStageGroup(ctx, group), "create stage group")
		groups = append(groups, group)

		var teams []*tournament.Team
		for i := 1; i <= 4; i++ {
			team := &tournament.Team{Name: fmt.Sprintf("Seeder %s%d", groupName, i), ShortName: fmt.Sprintf("S%s%d", groupName, i)}
			must(store.CreateTeam(ctx, team), "create team")
			teams = append(teams, team)
		}

		// Two matches a day per group, each group on its own ground.
		for i, pair := range roundRobin(teams) {
			day := opening.AddDate(0, 0, i/2)
			start := day.Add(time.Duration(10+(i%2)*4) * time.Hour)
			end := start.Add(3*time.Hour + 30*time.Minute)
			stageRound := i/2 + 1
			sequence := i + 1
			match := &tournament.Match{
				TournamentID:     cup.ID,
				StageID:          &league.ID,
				StageGroupID:     &group.ID,
				StageRound:       &stageRound,
				StageSequence:    &sequence,
				MatchDate:        &day,
				ScheduledStartAt: &start,
				ScheduledEndAt:   &end,
				VenueID:          &venues[g].ID,
				HomeTeamID:       &pair[0].ID,
				AwayTeamID:       &pair[1].ID,
			}
			must(store.CreateMatch(ctx, match), "create group match")
			matchCount++
		}
	}
	log.Info("Seeded group stage", "groups", len(groups), "matches", matchCount)

	// Semi finals: winner of one group against the runner-up of the other.
	semiDay := opening.AddDate(0, 0, 5)
	for i := 0; i < 2; i++ {
		start := semiDay.Add(time.Duration(10+i*4) * time.Hour)
		sequence := i + 1
		semi := &tournament.Match{
			TournamentID:     cup.ID,
			StageID:          &knockout.ID,
			StageSequence:    &sequence,
			MatchDate:        &semiDay,
			ScheduledStartAt: &start,
			VenueID:          &venues[0].ID,
		}
		must(store.CreateMatch(ctx, semi), "create semi final")
		winner, runnerUp := 1, 2
		must(store.SetParticipantSource(ctx, tournament.ParticipantSource{
			MatchID:        semi.ID,
			Slot:           tournament.SlotHome,
			SourceType:     tournament.SourceTypeGroupPosition,
			SourceStageID:  &league.ID,
			SourceGroupID:  &groups[i].ID,
			SourcePosition: &winner,
		}), "set home source")
		must(store.SetParticipantSource(ctx, tournament.ParticipantSource{
			MatchID:        semi.ID,
			Slot:           tournament.SlotAway,
			SourceType:     tournament.SourceTypeGroupPosition,
			SourceStageID:  &league.ID,
			SourceGroupID:  &groups[1-i].ID,
			SourcePosition: &runnerUp,
		}), "set away source")
		matchCount++
	}

	finalDay := opening.AddDate(0, 0, 7)
	finalStart := finalDay.Add(13 * time.Hour)
	finalSequence := 3
	final := &tournament.Match{
		TournamentID:     cup.ID,
		StageID:          &knockout.ID,
		StageSequence:    &finalSequence,
		MatchDate:        &finalDay,
		ScheduledStartAt: &finalStart,
		VenueID:          &venues[0].ID,
	}
	must(store.CreateMatch(ctx, final), "create final")
	matchCount++

	log.Info("Successfully seeded demo tournament.", "tournament_id", cup.ID, "matches", matchCount, "duration", time.Since(startTime))
}
