package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"
)

var (
	dryRun bool

	draftStage   string
	draftLabel   string
	draftInclude bool

	roundStage   string
	roundGroup   string
	roundVersion string
	roundNumber  int
	roundName    string
	roundStart   string
	roundEnd     string

	conflictStart   string
	conflictEnd     string
	conflictTeams   []string
	conflictVenue   string
	conflictStage   string
	conflictExclude string

	publishNote string
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Ask the server not to send notifications or events")

	draftCmd.Flags().StringVar(&draftStage, "stage", "", "Scope the draft to a stage")
	draftCmd.Flags().StringVar(&draftLabel, "label", "", "Label for the draft")
	draftCmd.Flags().BoolVar(&draftInclude, "include-current", true, "Seed the draft with the current matches (--include-current=false for an empty draft)")

	roundCmd.Flags().StringVar(&roundStage, "stage", "", "Stage the round belongs to")
	roundCmd.Flags().StringVar(&roundGroup, "group", "", "Stage group of the round")
	roundCmd.Flags().StringVar(&roundVersion, "version", "", "Fixture version that owns the round")
	roundCmd.Flags().IntVar(&roundNumber, "number", 0, "Round number")
	roundCmd.Flags().StringVar(&roundName, "name", "", "Round name (defaults to 'Round <n>')")
	roundCmd.Flags().StringVar(&roundStart, "start", "", "Scheduled start (RFC3339)")
	roundCmd.Flags().StringVar(&roundEnd, "end", "", "Scheduled end (RFC3339)")
	_ = roundCmd.MarkFlagRequired("stage")
	_ = roundCmd.MarkFlagRequired("number")

	conflictsCmd.Flags().StringVar(&conflictStart, "start", "", "Proposed start (RFC3339)")
	conflictsCmd.Flags().StringVar(&conflictEnd, "end", "", "Proposed end (RFC3339), defaults to start + 3h")
	conflictsCmd.Flags().StringSliceVar(&conflictTeams, "team", nil, "Team id to check, repeatable")
	conflictsCmd.Flags().StringVar(&conflictVenue, "venue", "", "Venue id to check")
	conflictsCmd.Flags().StringVar(&conflictStage, "stage", "", "Only compare against matches of this stage")
	conflictsCmd.Flags().StringVar(&conflictExclude, "exclude", "", "Match id to leave out of the comparison")
	_ = conflictsCmd.MarkFlagRequired("start")

	publishCmd.Flags().StringVar(&publishNote, "note", "", "Note recorded with the publish")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(roundCmd)
	rootCmd.AddCommand(conflictsCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(changesCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the lifetime fixture counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/stats", nil)
	},
}

var draftCmd = &cobra.Command{
	Use:   "draft <tournament-id>",
	Short: "Create a new draft fixture version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"include_current_matches": draftInclude}
		setIfNotEmpty(body, "stage_id", draftStage)
		setIfNotEmpty(body, "label", draftLabel)
		return performRequest(http.MethodPost, tournamentPath(args[0], "/fixture-versions"), body)
	},
}

var roundCmd = &cobra.Command{
	Use:   "round <tournament-id>",
	Short: "Create a fixture round in a stage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"stage_id": roundStage, "round_number": roundNumber}
		setIfNotEmpty(body, "stage_group_id", roundGroup)
		setIfNotEmpty(body, "fixture_version_id", roundVersion)
		setIfNotEmpty(body, "name", roundName)
		if err := setTime(body, "scheduled_start_at", roundStart); err != nil {
			return err
		}
		if err := setTime(body, "scheduled_end_at", roundEnd); err != nil {
			return err
		}
		return performRequest(http.MethodPost, tournamentPath(args[0], "/fixture-rounds"), body)
	},
}

var conflictsCmd = &cobra.Command{
	Use:   "conflicts <tournament-id>",
	Short: "Check a proposed window for team and venue clashes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{}
		if len(conflictTeams) > 0 {
			body["team_ids"] = conflictTeams
		}
		setIfNotEmpty(body, "venue_id", conflictVenue)
		setIfNotEmpty(body, "stage_id", conflictStage)
		setIfNotEmpty(body, "exclude_match_id", conflictExclude)
		if err := setTime(body, "scheduled_start_at", conflictStart); err != nil {
			return err
		}
		if err := setTime(body, "scheduled_end_at", conflictEnd); err != nil {
			return err
		}
		return performRequest(http.MethodPost, tournamentPath(args[0], "/fixture-conflicts"), body)
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish <tournament-id> <version-id>",
	Short: "Publish a draft fixture version",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var body map[string]any
		if publishNote != "" {
			body = map[string]any{"note": publishNote}
		}
		return performRequest(http.MethodPost, tournamentPath(args[0], "/fixture-versions/"+url.PathEscape(args[1])+"/publish"), body)
	},
}

var versionsCmd = &cobra.Command{
	Use:   "versions <tournament-id>",
	Short: "List the fixture versions of a tournament, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, tournamentPath(args[0], "/fixture-versions"), nil)
	},
}

var changesCmd = &cobra.Command{
	Use:   "changes <tournament-id>",
	Short: "Show the fixture change log of a tournament",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, tournamentPath(args[0], "/fixture-changes"), nil)
	},
}

func tournamentPath(tournamentID, suffix string) string {
	return "/tournaments/" + url.PathEscape(tournamentID) + suffix
}

func setIfNotEmpty(body map[string]any, key, value string) {
	if value != "" {
		body[key] = value
	}
}

func setTime(body map[string]any, key, value string) error {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	body[key] = t.UTC()
	return nil
}

func performRequest(method, endpoint string, body map[string]any) error {
	target := host + endpoint
	if dryRun {
		target += "?dry_run=true"
	}
	fmt.Printf("Making %s request to %s\n", method, target)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
