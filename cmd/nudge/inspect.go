package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/logging"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

// #region command

func newInspectCmd(flags *rootFlags) *cobra.Command {
	var last int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the day record, learning history and nudge log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(flags)
			if err != nil {
				return err
			}
			store, err := state.NewStore(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			report, err := buildReport(store, last)
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().IntVar(&last, "last", 20, "show N most recent entries")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON instead of tables")
	return cmd
}

// #endregion command

// #region report

type report struct {
	Day       state.DayState            `json:"day"`
	Learning  state.LearningModel       `json:"learning"`
	Versions  []state.LearningVersion   `json:"versions"`
	Decisions []logging.ProvenanceEntry `json:"decisions"`
}

func buildReport(store *state.Store, last int) (report, error) {
	var r report
	var err error
	if r.Day, err = state.LoadDay(store); err != nil {
		return r, err
	}
	if r.Learning, err = state.LoadLearning(store); err != nil {
		return r, err
	}
	if r.Versions, err = store.ListLearningVersions(last); err != nil {
		return r, err
	}
	if r.Decisions, err = logging.ListDecisions(store.DB(), last); err != nil {
		return r, err
	}
	return r, nil
}

func printReport(out io.Writer, r report) {
	d := r.Day
	fmt.Fprintf(out, "Day %d: today %d min, yesterday %d min, avg7 %d min, activity %s, tone %s\n",
		d.Day, d.TodayMinutes, d.YesterdayMinutes, d.Avg7Minutes, d.Activity, d.TonePreference)
	if d.HasRecordedOutcome() {
		fmt.Fprintf(out, "Last outcome: %s on %s\n", d.LastOutcome, d.LastOutcomeStage)
	}

	fmt.Fprintln(out, "\nLearning versions:")
	if len(r.Versions) == 0 {
		fmt.Fprintln(out, "  none")
	}
	fmt.Fprintf(out, "  %-10s  %-10s  %-40s  %s\n", "Version", "Parent", "Reason", "When")
	for _, v := range r.Versions {
		fmt.Fprintf(out, "  %-10s  %-10s  %-40s  %s\n",
			shortID(v.VersionID), shortID(v.ParentID), truncate(v.Reason, 40), humanize.Time(v.CreatedAt))
	}

	fmt.Fprintln(out, "\nNudge log:")
	if len(r.Decisions) == 0 {
		fmt.Fprintln(out, "  none")
	}
	fmt.Fprintf(out, "  %-10s  %-7s  %4s  %5s  %-7s  %-15s  %-6s  %-9s  %-8s  %s\n",
		"Nudge", "Event", "Day", "Today", "Trigger", "Tone", "Hook", "Outcome", "Decision", "When")
	for _, e := range r.Decisions {
		fmt.Fprintf(out, "  %-10s  %-7s  %4d  %5d  %-7s  %-15s  %-6s  %-9s  %-8s  %s\n",
			shortID(e.NotificationID), e.Event, e.Day, e.TodayMinutes, e.TriggerType, e.Tone, e.Hook,
			dash(e.Outcome), e.Decision, humanize.Time(e.CreatedAt))
	}
}

// #endregion report

// #region helpers

func shortID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// #endregion helpers
