package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/replay"
)

// #region command

func newReplayCmd(flags *rootFlags) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "replay FIXTURE...",
		Short: "Run scenario fixtures through an in-memory engine",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				ok, err := runFixture(cmd.OutOrStdout(), path, verbose)
				if err != nil {
					return err
				}
				if !ok {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d fixtures failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print notification bodies")
	return cmd
}

// #endregion command

// #region fixture-mode

func runFixture(out io.Writer, path string, verbose bool) (bool, error) {
	f, err := replay.LoadFixture(path)
	if err != nil {
		return false, err
	}
	kv, err := f.StartState.ToKV()
	if err != nil {
		return false, fmt.Errorf("seed %s: %w", path, err)
	}

	results, summary, err := replay.Replay(kv, f.Steps, f.Config.ToReplayConfig())
	if err != nil {
		return false, fmt.Errorf("replay %s: %w", path, err)
	}

	fmt.Fprintf(out, "%s: %s\n", path, f.Description)
	fmt.Fprintf(out, "  %-3s  %4s  %5s  %-7s  %-15s  %-6s  %-9s  %s\n",
		"#", "Day", "Today", "Trigger", "Tone", "Hook", "Outcome", "Decision")
	for i, r := range results {
		fmt.Fprintf(out, "  %-3d  %4d  %5d  %-7s  %-15s  %-6s  %-9s  %s\n",
			i, r.Day, r.Today, r.Trigger, r.Tone, r.Hook, dash(string(r.Outcome)), dash(r.Decision))
		if verbose {
			fmt.Fprintf(out, "       %s: %s\n", r.Title, r.Body)
		}
	}
	fmt.Fprintf(out, "  shown=%d acted=%d dismissed=%d ignored=%d closed=%d commits=%d rejects=%d rollbacks=%d\n",
		summary.Shown, summary.Acted, summary.Dismissed, summary.Ignored, summary.Closed,
		summary.Commits, summary.Rejects, summary.EvalRollbacks)

	diffs := replay.Compare(results, f.ExpectedResults)
	for _, d := range diffs {
		fmt.Fprintf(out, "  MISMATCH %s\n", d)
	}
	if len(diffs) == 0 && len(f.ExpectedResults) > 0 {
		fmt.Fprintln(out, "  PASS")
	}
	return len(diffs) == 0, nil
}

// #endregion fixture-mode
