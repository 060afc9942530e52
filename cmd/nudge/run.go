package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/compose"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/engine"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/gate"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/logging"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/state"
)

// #region command

func newRunCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(flags)
			if err != nil {
				return err
			}

			store, err := state.NewStore(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			opts := engine.DefaultOptions()
			opts.Store = store
			opts.Sink = logging.NewDBSink(store.DB())
			opts.Logger = logger
			opts.Presenter = &terminalPresenter{out: cmd.OutOrStdout()}
			opts.TickInterval = cfg.TickInterval
			opts.NotificationTimeout = cfg.NotificationTimeout
			opts.TimeOfDay = state.ParseTimeOfDay(cfg.TimeOfDay)
			opts.Gate = gate.GateConfig{LearnFromIgnored: cfg.LearnFromIgnored}

			e := engine.New(opts)
			defer e.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "Nudge controller ready.")
			fmt.Fprintf(cmd.OutOrStdout(), "  DB: %s | tick: %s\n", cfg.DBPath, cfg.TickInterval)
			fmt.Fprintln(cmd.OutOrStdout(), "Type 'help' for commands (or 'quit' to exit):")

			repl(e, cmd.InOrStdin(), cmd.OutOrStdout(), cfg.CarryYesterday)
			return nil
		},
	}
}

// #endregion command

// #region presenter

type terminalPresenter struct {
	out io.Writer
}

func (p *terminalPresenter) Show(n compose.Notification) {
	fmt.Fprintf(p.out, "\n[%s] %s\n%s\n(acted | dismiss | ignore | close)\n> ", n.Kicker, n.Title, n.Body)
}

func (p *terminalPresenter) Hide(n compose.Notification) {}

// #endregion presenter

// #region repl

const helpText = `commands:
  start | stop | play          control the clock
  tick [n]                     advance n simulated minutes (default 1)
  add [n]                      add n minutes (default 5)
  today|yesterday|avg7 N       set minutes
  tminus|tplus N               set a threshold
  activity|tone|lang VALUE     set context
  acted | dismiss | ignore | close
                               resolve the notification on screen
  next [nocarry]               roll over to the next day
  status | details | learning  show state
  reset                        restore defaults (asks for confirmation)
  quit`

func repl(e *engine.Engine, in io.Reader, out io.Writer, carry bool) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		switch cmd {
		case "quit", "exit":
			return
		case "help":
			fmt.Fprintln(out, helpText)
		case "start":
			if !e.StartClock() {
				fmt.Fprintln(out, "clock not started")
			}
		case "stop":
			e.StopClock()
		case "play":
			if e.ToggleClock() {
				fmt.Fprintln(out, "playing")
			} else {
				fmt.Fprintln(out, "paused")
			}
		case "tick":
			for i := 0; i < intArg(args, 1); i++ {
				e.Tick()
			}
		case "add":
			e.AddMinutes(intArg(args, 5))
		case "today":
			e.SetToday(intArg(args, 0))
		case "yesterday":
			e.SetYesterday(intArg(args, 0))
		case "avg7":
			e.SetAvg7(intArg(args, 0))
		case "tminus":
			e.SetThreshold(state.TriggerMinus, intArg(args, 15))
		case "tplus":
			e.SetThreshold(state.TriggerPlus, intArg(args, 15))
		case "activity":
			fmt.Fprintf(out, "activity: %s\n", e.SetActivity(strArg(args)))
		case "tone":
			fmt.Fprintf(out, "tone: %s\n", e.SetTonePreference(strArg(args)))
		case "lang":
			fmt.Fprintf(out, "language: %s\n", e.SetLanguage(strArg(args)))
		case "acted", "dismiss", "ignore", "close":
			resolve(e, out, outcomeFor(cmd))
		case "next":
			e.Rollover(carry && strArg(args) != "nocarry")
		case "status":
			printStatus(e, out)
		case "details":
			fmt.Fprintln(out, e.Details())
		case "learning":
			printLearning(e, out)
		case "reset":
			fmt.Fprint(out, "Reset learning and day? Type yes to confirm: ")
			if scanner.Scan() && strings.TrimSpace(scanner.Text()) == "yes" {
				e.ResetLearningAndDay()
				fmt.Fprintln(out, "reset done")
			} else {
				fmt.Fprintln(out, "reset cancelled")
			}
		default:
			fmt.Fprintf(out, "unknown command %q (try 'help')\n", cmd)
		}
	}
}

func resolve(e *engine.Engine, out io.Writer, outcome state.Outcome) {
	res, ok := e.ResolveCurrent(outcome)
	if !ok {
		fmt.Fprintln(out, "no notification showing")
		return
	}
	fmt.Fprintf(out, "[%s] decision=%s resumed=%v\n", res.Trigger, res.Decision, res.Resumed)
}

func outcomeFor(cmd string) state.Outcome {
	switch cmd {
	case "acted":
		return state.OutcomeActed
	case "dismiss":
		return state.OutcomeDismissed
	case "ignore":
		return state.OutcomeIgnored
	}
	return state.OutcomeNone
}

func printStatus(e *engine.Engine, out io.Writer) {
	v := e.View()
	clock := "paused"
	if e.ClockRunning() {
		clock = "running"
	}
	fmt.Fprintf(out, "%s | today %s (%s) | yesterday %s | %s of yesterday | %s | %s | clock %s\n",
		v.DayLabel, v.TodayHM, v.TodaySub, v.YesterdayHM, v.ProgressLabel, v.DeltaLabel, v.Avg7Label, clock)
	if n, ok := e.Showing(); ok {
		fmt.Fprintf(out, "showing: [%s] %s\n", n.Kicker, n.Title)
	}
}

func printLearning(e *engine.Engine, out io.Writer) {
	m := e.Learning()
	for _, t := range state.Triggers {
		fmt.Fprintf(out, "  %-8s %s\n", t, m.ToneByTrigger[t])
	}
	for _, h := range state.Hooks {
		fmt.Fprintf(out, "  %-8s %.2f\n", h, m.HookScores[h])
	}
	if v := e.LearningVersion(); v != "" {
		fmt.Fprintf(out, "  version  %s\n", v)
	}
}

func intArg(args []string, fallback int) int {
	if len(args) == 0 {
		return fallback
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "not a number: %q\n", args[0])
		return fallback
	}
	return n
}

func strArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// #endregion repl
