package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"

	"crossword/internal/app"
	"crossword/internal/ui"
)

func newRootCmd(cfg *app.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "crossword",
		Short:        "Solve the crossword in your terminal",
		Long:         "Solve the crossword in your terminal. Progress is saved after every move and restored on the next launch.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return play(cmd, *cfg)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for saved progress (default ~/.local/share/crossword)")
	f.StringVar(&cfg.PuzzlePath, "puzzle", cfg.PuzzlePath, "puzzle YAML file (default: the built-in puzzle)")
	f.StringVar(&cfg.LogPath, "log", cfg.LogPath, "append JSON logs to this file")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	f.BoolVar(&cfg.ASCIIOnly, "ascii", cfg.ASCIIOnly, "draw with ASCII only")
	f.StringVar(&cfg.UI.StyleVariant, "style", cfg.UI.StyleVariant, "theme: valentine, newsprint or retro_terminal")
	f.StringVar(&cfg.UI.MotionLevel, "motion", cfg.UI.MotionLevel, "animation: off, reduced or full")
	f.StringVar(&cfg.UI.MouseScope, "mouse", cfg.UI.MouseScope, "mouse input: off, scoped or full")
	f.BoolVar(&cfg.Debug, "debug", cfg.Debug, "verbose UI diagnostics on stderr")

	root.AddCommand(
		newServeCmd(cfg),
		newResetCmd(cfg),
		newStatsCmd(cfg),
		newPreviewCmd(cfg),
		newManCmd(root),
	)
	return root
}

func play(cmd *cobra.Command, cfg app.Config) error {
	a, err := app.New(cfg, app.ModeTUI)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(cmd.Context())
}

func newServeCmd(cfg *app.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the puzzle over HTTP for a browser front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(*cfg, app.ModeWeb)
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", a.Puzzle().Definition().Title, cfg.Addr)
			return a.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	return cmd
}

func newResetCmd(cfg *app.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the saved grid so the next launch starts fresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := app.ResetProgress(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared saved progress for %s.\n", id)
			return nil
		},
	}
}

func newStatsCmd(cfg *app.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show solve history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := app.ReadStats(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			writeStats(cmd.OutOrStdout(), stats, time.Now())
			return nil
		},
	}
}

func writeStats(w io.Writer, s app.Stats, now time.Time) {
	ago := func(t time.Time) string {
		return humanize.RelTime(t, now, "ago", "from now")
	}

	fmt.Fprintf(w, "%s (%s)\n", s.PuzzleTitle, s.PuzzleID)
	switch p := s.Progress; {
	case p == nil || p.SolvedCount == 0:
		fmt.Fprintln(w, "  Not solved yet")
	default:
		line := "  Solved " + english.Plural(p.SolvedCount, "time", "")
		if p.BestSeconds > 0 {
			line += ", best " + ui.FormatDuration(p.BestSeconds)
		}
		fmt.Fprintln(w, line)
		if !p.LastSolvedTS.IsZero() {
			fmt.Fprintf(w, "  Last solved %s\n", ago(p.LastSolvedTS))
		}
	}
	if s.Saved != nil && !s.Saved.UpdatedTS.IsZero() {
		fmt.Fprintf(w, "  Grid in progress, saved %s\n", ago(s.Saved.UpdatedTS))
	}

	sum := s.Summary
	fmt.Fprintf(w, "All runs: %s, %s solved, %s, %s, %s\n",
		english.Plural(sum.Runs, "run", ""),
		humanize.Comma(int64(sum.Solved)),
		english.Plural(sum.Checks, "check", ""),
		english.Plural(sum.Reveals, "reveal", ""),
		english.Plural(sum.Restarts, "restart", ""),
	)
	if last := s.LastRun; last != nil {
		outcome := "not finished"
		if last.Completed {
			outcome = "completed in " + ui.FormatDuration(last.ElapsedSeconds)
		}
		fmt.Fprintf(w, "Last run: %s, started %s, %s\n", last.Mode, ago(last.StartTS), outcome)
	}
}

// newPreviewCmd plays against a throwaway data directory so nothing is saved.
func newPreviewCmd(cfg *app.Config) *cobra.Command {
	return &cobra.Command{
		Use:    "preview",
		Short:  "Play without touching saved progress",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := os.MkdirTemp("", "crossword-preview-")
			if err != nil {
				return err
			}
			defer os.RemoveAll(dir)
			preview := *cfg
			preview.DataDir = dir
			return play(cmd, preview)
		},
	}
}

func newManCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:                   "man",
		Short:                 "Print the manual page",
		Hidden:                true,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := mcobra.NewManPage(1, root)
			if err != nil {
				return err
			}
			page = page.WithSection("Environment", "Every flag can also be set as CROSSWORD_<NAME>, e.g. CROSSWORD_DATA_DIR or CROSSWORD_UI_STYLE.")
			_, err = fmt.Fprint(cmd.OutOrStdout(), page.Build(roff.NewDocument()))
			return err
		},
	}
}
