package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"sevenguis/internal/models"
	"sevenguis/internal/services"
)

var replayCmd = &cobra.Command{
	Use:   "replay [script]",
	Short: "Replay an edit script against the widgets",
	Long: `Feeds each line of an edit script (or stdin) to a fresh counter and
temperature converter, printing both converter fields after every edit.

  c <text>    edit the Celsius field
  f <text>    edit the Fahrenheit field
  inc         activate the counter`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Bool("no-color", false, "Disable colored validity highlighting")
}

// terminalView renders converter fields, highlighting invalid ones
type terminalView struct {
	out *termenv.Output
}

func newTerminalView(w io.Writer, color bool) *terminalView {
	opts := []termenv.OutputOption{}
	if !color {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	return &terminalView{out: termenv.NewOutput(w, opts...)}
}

func (v *terminalView) field(label string, d models.Display) string {
	s := v.out.String(fmt.Sprintf("%s %s", label, strconv.Quote(d.Text)))
	if !d.Valid {
		return s.Background(v.out.Color("#ef9a9a")).Foreground(v.out.Color("#000000")).String() + " (invalid)"
	}
	return s.String()
}

func (v *terminalView) Render(celsius, fahrenheit models.Display) {
	fmt.Fprintf(v.out, "  %s  %s\n", v.field("Celsius", celsius), v.field("Fahrenheit", fahrenheit))
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger("sevenguis-replay", cfg)
	logger.SetOutput(cmd.ErrOrStderr())
	metricsCollector := newMetrics()

	widgets := services.NewWidgetService(cfg.Widgets.MaxMounts, logger, metricsCollector)
	replayService := services.NewReplayService(widgets, logger, metricsCollector)

	noColor, _ := cmd.Flags().GetBool("no-color")
	view := newTerminalView(cmd.OutOrStdout(), !noColor)

	ctx := context.Background()
	var result *services.ReplayResult
	if len(args) == 1 && args[0] != "-" {
		result, err = replayService.ReplayFile(ctx, args[0], view)
	} else {
		result, err = replayService.Replay(ctx, cmd.InOrStdin(), view)
	}
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	printSummary(cmd.OutOrStdout(), result)
	return nil
}

func printSummary(w io.Writer, result *services.ReplayResult) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "REPLAY COMPLETE")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Lines:         %d\n", result.TotalLines)
	fmt.Fprintf(w, "Edits:         %d\n", result.Edits)
	fmt.Fprintf(w, "Failed edits:  %d\n", result.FailedEdits)
	fmt.Fprintf(w, "Increments:    %d\n", result.Increments)
	fmt.Fprintf(w, "Final count:   %d\n", result.Final.Count)
	fmt.Fprintf(w, "Duration:      %v\n", result.Duration)

	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "\nSkipped lines (%d):\n", len(result.Errors))
		for i, errMsg := range result.Errors {
			if i == 10 {
				fmt.Fprintf(w, "  ... and %d more\n", len(result.Errors)-10)
				break
			}
			fmt.Fprintf(w, "  - %s\n", errMsg)
		}
	}
}
