package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/system_observer/internal/config"
	"github.com/Dicklesworthstone/system_observer/internal/errors"
	"github.com/Dicklesworthstone/system_observer/internal/logger"
	"github.com/Dicklesworthstone/system_observer/internal/sampler"
	"github.com/Dicklesworthstone/system_observer/internal/telemetry"
	"github.com/Dicklesworthstone/system_observer/internal/ui"
)

// Seams replaced in tests.
var (
	newSource  = func() telemetry.Source { return telemetry.NewHostSource() }
	isTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	}
	runTUI = func(ctx context.Context, m *ui.Model) error { return ui.Run(ctx, m) }
)

// NewRootCmd builds the system-observer command. Flags are bound through a
// private viper instance so SYSTEM_OBSERVER_* environment variables work as
// fallbacks.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "system-observer",
		Short: "Terminal dashboard for processes, CPU, memory and network",
		Long: `system-observer is a full-screen terminal dashboard with three screens:

  Processes  every running process sorted by CPU; select with ↑/↓ and kill with k
  Cpu        CPU and RAM utilization gauges plus host information
  Network    cumulative counters for up to four interfaces

Press tab to switch screens and q to quit.

Examples:
  system-observer
  system-observer --cpu-window 500ms
  system-observer --json | jq '.processes[:5]'
  SYSTEM_OBSERVER_INTERVAL=5s system-observer --json-stream`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.Duration(config.KeyTick, def.Tick, "input poll interval")
	flags.Duration(config.KeyCPUWindow, def.CPUWindow, "gap between the two CPU reads of each sample")
	flags.Duration(config.KeyInterval, def.Interval, "snapshot cadence for --json-stream")
	flags.String(config.KeyLogFile, "", "append diagnostic logs to this file")
	flags.Bool(config.KeyJSON, false, "print one snapshot as JSON and exit")
	flags.Bool(config.KeyJSONStream, false, "print a JSON snapshot per line until interrupted")
	flags.Bool(config.KeyYAML, false, "print one snapshot as YAML and exit")

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// BindPFlags only fails on a nil flag set.
	_ = v.BindPFlags(flags)

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func run(ctx context.Context, out io.Writer, cfg config.Config) error {
	src := newSource()
	s := sampler.New(src,
		sampler.WithWindow(cfg.CPUWindow),
		sampler.WithLogger(logger.NewEnvLogger("[sampler]")),
	)

	switch {
	case cfg.JSON:
		return writeJSON(out, s.Sample())
	case cfg.YAML:
		return writeYAML(out, s.Sample())
	case cfg.JSONStream:
		return streamJSON(ctx, out, s, cfg.Interval)
	}
	return runDashboard(ctx, cfg, s, src)
}

func runDashboard(ctx context.Context, cfg config.Config, s *sampler.Sampler, killer telemetry.Terminator) error {
	if !isTerminal() {
		return errors.New(errors.ErrTerminal,
			"system-observer needs an interactive terminal",
			"Run it from a terminal, or use --json, --yaml or --json-stream when piping")
	}

	// The dashboard owns the screen; log lines must not land on it.
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "system-observer")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("cannot open log file %s", cfg.LogFile),
				"Check the directory exists and is writable")
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	defer log.SetOutput(os.Stderr)

	m := ui.New(s, killer,
		ui.WithTick(cfg.Tick),
		ui.WithLogger(logger.NewEnvLogger("[ui]")),
	)
	if err := runTUI(ctx, m); err != nil {
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"terminal session failed",
			"Check that the terminal supports raw mode and the alternate screen")
	}
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprint(os.Stderr, err.Error())
		if !strings.HasSuffix(err.Error(), "\n") {
			fmt.Fprintln(os.Stderr)
		}
		os.Exit(1)
	}
}
