// Package main provides the CLI entrypoint for uscope.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/uscope-bench/uscope/bench"
	"github.com/uscope-bench/uscope/internal/config"
	"github.com/uscope-bench/uscope/reporter"
)

const (
	defaultIterations = int64(10)
	defaultTimeUnit   = "ns"
	defaultColor      = "auto"
)

var (
	runIterations int64
	runTimeUnit   string
	runColor      string
	runTabular    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "uscope",
		Short:         "Micro-benchmark playground",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runBenchCmd,
	}

	rootCmd.Flags().Int64Var(&runIterations, "iterations", defaultIterations, "measured iterations per benchmark")
	rootCmd.Flags().StringVar(&runTimeUnit, "time-unit", defaultTimeUnit, "time display unit (ns, us, ms, s)")
	rootCmd.Flags().StringVar(&runColor, "color", defaultColor, "color output (auto, always, never)")
	rootCmd.Flags().BoolVar(&runTabular, "tabular", false, "render counters in fixed-width columns")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newListCmd())

	return rootCmd
}

func runBenchCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyInt64Config(cmd, "iterations", &runIterations, fileCfg.Run.Iterations)
	applyStringConfig(cmd, "time-unit", &runTimeUnit, fileCfg.Run.TimeUnit)
	applyStringConfig(cmd, "color", &runColor, fileCfg.Run.Color)
	applyBoolConfig(cmd, "tabular", &runTabular, fileCfg.Run.Tabular)

	unit, err := parseTimeUnit(runTimeUnit)
	if err != nil {
		return err
	}
	opts, err := outputOptions(runColor, runTabular)
	if err != nil {
		return err
	}

	cfg := bench.Config{Iterations: runIterations, TimeUnit: unit}
	if err := cfg.Validate(); err != nil {
		return err
	}

	runner := bench.NewRunner(cfg, reporter.NewConsoleReporter(cmd.OutOrStdout(), opts))
	if err := registerSamples(runner); err != nil {
		return fmt.Errorf("failed to register benchmarks: %w", err)
	}
	return runner.RunAll()
}

func parseTimeUnit(name string) (reporter.TimeUnit, error) {
	switch name {
	case "ns":
		return reporter.Nanosecond, nil
	case "us":
		return reporter.Microsecond, nil
	case "ms":
		return reporter.Millisecond, nil
	case "s":
		return reporter.Second, nil
	default:
		return reporter.Nanosecond, fmt.Errorf("unknown time unit %q (ns, us, ms, s)", name)
	}
}

func outputOptions(color string, tabular bool) (reporter.OutputOptions, error) {
	var opts reporter.OutputOptions
	switch color {
	case "always":
		opts |= reporter.Color
	case "never":
	case "auto":
		if term.IsTerminal(int(os.Stdout.Fd())) {
			opts |= reporter.Color
		}
	default:
		return 0, fmt.Errorf("unknown color mode %q (auto, always, never)", color)
	}
	if tabular {
		opts |= reporter.Tabular
	}
	return opts, nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in benchmarks",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	runner := bench.NewRunner(
		bench.Config{Iterations: defaultIterations},
		reporter.NewConsoleReporter(io.Discard, 0),
	)
	if err := registerSamples(runner); err != nil {
		return fmt.Errorf("failed to register benchmarks: %w", err)
	}
	for _, name := range runner.Names() {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# uscope configuration
# Uncomment a value to enable it. CLI flags override config values.

[run]
# iterations = %d         # Measured iterations per benchmark
# time-unit = %q          # Time display unit (ns, us, ms, s)
# color = %q              # Color output (auto, always, never)
# tabular = false         # Render counters in fixed-width columns
`,
		defaultIterations,
		defaultTimeUnit,
		defaultColor,
	)
}
