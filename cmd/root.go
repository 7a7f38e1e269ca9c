package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	sim "github.com/procsim/procsim/sim"
	"github.com/procsim/procsim/sim/trace"
)

var (
	// CLI flags for the run command
	workloadPath    string        // Workload file ("-" reads stdin)
	configPath      string        // Optional YAML configuration file
	logLevel        string        // Log verbosity level
	cores           int           // CPU core pool capacity
	inputDevices    int           // Input device pool capacity
	ioDevices       int           // I/O device pool capacity
	tickDelay       time.Duration // Real-time pacing between ticks
	checkInvariants bool          // Verify slot conservation after every tick
	traceLevel      string        // Transition trace level
	traceDB         string        // SQLite file for recorded transitions
	printSummary    bool          // Print run metrics after the reports
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "procsim",
	Short: "Discrete-tick simulator for processes contending for cores and devices",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduling simulation over a workload",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		fileCfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if !trace.IsValidTraceLevel(fileCfg.Trace.Level) {
			logrus.Fatalf("Unknown trace level %q; valid: none, transitions", fileCfg.Trace.Level)
		}

		in, closeIn, err := openWorkload(cmd, workloadPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		defer closeIn()

		out := cmd.OutOrStdout()
		s, err := runSimulation(cmd.Context(), fileCfg, in, out)
		if errors.Is(err, sim.ErrNoWorkload) {
			fmt.Fprintln(out, "No input provided")
			atexit.Exit(1)
		}
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		if printSummary {
			s.Metrics.Print(out)
			if s.Trace.Enabled() {
				summary := trace.Summarize(s.Trace)
				fmt.Fprintf(out, "Transitions recorded : %d (waits=%v, wait ticks=%d, max wait=%d)\n",
					summary.TotalTransitions, summary.Waits, summary.TotalWaitTicks, summary.MaxWait)
			}
		}
		logrus.Info("Simulation complete.")
	},
}

// configCmd prints the effective configuration as YAML
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := MarshalFileConfig(DefaultFileConfig())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

// resolveConfig layers explicitly set flags over the config file over the defaults.
func resolveConfig(cmd *cobra.Command) (FileConfig, error) {
	cfg := DefaultFileConfig()
	if configPath != "" {
		loaded, err := LoadFileConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
		logrus.Infof("Loaded configuration from %s", configPath)
	}

	flags := cmd.Flags()
	if flags.Changed("cores") {
		cfg.Simulation.Capacities.Cores = cores
	}
	if flags.Changed("input-devices") {
		cfg.Simulation.Capacities.InputDevices = inputDevices
	}
	if flags.Changed("io-devices") {
		cfg.Simulation.Capacities.IODevices = ioDevices
	}
	if flags.Changed("tick-delay") {
		cfg.Simulation.TickDelay = tickDelay
	}
	if flags.Changed("check-invariants") {
		cfg.Simulation.CheckInvariants = checkInvariants
	}
	if flags.Changed("trace") {
		cfg.Trace.Level = traceLevel
	}
	if flags.Changed("trace-db") {
		cfg.Trace.Database = traceDB
	}
	return cfg, cfg.Simulation.Validate()
}

func openWorkload(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening workload: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// runSimulation parses the workload, runs it to completion or until ctx is
// cancelled, and renders a report to out on every tick in which a process
// terminates.
func runSimulation(ctx context.Context, cfg FileConfig, in io.Reader, out io.Writer) (*sim.Simulator, error) {
	entries, err := sim.ParseWorkload(in)
	if err != nil {
		return nil, err
	}
	s, err := sim.NewSimulator(cfg.Simulation, entries)
	if err != nil {
		return nil, err
	}
	s.ReportWriter = out

	if trace.TraceLevel(cfg.Trace.Level) == trace.TraceLevelTransitions {
		s.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelTransitions})
		if cfg.Trace.Database != "" {
			writer := trace.NewSQLiteWriter(cfg.Trace.Database)
			if err := writer.Init(); err != nil {
				return nil, err
			}
			defer func() {
				if cerr := writer.Close(); cerr != nil {
					logrus.Errorf("closing trace database: %v", cerr)
				}
			}()
			s.Trace.AddSink(writer)
		}
	}

	if err := s.RunContext(ctx); err != nil {
		return s, err
	}
	return s, nil
}

// Execute runs the CLI root command
func Execute() {
	logrus.StandardLogger().ExitFunc = atexit.Exit
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		atexit.Exit(1)
	}
}

// registerRunFlags binds the run command's flags to their package variables.
func registerRunFlags(cmd *cobra.Command) {
	defaults := sim.DefaultCapacities()

	cmd.Flags().StringVar(&workloadPath, "workload", "-", "Workload file of NEW/START/CPU/INPUT/IO pairs (\"-\" reads stdin)")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Resource pools
	cmd.Flags().IntVar(&cores, "cores", defaults.Cores, "Number of CPU cores")
	cmd.Flags().IntVar(&inputDevices, "input-devices", defaults.InputDevices, "Number of input devices")
	cmd.Flags().IntVar(&ioDevices, "io-devices", defaults.IODevices, "Number of I/O devices")

	// Pacing and diagnostics
	cmd.Flags().DurationVar(&tickDelay, "tick-delay", 0, "Real-time delay between ticks (e.g. 1ms); does not change results")
	cmd.Flags().BoolVar(&checkInvariants, "check-invariants", false, "Verify slot conservation and queue exclusivity after every tick")
	cmd.Flags().StringVar(&traceLevel, "trace", "none", "Trace level (none, transitions)")
	cmd.Flags().StringVar(&traceDB, "trace-db", "", "SQLite file to record transitions into (requires --trace transitions)")
	cmd.Flags().BoolVar(&printSummary, "summary", false, "Print run metrics after the reports")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}
