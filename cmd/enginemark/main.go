// Package main provides the CLI entry point for enginemark, a
// cross-language engine benchmarking tool.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/enginemark/enginemark/crosslang"
	"github.com/enginemark/enginemark/harness"
	"github.com/enginemark/enginemark/kernels"
	"github.com/enginemark/enginemark/parallel"
	"github.com/enginemark/enginemark/report"
	"github.com/enginemark/enginemark/ssg"
	"github.com/enginemark/enginemark/suite"
	"github.com/enginemark/enginemark/workload"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	root := newRootCmd(logger, level)
	if err := root.Execute(); err != nil {
		logger.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "enginemark",
		Short: "Cross-language engine benchmarking tool",
		Long: `Enginemark measures language-engine performance three ways: repeated
subprocess trials of benchmark scripts under two execution modes, a serial
versus process-pool throughput comparison, and a static-site build. Every
cross-engine comparison is gated on checksums so timings are only reported
for equivalent work.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				level.Set(slog.LevelDebug)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newPoolCmd(logger))
	root.AddCommand(newPoolWorkerCmd())
	root.AddCommand(newSSGCmd(logger))
	root.AddCommand(newKernelsCmd())
	root.AddCommand(newCompareCmd(logger))

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		configPath    string
		engine        string
		benchDir      string
		trials        int
		warmup        int
		target        float64
		baselineName  string
		baselineArgs  []string
		alternateName string
		alternateArgs []string
		outputJSON    bool
		chartPath     string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark suite under both execution modes",
		Long: `Run every benchmark in the catalog through the engine's baseline and
alternate modes, take the median of repeated trials, and report per-benchmark
speedups against the target.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := suite.Default()

			if configPath != "" {
				loaded, err := suite.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			// Explicit flags win over both defaults and file values.
			flags := cmd.Flags()
			if flags.Changed("engine") {
				cfg.Engine = engine
			}
			if flags.Changed("bench-dir") {
				cfg.BenchDir = benchDir
			}
			if flags.Changed("trials") {
				cfg.Trials = trials
			}
			if flags.Changed("warmup") {
				cfg.Warmup = warmup
			}
			if flags.Changed("target") {
				cfg.TargetSpeedup = target
			}
			if flags.Changed("baseline-name") {
				cfg.Baseline.Name = baselineName
			}
			if flags.Changed("baseline-args") {
				cfg.Baseline.Args = baselineArgs
			}
			if flags.Changed("alternate-name") {
				cfg.Alternate.Name = alternateName
			}
			if flags.Changed("alternate-args") {
				cfg.Alternate.Args = alternateArgs
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runSuite(cmd.Context(), logger, cfg, outputJSON, chartPath)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "",
		"Path to YAML run configuration")
	flags.StringVar(&engine, "engine", "",
		"Path to the engine binary")
	flags.StringVar(&benchDir, "bench-dir", "",
		"Directory containing the benchmark scripts")
	flags.IntVar(&trials, "trials", 3,
		"Timed trials per benchmark and mode")
	flags.IntVar(&warmup, "warmup", 0,
		"Unrecorded warmup runs before the trials")
	flags.Float64Var(&target, "target", 10,
		"Average speedup the alternate mode must reach")
	flags.StringVar(&baselineName, "baseline-name", "",
		"Display name of the baseline mode")
	flags.StringSliceVar(&baselineArgs, "baseline-args", nil,
		"Engine arguments selecting the baseline mode")
	flags.StringVar(&alternateName, "alternate-name", "",
		"Display name of the alternate mode")
	flags.StringSliceVar(&alternateArgs, "alternate-args", nil,
		"Engine arguments selecting the alternate mode")
	flags.BoolVar(&outputJSON, "json", false,
		"Output the summary as JSON instead of a table")
	flags.StringVar(&chartPath, "chart", "",
		"Also write an HTML bar chart to this file")

	return cmd
}

func runSuite(
	ctx context.Context,
	logger *slog.Logger,
	cfg suite.Config,
	outputJSON bool,
	chartPath string,
) error {
	logger.InfoContext(ctx, "starting suite",
		slog.String("engine", cfg.Engine),
		slog.Int("trials", cfg.Trials),
		slog.Int("warmup", cfg.Warmup),
		slog.Float64("target", cfg.TargetSpeedup),
		slog.Int("benchmarks", len(cfg.Benchmarks)),
	)

	// Step 1: Resolve the engine binary.
	enginePath, err := harness.ResolveEngine(cfg.Engine)
	if err != nil {
		return fmt.Errorf("resolve engine: %w", err)
	}

	runner := harness.NewRunner(enginePath, logger)
	baseline := harness.Mode{Name: cfg.Baseline.Name, Args: cfg.Baseline.Args}
	alternate := harness.Mode{Name: cfg.Alternate.Name, Args: cfg.Alternate.Args}

	if !outputJSON {
		report.WriteHeader(os.Stdout, cfg.Alternate.Name+" Performance Benchmark Suite")
	}

	// Step 2: Aggregate trials for both modes of every benchmark.
	records := make([]harness.SpeedupRecord, 0, len(cfg.Benchmarks))

	for _, bench := range cfg.Benchmarks {
		file := cfg.BenchmarkFile(bench)

		if !outputJSON {
			fmt.Printf("Running %s...\n", bench)
		}

		baseRes, err := runner.Aggregate(ctx, file, baseline, cfg.Trials, cfg.Warmup)
		if err != nil {
			return fmt.Errorf("benchmark %s: %w", bench, err)
		}

		altRes, err := runner.Aggregate(ctx, file, alternate, cfg.Trials, cfg.Warmup)
		if err != nil {
			return fmt.Errorf("benchmark %s: %w", bench, err)
		}

		rec, ok := harness.Speedup(bench, baseRes, altRes)
		if !ok {
			logger.WarnContext(ctx, "benchmark dropped from summary",
				slog.String("benchmark", bench),
				slog.Bool("baseline_missing", baseRes.Missing()),
				slog.Bool("alternate_missing", altRes.Missing()),
			)

			continue
		}

		if !outputJSON {
			fmt.Printf("  %-13s%.2f ms\n", cfg.Baseline.Name+":", rec.BaselineMs)
			fmt.Printf("  %-13s%.2f ms\n", cfg.Alternate.Name+":", rec.AlternateMs)
			fmt.Printf("  %-13s%.2fx\n", "Speedup:", rec.Speedup)
			fmt.Println()
		}

		records = append(records, rec)
	}

	// Step 3: Summarize and report.
	summary := harness.Summarize(cfg.Baseline.Name, cfg.Alternate.Name, records, cfg.TargetSpeedup)

	if outputJSON {
		if err := report.WriteJSON(os.Stdout, summary); err != nil {
			return fmt.Errorf("write JSON report: %w", err)
		}
	} else {
		if err := report.Write(os.Stdout, summary); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	if chartPath != "" {
		f, err := os.Create(chartPath)
		if err != nil {
			return fmt.Errorf("create chart file: %w", err)
		}

		if err := report.WriteChart(f, summary); err != nil {
			f.Close()

			return fmt.Errorf("write chart: %w", err)
		}

		if err := f.Close(); err != nil {
			return fmt.Errorf("close chart file: %w", err)
		}

		logger.InfoContext(ctx, "chart written", slog.String("path", chartPath))
	}

	logger.InfoContext(ctx, "suite complete",
		slog.Float64("mean_speedup", summary.MeanSpeedup),
		slog.Bool("pass", summary.Pass),
	)

	return nil
}

func newPoolCmd(logger *slog.Logger) *cobra.Command {
	var (
		items      int
		iterations int
		chunkSize  int
		workers    int
		op         string
		prefix     string
	)

	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Benchmark serial versus process-pool string transforms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.InfoContext(cmd.Context(), "starting pool benchmark",
				slog.Int("items", items),
				slog.Int("iterations", iterations),
				slog.Int("chunk_size", chunkSize),
				slog.Int("workers", workers),
				slog.String("op", op),
			)

			res, err := parallel.Bench(workload.PoolItems(items), parallel.Options{
				Iterations: iterations,
				ChunkSize:  chunkSize,
				Workers:    workers,
				Op:         op,
			})
			if err != nil {
				return err
			}

			fmt.Printf("%s_SERIAL_MS=%.6f\n", prefix, res.SerialMs)
			fmt.Printf("%s_PROCESS_POOL_MS=%.6f\n", prefix, res.ParallelMs)
			fmt.Printf("%s_PROCESS_POOL_CHECKSUM=%d\n", prefix, res.Checksum)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&items, "items", 16,
		"Number of workload strings")
	flags.IntVar(&iterations, "iterations", 500,
		"Passes over the item list")
	flags.IntVar(&chunkSize, "chunk-size", 32,
		"Items per pool chunk")
	flags.IntVar(&workers, "workers", runtime.NumCPU(),
		"Worker processes in the pool")
	flags.StringVar(&op, "op", "upper",
		"Transform op: upper, lower, reverse")
	flags.StringVar(&prefix, "prefix", "GO",
		"Metric key prefix")

	return cmd
}

func newPoolWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "pool-worker",
		Short:  "Serve pool transform requests over stdio",
		Hidden: true,
		RunE: func(*cobra.Command, []string) error {
			return parallel.WorkerMain(os.Stdin, os.Stdout)
		},
	}
}

func newSSGCmd(logger *slog.Logger) *cobra.Command {
	var (
		files       int
		scratchRoot string
		prefix      string
	)

	cmd := &cobra.Command{
		Use:   "ssg",
		Short: "Benchmark a static-site build over a generated corpus",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.InfoContext(cmd.Context(), "starting ssg benchmark",
				slog.Int("files", files),
				slog.String("scratch_root", scratchRoot),
			)

			res, err := ssg.Run(ssg.Options{Files: files, ScratchRoot: scratchRoot})
			if err != nil {
				return err
			}

			fmt.Printf("%s_SSG_FILES=%d\n", prefix, res.Files)
			fmt.Printf("%s_SSG_BUILD_MS=%.6f\n", prefix, res.BuildMs)
			fmt.Printf("%s_SSG_FILES_PER_SEC=%.6f\n", prefix, res.FilesPerSec)
			fmt.Printf("%s_SSG_CHECKSUM=%d\n", prefix, res.Checksum)
			fmt.Printf("%s_SSG_READ_MS=%.6f\n", prefix, res.ReadMs)
			fmt.Printf("%s_SSG_RENDER_WRITE_MS=%.6f\n", prefix, res.RenderWriteMs)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&files, "files", 10000,
		"Number of pages to generate and render")
	flags.StringVar(&scratchRoot, "scratch-root", "",
		"Directory for the scratch tree (default: system temp)")
	flags.StringVar(&prefix, "prefix", "GO",
		"Metric key prefix")

	return cmd
}

func newKernelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kernels [name ...]",
		Short: "Run the in-process benchmark kernels",
		Long: `Run the built-in compute kernels and print their timings in the shared
"Time taken" format, which makes this binary usable as an engine under run.`,
		RunE: func(_ *cobra.Command, args []string) error {
			return kernels.RunSuite(os.Stdout, args)
		},
	}
}

func newCompareCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run several engine implementations and compare their metrics",
	}

	cmd.AddCommand(newComparePoolCmd(logger))
	cmd.AddCommand(newCompareSSGCmd(logger))

	return cmd
}

func newComparePoolCmd(logger *slog.Logger) *cobra.Command {
	var specs []string

	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Compare process-pool metrics across engines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engines, err := parseEngines(specs)
			if err != nil {
				return err
			}

			logger.InfoContext(cmd.Context(), "comparing pool benchmarks",
				slog.Int("engines", len(engines)))

			comparison, err := crosslang.ComparePool(cmd.Context(), engines)
			if err != nil {
				return err
			}

			writePoolComparison(os.Stdout, comparison)

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&specs, "engine", nil,
		"Engine as name=command (repeatable; first is the reference)")

	return cmd
}

func newCompareSSGCmd(logger *slog.Logger) *cobra.Command {
	var specs []string

	cmd := &cobra.Command{
		Use:   "ssg",
		Short: "Compare static-site build metrics across engines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engines, err := parseEngines(specs)
			if err != nil {
				return err
			}

			logger.InfoContext(cmd.Context(), "comparing ssg benchmarks",
				slog.Int("engines", len(engines)))

			comparison, err := crosslang.CompareSSG(cmd.Context(), engines)
			if err != nil {
				return err
			}

			writeSSGComparison(os.Stdout, comparison)

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&specs, "engine", nil,
		"Engine as name=command (repeatable; first is the reference)")

	return cmd
}

func parseEngines(specs []string) ([]crosslang.Engine, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one engine must be specified via --engine")
	}

	engines := make([]crosslang.Engine, 0, len(specs))
	for _, spec := range specs {
		engine, err := crosslang.ParseEngineSpec(spec)
		if err != nil {
			return nil, err
		}

		engines = append(engines, engine)
	}

	return engines, nil
}

func writePoolComparison(w io.Writer, c crosslang.PoolComparison) {
	ref := c.Engines[0]

	fmt.Fprintf(w, "%-15s %-20s %-20s %-10s\n",
		"Engine", "Pool (ms)", "Serial (ms)", "vs "+ref.Engine)
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for i, m := range c.Engines {
		serial := "-"
		if m.HasSerial {
			serial = fmt.Sprintf("%.2f", m.SerialMs)
		}

		speedup := "-"
		if i > 0 {
			speedup = fmt.Sprintf("%.2fx", crosslang.PoolSpeedup(ref, m))
		}

		fmt.Fprintf(w, "%-15s %-20.2f %-20s %-10s\n", m.Engine, m.PoolMs, serial, speedup)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Checksum: %d (all engines match)\n", ref.Checksum)
}

func writeSSGComparison(w io.Writer, c crosslang.SSGComparison) {
	ref := c.Engines[0]

	fmt.Fprintf(w, "%-15s %-15s %-20s %-15s %-10s\n",
		"Engine", "Build (ms)", "Files/sec", "Read (ms)", "vs "+ref.Engine)
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for i, m := range c.Engines {
		speedup := "-"
		if i > 0 {
			speedup = fmt.Sprintf("%.2fx", crosslang.BuildSpeedup(ref, m))
		}

		fmt.Fprintf(w, "%-15s %-15.2f %-20.2f %-15.2f %-10s\n",
			m.Engine, m.BuildMs, m.FilesPerSec, m.ReadMs, speedup)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Files: %d  Checksum: %d (all engines match)\n", ref.Files, ref.Checksum)
}
