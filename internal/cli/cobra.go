package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root Cobra command.
func NewRootCmd(root *Root) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spotcheck",
		Short: "Spotcheck verifies light-spot statistics against expectations",
		Long: `Spotcheck computes centroid position and intensity-dispersion statistics
of a light spot in a grayscale image, compares them against expected values,
and persists the results to JSON, a local run archive, and InfluxDB.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newAnalyzeCmd(root))
	rootCmd.AddCommand(newHistoryCmd(root))
	rootCmd.AddCommand(newServeCmd(root))
	rootCmd.AddCommand(newConfigCmd(root))
	rootCmd.AddCommand(newVersionCmd(root))

	return rootCmd
}

func newAnalyzeCmd(root *Root) *cobra.Command {
	var (
		expectPath    string
		output        string
		projectionDir string
		noDB          bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Analyze a light-spot image and verify it against expectations",
		Long: `Load an image, compute centroid, standard deviation, variance and axis
projections, compare them against the expectation file, and persist the
results. Sink failures are reported but do not fail the command.

Examples:
  spotcheck analyze image.jpg
  spotcheck analyze image.jpg --expect Input.yml --output Output.json
  spotcheck analyze image.jpg --no-db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := AnalyzeOptions{
				ImagePath:     args[0],
				ExpectPath:    expectPath,
				JSONOutput:    output,
				ProjectionDir: projectionDir,
				SkipDB:        noDB,
			}
			if opts.ExpectPath == "" {
				opts.ExpectPath = root.cfg.Paths.Expectations
			}
			if opts.JSONOutput == "" {
				opts.JSONOutput = root.cfg.Paths.JSONOutput
			}
			if opts.ProjectionDir == "" {
				opts.ProjectionDir = root.cfg.Paths.ProjectionDir
			}

			report, err := root.Analyze(cmd.Context(), opts)
			if err != nil {
				return err
			}
			root.printReport(report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&expectPath, "expect", "e", "", "expectation YAML file (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "JSON result output path (default from config)")
	cmd.Flags().StringVar(&projectionDir, "projection-dir", "", "directory for projection text files (default from config)")
	cmd.Flags().BoolVar(&noDB, "no-db", false, "skip the InfluxDB write")

	return cmd
}

func newHistoryCmd(root *Root) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent analysis runs from the local archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := root.store.RecentRuns(limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}
			if len(recs) == 0 {
				fmt.Fprintln(root.out, "No runs recorded yet.")
				return nil
			}
			for _, rec := range recs {
				verdict := "PASS"
				if !rec.PositionPass || !rec.StdPass || !rec.DispersionPass {
					verdict = "FAIL"
				}
				fmt.Fprintf(root.out, "%s  %s  centroid=(%d,%d) std=%.4f var=%.4f  %s  %s\n",
					rec.ID, verdict, rec.CentroidX, rec.CentroidY, rec.StdDev, rec.Variance,
					rec.ImagePath, rec.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of runs to list")

	return cmd
}

func newServeCmd(root *Root) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the read-only results API over the run archive",
		Long: `Start an HTTP server exposing recent analysis runs.

Examples:
  spotcheck serve --addr :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			root.log.Info("starting results API", "addr", addr)
			return root.serveFn(ctx, addr, root.store, root.log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

func newConfigCmd(root *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(root.out, "Expectation File: %s\n", root.cfg.Paths.Expectations)
			fmt.Fprintf(root.out, "JSON Output: %s\n", root.cfg.Paths.JSONOutput)
			fmt.Fprintf(root.out, "Projection Dir: %s\n", root.cfg.Paths.ProjectionDir)
			fmt.Fprintf(root.out, "Database Path: %s\n", root.cfg.Paths.DatabasePath)
			fmt.Fprintf(root.out, "Influx: %s:%d db=%s enabled=%t\n",
				root.cfg.Influx.Host, root.cfg.Influx.Port, root.cfg.Influx.Database, root.cfg.Influx.Enabled)
			fmt.Fprintf(root.out, "Tolerance: %g\n", root.cfg.Compare.Tolerance)
			fmt.Fprintf(root.out, "Log Level: %s\n", root.cfg.Logging.Level)
			fmt.Fprintf(root.out, "Log Format: %s\n", root.cfg.Logging.Format)
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := os.Getenv("SPOTCHECK_CONFIG")
			if path == "" {
				path = "~/.config/spotcheck/config.json (default)"
			}
			fmt.Fprintln(root.out, path)
			return nil
		},
	}

	cmd.AddCommand(showCmd)
	cmd.AddCommand(pathCmd)

	return cmd
}

func newVersionCmd(root *Root) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(root.out, "spotcheck %s\n", Version)
			fmt.Fprintf(root.out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(root.out, "  Git commit: %s\n", GitCommit)
			return nil
		},
	}
}
