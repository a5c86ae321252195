package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/burakmert236/firstblood/common/config"
	"github.com/burakmert236/firstblood/services/firstblood-service/app"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	env := config.NewEnvLoader(config.EnvPrefix)

	cmd := &cobra.Command{
		Use:          "firstblood",
		Short:        "Compute first blood awards from a CTFd export",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = opts.logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Log.Format = opts.logFormat
			}
			opts.cfg = cfg
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", env.GetString("CONFIG_PATH", ""), "directory containing config.yaml")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "console", "log format (console, json)")

	cmd.AddCommand(newRunCmd(opts), newExtractCmd(opts), newLatestCmd(opts))
	return cmd
}

func newRunCmd(root *rootOptions) *cobra.Command {
	var (
		output     string
		workers    int
		extractDir string
		indent     int
	)

	cmd := &cobra.Command{
		Use:   "run <export>",
		Short: "Compute first bloods and write the report",
		Long: `Reads a CTFd export (a .zip archive or an extracted directory), finds the
first eligible correct submission of every challenge and writes the winners
as a JSON array. Configured Redis, DynamoDB and NATS sinks receive the same
report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if cmd.Flags().Changed("output") {
				cfg.Output.Path = output
			}
			if cmd.Flags().Changed("workers") {
				cfg.Pipeline.Workers = workers
			}
			if cmd.Flags().Changed("extract-dir") {
				cfg.Export.ExtractDir = extractDir
			}
			if cmd.Flags().Changed("indent") {
				cfg.Output.Indent = indent
			}

			application, appErr := app.New(cmd.Context(), cfg, app.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()))
			if appErr != nil {
				return appErr
			}
			defer application.Stop()

			return application.Run(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `report path, "-" for stdout (default from config)`)
	cmd.Flags().IntVar(&workers, "workers", 1, "goroutines used to resolve challenges")
	cmd.Flags().StringVar(&extractDir, "extract-dir", "", "unpack a .zip export here before reading it")
	cmd.Flags().IntVar(&indent, "indent", 4, "JSON indent width, 0 for compact output")

	return cmd
}

func newExtractCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <export.zip> <dir>",
		Short: "Unpack a CTFd export archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, appErr := app.NewExtractor(cmd.Context(), root.cfg, app.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()))
			if appErr != nil {
				return appErr
			}
			defer application.Stop()

			n, err := application.Extract(args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d files to %s\n", n, args[1])
			return nil
		},
	}
}

func newLatestCmd(root *rootOptions) *cobra.Command {
	var (
		runID   string
		winners bool
	)

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Print a report cached in Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, appErr := app.NewReportReader(cmd.Context(), root.cfg, app.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()))
			if appErr != nil {
				return appErr
			}
			defer application.Stop()

			var result interface{}
			var err error
			if winners {
				result, err = application.CachedWinners(cmd.Context())
			} else {
				result, err = application.CachedReport(cmd.Context(), runID)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			if indent := root.cfg.Output.Indent; indent > 0 {
				enc.SetIndent("", strings.Repeat(" ", indent))
			}
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&runID, "run-id", "", "run to print (default: the latest run)")
	cmd.Flags().BoolVar(&winners, "winners", false, "print only challenge and team of the latest run")

	return cmd
}
