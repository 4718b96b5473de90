package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"geocapture/internal/app"
	"geocapture/internal/config"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(config.Load()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "geocapture",
		Short:        "Receive geotagged captures, store them on disk and show them in a gallery",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.NewApp(cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Run(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.UploadDirectory, "upload-dir", cfg.UploadDirectory, "directory for stored images and the location log")
	flags.StringVar(&cfg.FrontendDirectory, "frontend-dir", cfg.FrontendDirectory, "pre-built front-end bundle served at /")
	flags.StringVar(&cfg.BindAddress, "bind", cfg.BindAddress, "address to listen on")
	flags.IntVar(&cfg.Port, "port", cfg.Port, "port to listen on")
	flags.StringVar(&cfg.LogDirectory, "log-dir", cfg.LogDirectory, "directory for server logs")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	root.AddCommand(newAuditCommand(cfg))
	return root
}

func newAuditCommand(cfg *config.Config) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check that every stored capture has exactly one matching location log entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.NewApp(cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			report, err := application.CaptureService().Audit(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "Captures on disk: %d (%d bytes)\n", report.Files, report.TotalBytes)
				fmt.Fprintf(out, "Location log entries: %d\n", report.LogEntries)
				for _, name := range report.Orphans {
					fmt.Fprintf(out, "⚠️  No log entry: %s\n", name)
				}
				for _, name := range report.Dangling {
					fmt.Fprintf(out, "⚠️  Missing file: %s\n", name)
				}
			}

			if !report.Consistent() {
				return fmt.Errorf("%d orphaned files, %d dangling log entries", len(report.Orphans), len(report.Dangling))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
