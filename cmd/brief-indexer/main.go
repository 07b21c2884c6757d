package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wheatondebate/briefdex/internal/config"
	"github.com/wheatondebate/briefdex/internal/services"
)

var (
	version = "dev"
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "brief-indexer",
		Short: "Compile debate briefs into one indexed PDF",
		Long: `brief-indexer reads the team's brief spreadsheet, converts each
referenced document to PDF, assembles a single indexed document with
cross-referenced page numbers, and publishes it to the shared Drive
folder, replacing the previous copy.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("brief-indexer %s\n", version)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: sync, build, publish",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPipeline(cmd.Context(), func(ctx context.Context, p *services.Pipeline) error {
				return p.Run(ctx)
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Refresh the local PDF cache without building or publishing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPipeline(cmd.Context(), func(ctx context.Context, p *services.Pipeline) error {
				kept, dropped, err := p.SyncOnly(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("synced %d briefs, dropped %d\n", len(kept), len(dropped))
				for _, d := range dropped {
					fmt.Printf("  dropped %q: %s\n", d.Title, d.Reason)
				}
				return nil
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "build",
		Short: "Sync and typeset the indexed document without publishing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPipeline(cmd.Context(), func(ctx context.Context, p *services.Pipeline) error {
				pdfPath, err := p.BuildOnly(ctx)
				if err != nil {
					return err
				}
				fmt.Println(pdfPath)
				return nil
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "current",
		Short: "Show the currently published artifact, if any",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPipeline(cmd.Context(), func(ctx context.Context, p *services.Pipeline) error {
				current, err := p.CurrentArtifact(ctx)
				if err != nil {
					return err
				}
				if len(current) == 0 {
					fmt.Println("no published artifact found")
					return nil
				}
				for _, f := range current {
					fmt.Printf("%s\t%s\n", f.ID, f.Name)
				}
				return nil
			})
		},
	})

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed.", "error", err)
		os.Exit(1)
	}
}

func withPipeline(ctx context.Context, fn func(context.Context, *services.Pipeline) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pipeline, cleanup, err := services.NewFromConfig(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(ctx, pipeline)
}
