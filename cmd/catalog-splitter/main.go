package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/packlane/catalog-splitter/internal/config"
	"github.com/packlane/catalog-splitter/internal/logging"
	"github.com/packlane/catalog-splitter/internal/metrics"
	"github.com/packlane/catalog-splitter/internal/sink"
	"github.com/packlane/catalog-splitter/internal/source"
	"github.com/packlane/catalog-splitter/internal/splitter"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "catalog-splitter",
		Short:        "Split a content build's default catalog into named catalogs",
		Version:      fmt.Sprintf("%s (%s)", splitter.Version, splitter.GitSHA),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "catalog-splitter.yaml", "path to config file")

	root.AddCommand(newBuildCmd(&configPath))
	root.AddCommand(newCleanCmd(&configPath))
	return root
}

func newBuildCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Run one split pass over the base build's outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(*configPath)
			if err != nil {
				return err
			}
			logging.Setup(cfg.Logging)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			go func() {
				ch := make(chan os.Signal, 1)
				signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
				<-ch
				cancel()
			}()

			src, err := source.New(cfg.Source)
			if err != nil {
				return fmt.Errorf("create source: %w", err)
			}
			defer src.Close()

			snk, err := sink.NewJSONSink(cfg.Sink, logging.Component("sink"))
			if err != nil {
				return fmt.Errorf("create sink: %w", err)
			}
			defer snk.Close()

			var m *metrics.Metrics
			if cfg.Metrics.Enabled {
				m = metrics.New()
				metrics.Serve(cfg.Metrics.Listen, logging.Component("metrics"))
			}

			return splitter.New(cfg, src, snk, m).Run(ctx)
		},
	}
}

func newCleanCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove previously emitted catalog build directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(*configPath)
			if err != nil {
				return err
			}
			logging.Setup(cfg.Logging)

			var m *metrics.Metrics
			if cfg.Metrics.Enabled {
				m = metrics.New()
				metrics.Serve(cfg.Metrics.Listen, logging.Component("metrics"))
			}

			return splitter.New(cfg, nil, nil, m).Clean()
		},
	}
}
