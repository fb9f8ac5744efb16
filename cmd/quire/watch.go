package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/quire/pkg/adapters/lifecycle"
	"github.com/aretw0/quire/pkg/core"
)

var watchTypes []string

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Print note changes as they happen (fs stores only)",
	Long:  `Watch the store for created, modified and deleted notes whose ID matches a glob pattern (default "**").`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := "**"
		if len(args) == 1 {
			pattern = args[0]
		}

		cfg, err := loadConfig()
		if err != nil {
			fatal("Error loading config", err)
		}
		svc, err := openService(cfg, slog.Default())
		if err != nil {
			fatal("Error opening store", err)
		}
		defer closeService(svc)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events, err := svc.Watch(ctx, pattern)
		if err != nil {
			fatal("Error watching store", err)
		}

		var opts []lifecycle.SourceOption
		if len(watchTypes) > 0 {
			types := make([]core.EventType, len(watchTypes))
			for i, t := range watchTypes {
				types[i] = core.EventType(strings.ToUpper(t))
			}
			opts = append(opts, lifecycle.WithTypes(types...))
		}

		src := lifecycle.NewSource(events, opts...)
		if err := src.Start(ctx); err != nil {
			fatal("Error starting event source", err)
		}
		slog.Info("watching", "pattern", pattern)
		for e := range src.Events() {
			fmt.Println(e.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceVar(&watchTypes, "type", nil, "Only report these event types (CREATE, MODIFY, DELETE)")
}
