package main

import (
	"os"
	"os/signal"

	"github.com/fieldworks/matchbot/pkg/log"
	"github.com/fieldworks/matchbot/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the MatchBot services",
	Long:  `Initializes and starts all configured transports (HTTP API, Telegram) against the tournament database and website cache.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting matchbot")

		deps := NewDependencies(ctx, true)

		srv.StartServices(ctx, deps.Services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, deps.Services)
		logger.Info().Msg("matchbot has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
