package main

import (
	"context"
	"os"

	"github.com/fieldworks/matchbot/internal/config"
	"github.com/fieldworks/matchbot/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "matchbot",
	Short: "MatchBot — tournament Q&A bot",
	Long:  `MatchBot answers questions about a sports tournament from its database and website, over HTTP and Telegram.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
