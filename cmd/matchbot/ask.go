package main

import (
	"fmt"

	"github.com/fieldworks/matchbot/pkg/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var askThreadID string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question from the command line",
	Long:  `Runs a single question through the pipeline and prints the answer. Useful for smoke-testing a deployment without a transport.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		deps := NewDependencies(ctx, false)
		defer func() {
			for _, s := range deps.Services {
				if err := s.Shutdown(ctx); err != nil {
					log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", s)
				}
			}
		}()

		threadID := askThreadID
		if threadID == "" {
			threadID = uuid.NewString()
		}

		question := args[0]
		for _, a := range args[1:] {
			question += " " + a
		}

		answer, err := deps.Engine.Run(ctx, threadID, question)
		if err != nil {
			return err
		}

		fmt.Println(answer)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askThreadID, "thread", "t", "", "thread id to continue a conversation")
	rootCmd.AddCommand(askCmd)
}
