package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var retryMailsCmd = &cobra.Command{
	Use:   "retry-mails",
	Short: "Run a single mail retry sweep and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.dispatcher.Sweep(ctx)
		if err != nil {
			return fmt.Errorf("mail sweep: %w", err)
		}
		a.log.Info("mail sweep done",
			zap.Bool("skipped", result.Skipped),
			zap.Int("sent", result.Sent),
			zap.Int("failed", result.Failed),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(retryMailsCmd)
}
