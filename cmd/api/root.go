package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "marketplace",
	Short:         "Talent marketplace backend",
	Long:          "Matches talent profiles with business services, tracks engagements and aggregates reviews into reputation scores.",
	SilenceUsage:  true,
	SilenceErrors: true,
}
