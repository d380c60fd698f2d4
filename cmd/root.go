// Package cmd contains the rater CLI commands.
package cmd

import (
	"github.com/edgeorch/rater/cmd/score"
	"github.com/edgeorch/rater/cmd/serve"
	"github.com/edgeorch/rater/cmd/strategies"
	"github.com/edgeorch/rater/cmd/version"
	"github.com/spf13/cobra"
)

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:           "rater",
	Short:         "Scores how suitable this device is for running offloaded work.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	RootCmd.AddCommand(completionCmd)
	RootCmd.AddCommand(genMarkdownCmd)
	RootCmd.AddCommand(score.NewCommand())
	RootCmd.AddCommand(serve.NewCommand())
	RootCmd.AddCommand(strategies.NewCommand())
	RootCmd.AddCommand(version.Cmd)
}
