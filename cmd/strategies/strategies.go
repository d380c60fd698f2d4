// Package strategies contains the "rater strategies" command.
package strategies

import (
	"fmt"
	"io"

	"github.com/edgeorch/rater/cmd/util"
	"github.com/edgeorch/rater/config"
	"github.com/edgeorch/rater/scoring"
	"github.com/spf13/cobra"
)

// NewCommand returns the strategies command
func NewCommand() *cobra.Command {
	cmd, _ := newCommandHooks()
	return cmd
}

type hooks struct {
	Run func(conf config.Config, out io.Writer) error
}

func newCommandHooks() (*cobra.Command, *hooks) {
	hooks := &hooks{
		Run: Run,
	}

	var (
		configFile string
		flagConf   config.Config
	)

	cmd := &cobra.Command{
		Use:     "strategies",
		Aliases: []string{"strategy"},
		Short:   "List the scoring strategies which can be selected.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := util.MergeConfigFileWithFlags(configFile, flagConf)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}
			return hooks.Run(conf, cmd.OutOrStdout())
		},
	}

	cmd.SetGlobalNormalizationFunc(util.NormalizeFlags)
	cmd.Flags().StringVarP(&configFile, "config", "c", configFile, "Config File")

	return cmd, hooks
}

// Run writes the name of every strategy, built-in and configured, to out.
// The bound strategy is marked with "*".
func Run(conf config.Config, out io.Writer) error {
	reg := scoring.NewDefaultRegistry()
	if _, err := scoring.FromConfig(conf.Scoring, reg); err != nil {
		return err
	}
	for _, name := range reg.Names() {
		mark := " "
		if name == conf.Scoring.Strategy {
			mark = "*"
		}
		if _, err := fmt.Fprintf(out, "%s %s\n", mark, name); err != nil {
			return err
		}
	}
	return nil
}
