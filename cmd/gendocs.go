package cmd

import (
	"github.com/edgeorch/rater/util/fsutil"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var genMarkdownCmd = &cobra.Command{
	Use:    "genmarkdown [dir]",
	Short:  "generate markdown formatted documentation for the rater commands",
	Hidden: true,
	Args:   cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "./rater-cmd-docs"
		if len(args) == 1 {
			dir = args[0]
		}
		if err := fsutil.EnsureDir(dir); err != nil {
			return err
		}
		return doc.GenMarkdownTree(RootCmd, dir)
	},
}
