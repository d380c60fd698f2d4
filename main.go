package main

import (
	"os"

	"github.com/edgeorch/rater/cmd"
	"github.com/edgeorch/rater/logger"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		logger.PrintSimpleError(err)
		os.Exit(1)
	}
}
