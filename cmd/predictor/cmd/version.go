package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the predictor version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("predictor %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
