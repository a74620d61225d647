package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kernel-auth/sigverify"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sigverify %s\n", sigverify.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
