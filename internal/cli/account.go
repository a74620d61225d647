package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kernel-auth/sigverify/metrics"
	"github.com/kernel-auth/sigverify/types"
)

var accountCmd = &cobra.Command{
	Use:   "account <identity>",
	Short: "Show the Kernel account an identity maps to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), metrics.NoopRecorder{})
		if err != nil {
			return err
		}
		defer a.Close()

		account, deployed, err := a.verifier.Account(cmd.Context(), args[0])
		if err != nil {
			return infraError(err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(types.NewAccountResponse(account, deployed))
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
}
