package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kernel-auth/sigverify/metrics"
	"github.com/kernel-auth/sigverify/types"
)

var (
	formatIdentity  string
	formatSignature string

	formatCmd = &cobra.Command{
		Use:   "format",
		Short: "Print the universal signature for an identity",
		Long: `Wrap a raw ERC-1271 signature for the identity's account.

A deployed account gets the signature back unchanged. An undeployed account gets an ERC-6492
envelope carrying the factory address and createAccount calldata.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := types.FormatRequest{Identity: formatIdentity, Signature: formatSignature}
			raw, err := req.SignatureBytes()
			if err != nil {
				return usageError(err)
			}

			a, err := newApp(cmd.Context(), metrics.NoopRecorder{})
			if err != nil {
				return err
			}
			defer a.Close()

			formatted, err := a.verifier.Format(cmd.Context(), req.Identity, raw)
			if err != nil {
				return infraError(err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(types.NewFormatResponse(formatted))
		},
	}
)

func init() {
	formatCmd.Flags().StringVar(&formatIdentity, "identity", "", "identity whose Kernel account signed")
	formatCmd.Flags().StringVar(&formatSignature, "signature", "", "raw signature as hex")
	_ = formatCmd.MarkFlagRequired("identity")
	_ = formatCmd.MarkFlagRequired("signature")

	rootCmd.AddCommand(formatCmd)
}
