package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/kernel-auth/sigverify/mechanisms/evm"
	"github.com/kernel-auth/sigverify/metrics"
	"github.com/kernel-auth/sigverify/types"
)

var (
	verifyIdentity  string
	verifyAddress   string
	verifyHash      string
	verifyMessage   string
	verifyTypedData string
	verifySignature string
	verifyJSON      bool

	verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Check a signature and exit 0 when it is valid",
		Long: `Check a signature for an identity's account, or a pre-formatted signature for an address.

With --identity the signature is the raw ERC-1271 signature and is wrapped for ERC-6492 when
the account is not deployed yet. With --address it must already be in universal form.

Examples:
  sigverify verify --identity email:alice@example.com --hash 0xec36... --signature 0x...
  sigverify verify --address 0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B --message hello --signature 0x...`,
		Args: cobra.NoArgs,
		RunE: runVerify,
	}
)

func init() {
	verifyCmd.Flags().StringVar(&verifyIdentity, "identity", "", "identity whose Kernel account signed")
	verifyCmd.Flags().StringVar(&verifyAddress, "address", "", "account address for a pre-formatted signature")
	verifyCmd.Flags().StringVar(&verifyHash, "hash", "", "32-byte digest as hex")
	verifyCmd.Flags().StringVar(&verifyMessage, "message", "", "message to hash with EIP-191")
	verifyCmd.Flags().StringVar(&verifyTypedData, "typed-data", "", "path to an EIP-712 JSON document, - for stdin")
	verifyCmd.Flags().StringVar(&verifySignature, "signature", "", "signature as hex")
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "print the verdict as JSON")

	verifyCmd.MarkFlagsMutuallyExclusive("identity", "address")
	verifyCmd.MarkFlagsOneRequired("identity", "address")
	verifyCmd.MarkFlagsMutuallyExclusive("hash", "message", "typed-data")
	verifyCmd.MarkFlagsOneRequired("hash", "message", "typed-data")
	_ = verifyCmd.MarkFlagRequired("signature")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	req, err := buildVerifyRequest(cmd.InOrStdin())
	if err != nil {
		return usageError(err)
	}
	digest, err := req.Digest()
	if err != nil {
		return usageError(err)
	}
	signature, err := req.SignatureBytes()
	if err != nil {
		return usageError(err)
	}
	if req.Address != "" && !evm.IsValidAddress(req.Address) {
		return usageError(fmt.Errorf("invalid address %q", req.Address))
	}

	a, err := newApp(cmd.Context(), metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer a.Close()

	var resp types.VerifyResponse
	if req.Address != "" {
		address := common.HexToAddress(req.Address)
		result, err := a.verifier.VerifySignature(cmd.Context(), address, digest, signature)
		if err != nil {
			return infraError(err)
		}
		resp = types.NewVerifyResponse(result, address, digest)
	} else {
		verification, err := a.verifier.Verify(cmd.Context(), req.Identity, digest, signature)
		if err != nil {
			return infraError(err)
		}
		resp = types.NewVerifyResponse(&verification.VerificationResult, verification.Account, digest)
		resp.Identity = verification.Identity
		resp.Deployed = &verification.Deployed
	}

	if err := printVerdict(cmd.OutOrStdout(), resp); err != nil {
		return infraError(err)
	}
	if !resp.IsValid {
		return errInvalid
	}
	return nil
}

func buildVerifyRequest(stdin io.Reader) (*types.VerifyRequest, error) {
	req := &types.VerifyRequest{
		Identity:  verifyIdentity,
		Address:   verifyAddress,
		Hash:      verifyHash,
		Message:   verifyMessage,
		Signature: verifySignature,
	}
	if verifyTypedData == "" {
		return req, nil
	}

	var (
		data []byte
		err  error
	)
	if verifyTypedData == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(verifyTypedData)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read typed data: %w", err)
	}
	if !json.Valid(data) {
		return nil, errors.New("typed data is not valid JSON")
	}
	req.TypedData = data
	return req, nil
}

func printVerdict(w io.Writer, resp types.VerifyResponse) error {
	if verifyJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	_, err := fmt.Fprintf(w, "%s\naccount: %s\npath:    %s\ndigest:  %s\n",
		lo.Ternary(resp.IsValid, "valid", "invalid"),
		resp.Account,
		resp.Path,
		resp.Digest,
	)
	if err == nil && resp.Reason != "" {
		_, err = fmt.Fprintf(w, "reason:  %s\n", resp.Reason)
	}
	return err
}
