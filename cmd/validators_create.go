package cmd

import (
	"fmt"

	"github.com/LumeraProtocol/stakesign/pkg/logtrace"
	"github.com/LumeraProtocol/stakesign/pkg/provision"
	"github.com/spf13/cobra"
)

var (
	createNetwork      string
	createCount        int
	createWithdrawal   string
	createFunding      string
	createFeeRecipient string
	createRegion       string
	createBroadcast    bool
	createYes          bool
)

// validatorsCreateCmd requests new validators and signs the returned transaction
var validatorsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create validators and sign the staking transaction",
	Long: `Request the creation of new validators from the staking API, then sign the
hash of the returned unsigned transaction with the local key.

Prints the serialized unsigned transaction, its hash and the signature.
Addresses left empty default to the signing key's address.

Example:
  stakesign validators create --network holesky --count 1
  stakesign validators create --broadcast --yes`,
	Args: cobra.NoArgs,
	RunE: runValidatorsCreate,
}

func runValidatorsCreate(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd, "validators-create")
	cfg := appConfig

	req := provision.Request{
		Network:             cfg.Network,
		ValidatorsCount:     cfg.ValidatorsCount,
		WithdrawalAddress:   cfg.Addresses.Withdrawal,
		FundingAddress:      cfg.Addresses.Funding,
		FeeRecipientAddress: cfg.Addresses.FeeRecipient,
		Region:              cfg.Region,
		Broadcast:           createBroadcast,
		ExplorerBaseURL:     cfg.Explorer.BaseURL,
	}

	flags := cmd.Flags()
	if flags.Changed("network") {
		req.Network = createNetwork
	}
	if flags.Changed("count") {
		req.ValidatorsCount = createCount
	}
	if flags.Changed("withdrawal-address") {
		req.WithdrawalAddress = createWithdrawal
	}
	if flags.Changed("funding-address") {
		req.FundingAddress = createFunding
	}
	if flags.Changed("fee-recipient-address") {
		req.FeeRecipientAddress = createFeeRecipient
	}
	if flags.Changed("region") {
		req.Region = createRegion
	}

	s, err := loadSigner(ctx, cfg)
	if err != nil {
		return err
	}

	client, err := newStakingClient(cfg)
	if err != nil {
		return err
	}

	opts := []provision.Option{provision.WithOutput(cmd.OutOrStdout())}
	if createBroadcast && !createYes {
		opts = append(opts, provision.WithConfirm(confirmBroadcast(req.Network)))
	}

	res, err := provision.New(client, s, opts...).Run(ctx, req)
	if err != nil {
		logtrace.Error(ctx, "Validator creation failed", logtrace.Fields{
			logtrace.FieldNetwork: req.Network,
			logtrace.FieldError:   err.Error(),
		})
		return err
	}

	if res.TxHash != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d validator(s) successfully!\n", req.ValidatorsCount)
	}
	return nil
}

func init() {
	f := validatorsCreateCmd.Flags()
	f.StringVar(&createNetwork, "network", "", "Network to provision on (mainnet, holesky, hoodi)")
	f.IntVar(&createCount, "count", 0, "Number of validators to create")
	f.StringVar(&createWithdrawal, "withdrawal-address", "", "Withdrawal address")
	f.StringVar(&createFunding, "funding-address", "", "Funding address")
	f.StringVar(&createFeeRecipient, "fee-recipient-address", "", "Fee recipient address")
	f.StringVar(&createRegion, "region", "", "Validator hosting region")
	f.BoolVar(&createBroadcast, "broadcast", false, "Broadcast the signed transaction")
	f.BoolVarP(&createYes, "yes", "y", false, "Skip the broadcast confirmation prompt")

	validatorsCmd.AddCommand(validatorsCreateCmd)
}
