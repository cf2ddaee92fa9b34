package cmd

import (
	"fmt"

	"github.com/LumeraProtocol/stakesign/pkg/provision"
	"github.com/spf13/cobra"
)

var (
	broadcastSerialized string
	broadcastSignature  string
	broadcastNetwork    string
	broadcastYes        bool
)

// broadcastCmd submits a transaction signed earlier with 'stakesign sign'
var broadcastCmd = &cobra.Command{
	Use:   "broadcast",
	Short: "Broadcast a signed staking transaction",
	Long: `Submit a previously signed staking transaction through the staking API.

Example:
  stakesign broadcast --serialized 0x02f8... --signature 0x5c1b...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd, "broadcast")

		network := appConfig.Network
		if cmd.Flags().Changed("network") {
			network = broadcastNetwork
		}

		client, err := newStakingClient(appConfig)
		if err != nil {
			return err
		}

		if !broadcastYes {
			ok, err := confirmBroadcast(network)(ctx, nil)
			if err != nil {
				return err
			}
			if !ok {
				return provision.ErrBroadcastDeclined
			}
		}

		w := provision.New(client, nil, provision.WithOutput(cmd.OutOrStdout()))
		if _, _, err := w.Broadcast(ctx, network, broadcastSerialized, broadcastSignature, appConfig.Explorer.BaseURL); err != nil {
			return fmt.Errorf("failed to broadcast transaction: %w", err)
		}
		return nil
	},
}

func init() {
	f := broadcastCmd.Flags()
	f.StringVar(&broadcastSerialized, "serialized", "", "Unsigned transaction, serialized")
	f.StringVar(&broadcastSignature, "signature", "", "Signature over the transaction hash")
	f.StringVar(&broadcastNetwork, "network", "", "Network override")
	f.BoolVarP(&broadcastYes, "yes", "y", false, "Skip the confirmation prompt")
	_ = broadcastCmd.MarkFlagRequired("serialized")
	_ = broadcastCmd.MarkFlagRequired("signature")

	rootCmd.AddCommand(broadcastCmd)
}
