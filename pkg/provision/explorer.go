package provision

import "strings"

// ExplorerTxURL builds the block explorer link for a transaction. A
// configured base wins; otherwise Etherscan is used, with the network as a
// subdomain for testnets.
func ExplorerTxURL(base, network, txHash string) string {
	if base == "" {
		if network == "" || network == "mainnet" {
			base = "https://etherscan.io/tx/"
		} else {
			base = "https://" + network + ".etherscan.io/tx/"
		}
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + txHash
}
