package staking

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// CreateValidatorsRequest is the body of POST /ethereum/validators.
type CreateValidatorsRequest struct {
	Network             string `json:"network"`
	ValidatorsCount     int    `json:"validators_count"`
	WithdrawalAddress   string `json:"withdrawal_address"`
	FundingAddress      string `json:"funding_address"`
	FeeRecipientAddress string `json:"fee_recipient_address"`
	Region              string `json:"region"`
}

// Validate checks the request is complete before anything is sent.
func (r *CreateValidatorsRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Network) == "" {
		return fmt.Errorf("%w: network is required", ErrInvalidRequest)
	}
	if r.ValidatorsCount < 1 {
		return fmt.Errorf("%w: validators_count must be at least 1", ErrInvalidRequest)
	}
	for _, f := range []struct{ name, addr string }{
		{"withdrawal_address", r.WithdrawalAddress},
		{"funding_address", r.FundingAddress},
		{"fee_recipient_address", r.FeeRecipientAddress},
	} {
		if !common.IsHexAddress(f.addr) {
			return fmt.Errorf("%w: %s %q is not a valid address", ErrInvalidRequest, f.name, f.addr)
		}
	}
	if strings.TrimSpace(r.Region) == "" {
		return fmt.Errorf("%w: region is required", ErrInvalidRequest)
	}
	return nil
}

// StakingTransaction holds the unsigned transaction returned for signing.
type StakingTransaction struct {
	UnsignedTransactionSerialized string `json:"unsigned_transaction_serialized"`
	UnsignedTransactionHashed     string `json:"unsigned_transaction_hashed"`
	ContractCallData              string `json:"contract_call_data,omitempty"`
}

// CreateValidatorsResponse is the subset of the response this tool reads.
// Data is kept raw; its shape is not needed for signing.
type CreateValidatorsResponse struct {
	Data RawJSON `json:"data,omitempty"`
	Meta struct {
		StakingTransaction *StakingTransaction `json:"staking_transaction"`
	} `json:"meta"`
}

// StakingTransaction extracts the unsigned transaction, failing when either
// the serialized or the hashed form is missing or empty. The serialized form
// is checked first.
func (r *CreateValidatorsResponse) StakingTransaction() (StakingTransaction, error) {
	if r == nil || r.Meta.StakingTransaction == nil {
		return StakingTransaction{}, ErrMissingSerialized
	}
	tx := *r.Meta.StakingTransaction
	if tx.UnsignedTransactionSerialized == "" {
		return StakingTransaction{}, ErrMissingSerialized
	}
	if tx.UnsignedTransactionHashed == "" {
		return StakingTransaction{}, ErrMissingHashed
	}
	return tx, nil
}

// BroadcastRequest is the body of POST /ethereum/broadcast.
type BroadcastRequest struct {
	Network                       string `json:"network"`
	Signature                     string `json:"signature"`
	UnsignedTransactionSerialized string `json:"unsigned_transaction_serialized"`
}

// Validate checks the broadcast request is complete.
func (r *BroadcastRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Network) == "" {
		return fmt.Errorf("%w: network is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Signature) == "" {
		return fmt.Errorf("%w: signature is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.UnsignedTransactionSerialized) == "" {
		return fmt.Errorf("%w: unsigned_transaction_serialized is required", ErrInvalidRequest)
	}
	return nil
}

// BroadcastResponse carries the hash of the submitted transaction.
type BroadcastResponse struct {
	Data struct {
		TransactionHash string `json:"transaction_hash"`
	} `json:"data"`
}
