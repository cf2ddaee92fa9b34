package provision

import (
	"context"

	"github.com/LumeraProtocol/stakesign/pkg/staking"
	"github.com/ethereum/go-ethereum/common"
)

// StakingAPI is the part of the staking client the workflow needs.
type StakingAPI interface {
	CreateValidators(ctx context.Context, req *staking.CreateValidatorsRequest) (*staking.CreateValidatorsResponse, error)
	Broadcast(ctx context.Context, req *staking.BroadcastRequest) (*staking.BroadcastResponse, error)
}

// HashSigner signs a 32-byte transaction hash.
type HashSigner interface {
	SignHash(hash []byte) ([]byte, error)
	Address() common.Address
}
