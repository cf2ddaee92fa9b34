package signer

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverAddress returns the address whose key produced sig over hash. The
// recovery byte may be 0/1 or 27/28.
func RecoverAddress(hash, sig []byte) (common.Address, error) {
	if len(hash) != HashLength {
		return common.Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidHash, HashLength, len(hash))
	}
	normalized, err := normalizeV(sig)
	if err != nil {
		return common.Address{}, err
	}

	pub, err := crypto.SigToPub(hash, normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// VerifySignature reports whether sig over hash was produced by address.
func VerifySignature(hash, sig []byte, address common.Address) bool {
	if len(hash) != HashLength {
		return false
	}
	normalized, err := normalizeV(sig)
	if err != nil {
		return false
	}
	pub, err := crypto.SigToPub(hash, normalized)
	if err != nil {
		return false
	}
	if crypto.PubkeyToAddress(*pub) != address {
		return false
	}
	return crypto.VerifySignature(crypto.FromECDSAPub(pub), hash, normalized[:crypto.RecoveryIDOffset])
}

func normalizeV(sig []byte) ([]byte, error) {
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, SignatureLength, len(sig))
	}
	out := make([]byte, SignatureLength)
	copy(out, sig)

	v := out[crypto.RecoveryIDOffset]
	switch v {
	case 0, 1:
	case legacyVOffset, legacyVOffset + 1:
		out[crypto.RecoveryIDOffset] = v - legacyVOffset
	default:
		return nil, fmt.Errorf("%w: unexpected recovery id %d", ErrInvalidSignature, v)
	}
	return out, nil
}
