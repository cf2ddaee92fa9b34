package signer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/LumeraProtocol/stakesign/pkg/keyring"
	sdkkeyring "github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// HashLength is the size of a transaction hash accepted for signing
	HashLength = common.HashLength

	// SignatureLength is r || s || v
	SignatureLength = crypto.SignatureLength

	// legacyVOffset shifts the recovery id into the 27/28 range used by
	// Ethereum account signatures.
	legacyVOffset = 27
)

var (
	ErrInvalidHash      = errors.New("invalid transaction hash")
	ErrInvalidKey       = errors.New("invalid private key")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Signer signs 32-byte hashes with a locally held secp256k1 key.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// New wraps an existing private key.
func New(key *ecdsa.PrivateKey) (*Signer, error) {
	if key == nil {
		return nil, ErrInvalidKey
	}
	return &Signer{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}, nil
}

// FromHex parses a hex private key, with or without 0x prefix.
func FromHex(hexKey string) (*Signer, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return New(key)
}

// FromKeyring loads the key stored under name.
func FromKeyring(kr sdkkeyring.Keyring, name string) (*Signer, error) {
	key, err := keyring.ExportPrivateKey(kr, name)
	if err != nil {
		return nil, err
	}
	return New(key)
}

// Address returns the Ethereum address of the signing key.
func (s *Signer) Address() common.Address {
	return s.address
}

// SignHash signs a 32-byte hash as-is, without any message prefix. The result
// is r || s || v with v in {27, 28}.
func (s *Signer) SignHash(hash []byte) ([]byte, error) {
	if len(hash) != HashLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidHash, HashLength, len(hash))
	}

	sig, err := crypto.Sign(hash, s.key)
	if err != nil {
		return nil, fmt.Errorf("sign hash: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += legacyVOffset
	return sig, nil
}

// ParseHash decodes a hex hash, with or without 0x prefix.
func ParseHash(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if len(b) != HashLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidHash, HashLength, len(b))
	}
	return b, nil
}

// EncodeSignature renders a signature the way it is printed and sent to the
// broadcast endpoint.
func EncodeSignature(sig []byte) string {
	return hexutil.Encode(sig)
}
