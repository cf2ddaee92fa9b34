package keyring

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	sdkkeyring "github.com/cosmos/cosmos-sdk/crypto/keyring"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/cosmos/go-bip39"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// AppName namespaces entries in OS keyrings
	AppName = "stakesign"

	// EthereumCoinType is the SLIP-44 coin type for Ethereum
	EthereumCoinType = 60

	DefaultBIP39Passphrase = ""
	DefaultEntropySize     = 256
)

// DefaultHDPath is m/44'/60'/0'/0/0, the path wallets use for the first
// Ethereum account.
var DefaultHDPath = hd.CreateHDPath(EthereumCoinType, 0, 0).String()

// NewCodec returns the proto codec the keyring uses to serialize records.
func NewCodec() codec.Codec {
	reg := codectypes.NewInterfaceRegistry()
	cryptocodec.RegisterInterfaces(reg)
	return codec.NewProtoCodec(reg)
}

// InitKeyring opens (or creates) a keyring using the given backend and
// directory.
func InitKeyring(backend, dir string) (sdkkeyring.Keyring, error) {
	backend = strings.ToLower(strings.TrimSpace(backend))
	switch backend {
	case sdkkeyring.BackendMemory:
		return sdkkeyring.NewInMemory(NewCodec()), nil
	case sdkkeyring.BackendOS, sdkkeyring.BackendFile, sdkkeyring.BackendTest:
	default:
		return nil, fmt.Errorf("unsupported keyring backend %q", backend)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create keyring directory: %w", err)
	}

	kr, err := sdkkeyring.New(AppName, backend, dir, os.Stdin, NewCodec())
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return kr, nil
}

// CreateNewAccount generates a mnemonic with the given entropy and stores the
// derived secp256k1 key under name.
func CreateNewAccount(kr sdkkeyring.Keyring, name string, entropySize int) (string, *sdkkeyring.Record, error) {
	entropy, err := bip39.NewEntropy(entropySize)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate mnemonic: %w", err)
	}

	info, err := kr.NewAccount(name, mnemonic, DefaultBIP39Passphrase, DefaultHDPath, hd.Secp256k1)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create account: %w", err)
	}

	return mnemonic, info, nil
}

// RecoverAccountFromMnemonic derives the key for mnemonic and stores it under
// name.
func RecoverAccountFromMnemonic(kr sdkkeyring.Keyring, name, mnemonic string) (*sdkkeyring.Record, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}

	info, err := kr.NewAccount(name, mnemonic, DefaultBIP39Passphrase, DefaultHDPath, hd.Secp256k1)
	if err != nil {
		return nil, fmt.Errorf("failed to recover account: %w", err)
	}
	return info, nil
}

// EthereumAddress returns the Ethereum address of the key stored under name.
// Only the public key is read.
func EthereumAddress(kr sdkkeyring.Keyring, name string) (common.Address, error) {
	rec, err := kr.Key(name)
	if err != nil {
		return common.Address{}, fmt.Errorf("key %q not found: %w", name, err)
	}
	return RecordAddress(rec)
}

// RecordAddress returns the Ethereum address of a keyring record.
func RecordAddress(rec *sdkkeyring.Record) (common.Address, error) {
	pk, err := rec.GetPubKey()
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to get public key: %w", err)
	}
	if pk.Type() != "secp256k1" {
		return common.Address{}, fmt.Errorf("key %q has type %s, expected secp256k1", rec.Name, pk.Type())
	}

	pub, err := crypto.DecompressPubkey(pk.Bytes())
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to decode public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// ExportPrivateKey returns the raw secp256k1 private key stored under name.
// Hash signing needs the scalar itself because keyring Sign always hashes the
// message first. Only locally stored keys can be exported.
func ExportPrivateKey(kr sdkkeyring.Keyring, name string) (*ecdsa.PrivateKey, error) {
	rec, err := kr.Key(name)
	if err != nil {
		return nil, fmt.Errorf("key %q not found: %w", name, err)
	}

	local := rec.GetLocal()
	if local == nil || local.PrivKey == nil {
		return nil, fmt.Errorf("key %q is not stored locally", name)
	}

	priv, ok := local.PrivKey.GetCachedValue().(cryptotypes.PrivKey)
	if !ok {
		return nil, fmt.Errorf("key %q: unable to decode private key", name)
	}
	if priv.Type() != "secp256k1" {
		return nil, fmt.Errorf("key %q has type %s, expected secp256k1", name, priv.Type())
	}

	key, err := crypto.ToECDSA(priv.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to parse key %q: %w", name, err)
	}
	return key, nil
}
