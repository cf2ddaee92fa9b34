package signer

import (
	"strings"
	"testing"

	"github.com/LumeraProtocol/stakesign/pkg/keyring"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	devPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	devAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	devMnemonic   = "test test test test test test test test test test test junk"
	sampleHash    = "0x4fd0c1b2a9e3f0e1d2c3b4a5968778695a4b3c2d1e0f11223344556677889900"
)

func TestFromHex(t *testing.T) {
	withPrefix, err := FromHex(devPrivateKey)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(devAddress), withPrefix.Address())

	bare, err := FromHex(strings.TrimPrefix(devPrivateKey, "0x"))
	require.NoError(t, err)
	assert.Equal(t, withPrefix.Address(), bare.Address())
}

func TestFromHex_Invalid(t *testing.T) {
	for _, in := range []string{"", "0x", "zz", "0x1234"} {
		_, err := FromHex(in)
		assert.ErrorIs(t, err, ErrInvalidKey, in)
	}
}

func TestParseHash(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"prefixed", sampleHash, false},
		{"bare", strings.TrimPrefix(sampleHash, "0x"), false},
		{"upper prefix", "0X" + strings.TrimPrefix(sampleHash, "0x"), false},
		{"padded", "  " + sampleHash + "\n", false},
		{"too short", "0x1234", true},
		{"too long", sampleHash + "00", true},
		{"not hex", "0x" + strings.Repeat("g", 64), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseHash(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidHash)
				return
			}
			require.NoError(t, err)
			assert.Len(t, b, HashLength)
		})
	}
}

func TestSignHash_VerifiesAgainstSignerKey(t *testing.T) {
	s, err := FromHex(devPrivateKey)
	require.NoError(t, err)
	hash, err := ParseHash(sampleHash)
	require.NoError(t, err)

	sig, err := s.SignHash(hash)
	require.NoError(t, err)
	require.Len(t, sig, SignatureLength)

	v := sig[SignatureLength-1]
	assert.True(t, v == 27 || v == 28, "unexpected v %d", v)

	recovered, err := RecoverAddress(hash, sig)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(devAddress), recovered)
	assert.True(t, VerifySignature(hash, sig, s.Address()))
}

func TestSignHash_Deterministic(t *testing.T) {
	s, err := FromHex(devPrivateKey)
	require.NoError(t, err)
	hash, err := ParseHash(sampleHash)
	require.NoError(t, err)

	a, err := s.SignHash(hash)
	require.NoError(t, err)
	b, err := s.SignHash(hash)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSignHash_RejectsWrongLength(t *testing.T) {
	s, err := FromHex(devPrivateKey)
	require.NoError(t, err)

	_, err = s.SignHash([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestSignHash_RandomKeys(t *testing.T) {
	hash := crypto.Keccak256([]byte("validator deposit"))

	for i := 0; i < 16; i++ {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		s, err := New(key)
		require.NoError(t, err)

		sig, err := s.SignHash(hash)
		require.NoError(t, err)
		assert.True(t, VerifySignature(hash, sig, s.Address()))
	}
}

func TestVerifySignature_Rejects(t *testing.T) {
	s, err := FromHex(devPrivateKey)
	require.NoError(t, err)
	hash, err := ParseHash(sampleHash)
	require.NoError(t, err)
	sig, err := s.SignHash(hash)
	require.NoError(t, err)

	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	assert.False(t, VerifySignature(hash, sig, crypto.PubkeyToAddress(other.PublicKey)))

	otherHash := crypto.Keccak256([]byte("different"))
	assert.False(t, VerifySignature(otherHash, sig, s.Address()))

	badV := append([]byte(nil), sig...)
	badV[SignatureLength-1] = 5
	assert.False(t, VerifySignature(hash, badV, s.Address()))

	_, err = RecoverAddress(hash, badV)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	assert.False(t, VerifySignature(hash, sig[:64], s.Address()))
}

func TestRecoverAddress_AcceptsRawRecoveryID(t *testing.T) {
	s, err := FromHex(devPrivateKey)
	require.NoError(t, err)
	hash, err := ParseHash(sampleHash)
	require.NoError(t, err)
	sig, err := s.SignHash(hash)
	require.NoError(t, err)

	raw := append([]byte(nil), sig...)
	raw[SignatureLength-1] -= 27

	addr, err := RecoverAddress(hash, raw)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), addr)
}

func TestFromKeyring(t *testing.T) {
	kr, err := keyring.InitKeyring("memory", "")
	require.NoError(t, err)
	_, err = keyring.RecoverAccountFromMnemonic(kr, "dev", devMnemonic)
	require.NoError(t, err)

	s, err := FromKeyring(kr, "dev")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(devAddress), s.Address())

	_, err = FromKeyring(kr, "missing")
	assert.Error(t, err)
}

func TestEncodeSignature(t *testing.T) {
	assert.Equal(t, "0x01ff", EncodeSignature([]byte{0x01, 0xff}))
}
