package crypto

import (
	"fmt"

	"github.com/Klingon-tech/tronkey/pkg/codec"
	"github.com/Klingon-tech/tronkey/pkg/types"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// PrivateKeySize is the length of a serialized private key scalar.
const PrivateKeySize = 32

// PrivateKey wraps a secp256k1 private key.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateKey creates a new random secp256k1 private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes creates a PrivateKey from a 32-byte secret.
// The scalar must be in [1, N-1].
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", PrivateKeySize, len(b))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(b); overflow {
		return nil, fmt.Errorf("private key exceeds curve order")
	}
	if scalar.IsZero() {
		return nil, fmt.Errorf("private key is zero")
	}
	return &PrivateKey{key: secp256k1.NewPrivateKey(&scalar)}, nil
}

// PrivateKeyFromHex parses a hex private key, with or without a 0x prefix.
func PrivateKeyFromHex(s string) (*PrivateKey, error) {
	b, err := codec.HexToBytes(codec.TrimHexPrefix(s), true)
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	return PrivateKeyFromBytes(b)
}

// PublicKey returns the 65-byte uncompressed public key (0x04 || X || Y).
func (pk *PrivateKey) PublicKey() []byte {
	return pk.key.PubKey().SerializeUncompressed()
}

// PublicKeyCompressed returns the 33-byte compressed public key.
func (pk *PrivateKey) PublicKeyCompressed() []byte {
	return pk.key.PubKey().SerializeCompressed()
}

// Address derives the account address for this key.
func (pk *PrivateKey) Address() types.Address {
	uncompressed := pk.PublicKey()
	return types.AddressFromHash(Keccak256(uncompressed[1:]))
}

// Serialize returns the 32-byte private key scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// Hex returns the lowercase hex encoding of the private key scalar.
func (pk *PrivateKey) Hex() string {
	return codec.BytesToHex(pk.Serialize())
}

// Zero securely zeroes the private key memory.
func (pk *PrivateKey) Zero() {
	pk.key.Zero()
}
