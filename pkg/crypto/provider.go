package crypto

import (
	"fmt"

	"github.com/Klingon-tech/tronkey/pkg/codec"
	"github.com/Klingon-tech/tronkey/pkg/types"
)

// Secp256k1 generates secp256k1 keys and derives public keys and address
// payloads from raw private key bytes.
type Secp256k1 struct{}

// GeneratePrivateKey returns 32 fresh random private key bytes.
func (Secp256k1) GeneratePrivateKey() ([]byte, error) {
	key, err := GenerateKey()
	if err != nil {
		return nil, err
	}
	return key.Serialize(), nil
}

// PublicKeyFromPrivate returns the 65-byte uncompressed public key.
func (Secp256k1) PublicKeyFromPrivate(priv []byte) ([]byte, error) {
	key, err := PrivateKeyFromBytes(priv)
	if err != nil {
		return nil, err
	}
	return key.PublicKey(), nil
}

// AddressFromPrivate returns the 21-byte address payload.
func (Secp256k1) AddressFromPrivate(priv []byte) ([]byte, error) {
	key, err := PrivateKeyFromBytes(priv)
	if err != nil {
		return nil, err
	}
	addr := key.Address()
	return addr.Bytes(), nil
}

// AddressCodec renders address payloads and derives addresses from hex
// private keys.
type AddressCodec struct{}

// Base58CheckEncode encodes an address payload as Base58Check text.
func (AddressCodec) Base58CheckEncode(payload []byte) string {
	return types.Base58CheckEncode(payload)
}

// AddressFromPrivateKeyHex derives both address forms from a hex private
// key. The key must not carry a 0x prefix; odd-length input is left-padded.
func (AddressCodec) AddressFromPrivateKeyHex(privHex string) (types.AddressForms, error) {
	priv, err := codec.HexToBytes(privHex, true)
	if err != nil {
		return types.AddressForms{}, fmt.Errorf("decode private key: %w", err)
	}
	key, err := PrivateKeyFromBytes(priv)
	if err != nil {
		return types.AddressForms{}, err
	}
	defer key.Zero()
	return key.Address().Forms(), nil
}
