// Package crypto provides the secp256k1 key and Keccak-256 address
// primitives used for account derivation.
package crypto

import (
	"fmt"

	"github.com/Klingon-tech/tronkey/pkg/types"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"
)

// Keccak256 computes the legacy Keccak-256 digest of the concatenated inputs.
func Keccak256(data ...[]byte) types.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out types.Hash
	h.Sum(out[:0])
	return out
}

// AddressFromPubKey derives an address from a public key.
// Address = 0x41 || Keccak256(uncompressed_pubkey[1:])[12:].
// Both 33-byte compressed and 65-byte uncompressed encodings are accepted.
func AddressFromPubKey(pubKey []byte) (types.Address, error) {
	pub, err := secp256k1.ParsePubKey(pubKey)
	if err != nil {
		return types.Address{}, fmt.Errorf("parse public key: %w", err)
	}
	uncompressed := pub.SerializeUncompressed()
	return types.AddressFromHash(Keccak256(uncompressed[1:])), nil
}
