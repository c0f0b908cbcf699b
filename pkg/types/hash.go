// Package types defines the address and hash primitives shared by the
// derivation packages.
package types

import "github.com/Klingon-tech/tronkey/pkg/codec"

// HashSize is the length of a Keccak-256 digest in bytes.
const HashSize = 32

// Hash is a Keccak-256 digest.
type Hash [HashSize]byte

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the hex-encoded hash.
func (h Hash) String() string {
	return codec.BytesToHex(h[:])
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// AddressFromHash builds an address from the last 20 bytes of a public key
// digest, behind AddressPrefix.
func AddressFromHash(h Hash) Address {
	var a Address
	a[0] = AddressPrefix
	copy(a[1:], h[HashSize-(AddressSize-1):])
	return a
}
