package types

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Klingon-tech/tronkey/pkg/codec"
	"github.com/btcsuite/btcd/btcutil/base58"
)

// AddressSize is the length of an address payload in bytes:
// one prefix byte followed by a 20-byte public key hash.
const AddressSize = 21

// AddressPrefix is the leading byte of every mainnet address payload.
const AddressPrefix byte = 0x41

var ErrInvalidAddress = errors.New("invalid address")

// Address is a 21-byte address payload (prefix + public key hash).
type Address [AddressSize]byte

// AddressForms holds the two textual renderings of one address payload.
type AddressForms struct {
	Base58 string `json:"base58"`
	Hex    string `json:"hex"`
}

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns the Base58Check encoding (e.g. "T...").
func (a Address) String() string {
	return Base58CheckEncode(a[:])
}

// Hex returns the lowercase hex encoding of all 21 bytes, prefix included.
func (a Address) Hex() string {
	return codec.BytesToHex(a[:])
}

// Forms returns both textual renderings.
func (a Address) Forms() AddressForms {
	return AddressForms{Base58: a.String(), Hex: a.Hex()}
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// MarshalJSON encodes the address as a Base58Check string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a Base58Check or hex string into an address.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// AddressFromBytes copies a 21-byte payload into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressSize {
		return Address{}, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidAddress, AddressSize, len(b))
	}
	if b[0] != AddressPrefix {
		return Address{}, fmt.Errorf("%w: prefix 0x%02x, want 0x%02x", ErrInvalidAddress, b[0], AddressPrefix)
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// ParseAddress parses a Base58Check ("T...") or hex ("41...", "0x41...")
// address string.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}

	if isHexAddress(s) {
		return HexToAddress(s)
	}

	payload, err := Base58CheckDecode(s)
	if err != nil {
		return Address{}, err
	}
	return AddressFromBytes(payload)
}

// HexToAddress converts a 42-character hex string (optionally 0x-prefixed)
// to an Address.
func HexToAddress(s string) (Address, error) {
	s = codec.TrimHexPrefix(s)
	if len(s)%2 != 0 {
		return Address{}, fmt.Errorf("%w: odd-length hex", ErrInvalidAddress)
	}
	b, err := codec.HexToBytes(s, true)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return AddressFromBytes(b)
}

// Base58CheckEncode encodes payload as base58(payload || checksum), where
// checksum is the first four bytes of SHA256(SHA256(payload)).
func Base58CheckEncode(payload []byte) string {
	if len(payload) == 0 {
		return ""
	}
	return base58.CheckEncode(payload[1:], payload[0])
}

// Base58CheckDecode verifies the checksum and returns the payload.
func Base58CheckDecode(s string) ([]byte, error) {
	body, version, err := base58.CheckDecode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: base58check: %v", ErrInvalidAddress, err)
	}
	payload := make([]byte, 0, len(body)+1)
	payload = append(payload, version)
	return append(payload, body...), nil
}

// isHexAddress returns true if s looks like a hex-encoded address payload.
func isHexAddress(s string) bool {
	s = codec.TrimHexPrefix(s)
	if len(s) != 2*AddressSize {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !codec.IsHexChar(s[i]) {
			return false
		}
	}
	return true
}
