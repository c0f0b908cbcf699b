// Package codec converts between byte sequences, hex strings and UTF-8 text.
//
// The conversions are bit-exact and implemented numerically so that key
// material and addresses round-trip without depending on platform encoders.
package codec

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidHexCharacter = errors.New("invalid hex character")
	ErrMalformedUTF8       = errors.New("malformed utf-8 sequence")
)

const hexDigits = "0123456789abcdef"

// HexCharToNibble maps one of 0-9, A-F, a-f to its 4-bit value.
func HexCharToNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidHexCharacter, string(rune(c)))
}

// IsHexChar reports whether c is a hex digit.
func IsHexChar(c byte) bool {
	return (c >= '0' && c <= '9') ||
		(c >= 'A' && c <= 'F') ||
		(c >= 'a' && c <= 'f')
}

// HexToBytes packs a hex string into bytes, two characters per byte.
//
// When strict is set and the input has odd length, a single '0' is
// prepended before packing. Otherwise an odd trailing character is still
// validated but produces no output byte.
func HexToBytes(s string, strict bool) ([]byte, error) {
	if strict && len(s)%2 == 1 {
		s = "0" + s
	}

	out := make([]byte, len(s)/2)
	var acc byte
	k := 0
	for i := 0; i < len(s); i++ {
		n, err := HexCharToNibble(s[i])
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", i, err)
		}
		acc = acc<<4 | n
		if i%2 == 1 {
			out[k] = acc
			k++
			acc = 0
		}
	}
	return out, nil
}

// ByteToHex returns the two lowercase hex characters for b.
func ByteToHex(b byte) string {
	return string([]byte{hexDigits[b>>4], hexDigits[b&0x0f]})
}

// BytesToHex encodes b as lowercase hex, two characters per byte.
func BytesToHex(b []byte) string {
	out := make([]byte, 2*len(b))
	for i, v := range b {
		out[2*i] = hexDigits[v>>4]
		out[2*i+1] = hexDigits[v&0x0f]
	}
	return string(out)
}

// TrimHexPrefix strips a leading "0x" or "0X".
func TrimHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}

// HexToString decodes hex pairs and maps each byte to the code point of the
// same value. A "0x" prefix is ignored.
func HexToString(s string) (string, error) {
	b, err := HexToBytes(TrimHexPrefix(s), false)
	if err != nil {
		return "", err
	}
	runes := make([]rune, len(b))
	for i, v := range b {
		runes[i] = rune(v)
	}
	return string(runes), nil
}
