package codec

import (
	"encoding/base64"
	"fmt"
)

// UTF8Encode packs code points into bytes using the UTF-8 layout.
//
// Surrogate code points are packed like any other 3-byte value. Values
// outside [0, 0x10FFFF] fall through to the single-byte branch and are
// masked to their low 8 bits.
func UTF8Encode(cps []rune) []byte {
	out := make([]byte, 0, len(cps))
	for _, r := range cps {
		c := uint32(r)
		switch {
		case c >= 0x010000 && c <= 0x10ffff:
			out = append(out,
				byte(0xf0|(c>>18&0x07)),
				byte(0x80|(c>>12&0x3f)),
				byte(0x80|(c>>6&0x3f)),
				byte(0x80|(c&0x3f)))
		case c >= 0x000800 && c <= 0x00ffff:
			out = append(out,
				byte(0xe0|(c>>12&0x0f)),
				byte(0x80|(c>>6&0x3f)),
				byte(0x80|(c&0x3f)))
		case c >= 0x000080 && c <= 0x0007ff:
			out = append(out,
				byte(0xc0|(c>>6&0x1f)),
				byte(0x80|(c&0x3f)))
		default:
			out = append(out, byte(c&0xff))
		}
	}
	return out
}

// UTF8Decode is the inverse of UTF8Encode.
func UTF8Decode(b []byte) ([]rune, error) {
	out := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		lead := b[i]
		var (
			n  int
			cp uint32
		)
		switch {
		case lead < 0x80:
			n, cp = 1, uint32(lead)
		case lead&0xe0 == 0xc0:
			n, cp = 2, uint32(lead&0x1f)
		case lead&0xf0 == 0xe0:
			n, cp = 3, uint32(lead&0x0f)
		case lead&0xf8 == 0xf0:
			n, cp = 4, uint32(lead&0x07)
		default:
			return nil, fmt.Errorf("%w: bad lead byte 0x%02x at offset %d", ErrMalformedUTF8, lead, i)
		}
		if i+n > len(b) {
			return nil, fmt.Errorf("%w: truncated sequence at offset %d", ErrMalformedUTF8, i)
		}
		for j := 1; j < n; j++ {
			cont := b[i+j]
			if cont&0xc0 != 0x80 {
				return nil, fmt.Errorf("%w: bad continuation byte 0x%02x at offset %d", ErrMalformedUTF8, cont, i+j)
			}
			cp = cp<<6 | uint32(cont&0x3f)
		}
		out = append(out, rune(cp))
		i += n
	}
	return out, nil
}

// StringToBytes encodes the code points of s with UTF8Encode.
func StringToBytes(s string) []byte {
	return UTF8Encode([]rune(s))
}

// BytesToString decodes b with UTF8Decode.
func BytesToString(b []byte) (string, error) {
	runes, err := UTF8Decode(b)
	if err != nil {
		return "", err
	}
	return string(runes), nil
}

// Base64Encode encodes b with the standard Base64 alphabet.
func Base64Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Base64Decode decodes a standard Base64 string.
func Base64Decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	return b, nil
}
