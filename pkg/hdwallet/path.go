package hdwallet

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"

	"github.com/tyler-smith/go-bip32"
)

// BIP-44 derivation path constants.
// Full path: m/44'/195'/account'/change/index
const (
	// HardenedKeyStart is the first hardened child index.
	HardenedKeyStart = bip32.FirstHardenedChild

	// PurposeBIP44 is the BIP-44 purpose field (hardened).
	PurposeBIP44 = HardenedKeyStart + 44

	// CoinTypeTron is the SLIP-44 registered coin type.
	CoinTypeTron = 195

	// ChangeExternal is for receiving addresses.
	ChangeExternal = 0

	// ChangeInternal is for change addresses.
	ChangeInternal = 1

	// DefaultPath is the canonical index-0 account path.
	DefaultPath = "m/44'/195'/0'/0/0"
)

var (
	ErrInvalidDerivationPath   = errors.New("invalid tron path provided")
	ErrNullDerivationPath      = errors.New("derivation path is empty")
	ErrMalformedDerivationPath = errors.New("malformed derivation path")
)

var tronPathPattern = regexp.MustCompile(fmt.Sprintf(`^m/44'/%d'`, CoinTypeTron))

// ValidatePath checks that path starts with m/44'/195' and returns it
// unchanged. Only the coin-type prefix is inspected.
func ValidatePath(path string) (string, error) {
	if !tronPathPattern.MatchString(path) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDerivationPath, path)
	}
	return path, nil
}

// DerivationPath is the parsed form of a BIP-32 path. Hardened components
// carry HardenedKeyStart.
type DerivationPath []uint32

// TronPath returns m/44'/195'/account'/change/index.
func TronPath(account, change, index uint32) DerivationPath {
	return DerivationPath{
		PurposeBIP44,
		HardenedKeyStart + CoinTypeTron,
		HardenedKeyStart + account,
		change,
		index,
	}
}

// ParseDerivationPath converts a derivation path string to its parsed form.
// Absolute ("m/...") and relative paths are accepted; components may be
// decimal or 0x-prefixed hex and end in ' when hardened.
func ParseDerivationPath(strPath string) (DerivationPath, error) {
	if strings.TrimSpace(strPath) == "" {
		return nil, ErrNullDerivationPath
	}

	elems := strings.Split(strPath, "/")
	if len(elems) < 2 || containsEmptyString(elems) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedDerivationPath, strPath)
	}
	if strings.TrimSpace(elems[0]) == "m" {
		elems = elems[1:]
	}

	path := make(DerivationPath, 0, len(elems))
	for _, elem := range elems {
		elem = strings.TrimSpace(elem)
		var value uint32

		if strings.HasSuffix(elem, "'") {
			value = HardenedKeyStart
			elem = strings.TrimSpace(strings.TrimSuffix(elem, "'"))
		}

		bigval, ok := new(big.Int).SetString(elem, 0)
		if !ok {
			return nil, fmt.Errorf("%w: invalid element %q", ErrMalformedDerivationPath, elem)
		}

		max := math.MaxUint32 - value
		if bigval.Sign() < 0 || bigval.Cmp(new(big.Int).SetUint64(uint64(max))) > 0 {
			if value == 0 {
				return nil, fmt.Errorf("%w: element %v must be in range [0, %d]", ErrMalformedDerivationPath, bigval, max)
			}
			return nil, fmt.Errorf("%w: element %v must be in hardened range [0, %d]", ErrMalformedDerivationPath, bigval, max)
		}
		value += uint32(bigval.Uint64())

		path = append(path, value)
	}

	return path, nil
}

// String renders the canonical m/... form.
func (path DerivationPath) String() string {
	if len(path) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("m")
	for _, component := range path {
		hardened := component >= HardenedKeyStart
		if hardened {
			component -= HardenedKeyStart
		}
		fmt.Fprintf(&b, "/%d", component)
		if hardened {
			b.WriteByte('\'')
		}
	}
	return b.String()
}

// CoinType returns the unhardened coin-type component and whether the path
// is long enough to carry one.
func (path DerivationPath) CoinType() (uint32, bool) {
	if len(path) < 2 || path[1] < HardenedKeyStart {
		return 0, false
	}
	return path[1] - HardenedKeyStart, true
}

func containsEmptyString(elems []string) bool {
	for _, s := range elems {
		if s == "" {
			return true
		}
	}
	return false
}
