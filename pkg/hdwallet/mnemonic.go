// Package hdwallet derives BIP-44 account keys for coin type 195 from
// BIP-39 mnemonics.
package hdwallet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/text/unicode/norm"
)

// DefaultEntropyBits is the entropy size for freshly generated 12-word
// mnemonics.
const DefaultEntropyBits = 128

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// Mnemonic is a BIP-39 phrase together with the parameters needed to turn
// it back into a seed.
type Mnemonic struct {
	Phrase   string `json:"phrase"`
	Password string `json:"password,omitempty"`
	Wordlist string `json:"wordlist"`
	Entropy  string `json:"entropy"`
}

// GenerateMnemonic creates a new BIP-39 mnemonic with the given entropy
// size in the given word list.
func GenerateMnemonic(entropyBits int, wordlist string) (*Mnemonic, error) {
	list, err := LookupWordlist(wordlist)
	if err != nil {
		return nil, err
	}

	var m *Mnemonic
	err = withWordlist(list, func() error {
		entropy, err := bip39.NewEntropy(entropyBits)
		if err != nil {
			return fmt.Errorf("generate entropy: %w", err)
		}
		phrase, err := bip39.NewMnemonic(entropy)
		if err != nil {
			return fmt.Errorf("generate mnemonic: %w", err)
		}
		m = &Mnemonic{
			Phrase:   phrase,
			Wordlist: canonicalWordlist(wordlist),
			Entropy:  "0x" + hex.EncodeToString(entropy),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ParseMnemonic validates phrase against the given word list and recovers
// its entropy.
func ParseMnemonic(phrase, wordlist string) (*Mnemonic, error) {
	list, err := LookupWordlist(wordlist)
	if err != nil {
		return nil, err
	}
	phrase = normalizePhrase(phrase)

	var m *Mnemonic
	err = withWordlist(list, func() error {
		if !bip39.IsMnemonicValid(phrase) {
			return ErrInvalidMnemonic
		}
		entropy, err := bip39.EntropyFromMnemonic(phrase)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
		}
		m = &Mnemonic{
			Phrase:   phrase,
			Wordlist: canonicalWordlist(wordlist),
			Entropy:  "0x" + hex.EncodeToString(entropy),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ValidateMnemonic checks if a mnemonic is valid per BIP-39 in the given
// word list (correct word count, valid words, valid checksum).
func ValidateMnemonic(phrase, wordlist string) bool {
	_, err := ParseMnemonic(phrase, wordlist)
	return err == nil
}

// normalizePhrase applies NFKD, the form the bip39 word lists are stored
// in, and collapses runs of whitespace, including the ideographic space
// used by the Japanese list, to single spaces.
func normalizePhrase(phrase string) string {
	return strings.Join(strings.Fields(norm.NFKD.String(phrase)), " ")
}
