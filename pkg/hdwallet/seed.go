package hdwallet

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/text/unicode/norm"
)

// SeedSize is the length of a derived seed in bytes (512 bits).
const SeedSize = 64

// SeedFromMnemonic derives a 512-bit seed from a mnemonic and optional passphrase
// using PBKDF2-SHA512 as specified in BIP-39. The phrase is checked against
// the given word list first. Phrase and passphrase are NFKD-normalised.
func SeedFromMnemonic(phrase, passphrase, wordlist string) ([]byte, error) {
	list, err := LookupWordlist(wordlist)
	if err != nil {
		return nil, err
	}
	phrase = normalizePhrase(phrase)
	passphrase = norm.NFKD.String(passphrase)

	var seed []byte
	err = withWordlist(list, func() error {
		if !bip39.IsMnemonicValid(phrase) {
			return ErrInvalidMnemonic
		}
		s, err := bip39.NewSeedWithErrorChecking(phrase, passphrase)
		if err != nil {
			return fmt.Errorf("derive seed: %w", err)
		}
		seed = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seed, nil
}
