package hdwallet

import (
	"fmt"

	"github.com/Klingon-tech/tronkey/pkg/codec"
)

// Key is a node derived from a mnemonic. PrivateKey and PublicKey are
// 0x-prefixed lowercase hex; PublicKey is the compressed encoding.
type Key struct {
	Mnemonic   *Mnemonic `json:"mnemonic"`
	Path       string    `json:"path"`
	PrivateKey string    `json:"privateKey"`
	PublicKey  string    `json:"publicKey"`
}

// Provider derives keys from BIP-39 mnemonics. The zero value generates
// 12-word English phrases without a passphrase.
type Provider struct {
	EntropyBits int
	Password    string
}

// NewProvider returns a Provider generating mnemonics from entropyBits bits
// of entropy.
func NewProvider(entropyBits int) *Provider {
	return &Provider{EntropyBits: entropyBits}
}

// CreateRandom generates a fresh English mnemonic and derives the key at path.
func (p *Provider) CreateRandom(path string) (*Key, error) {
	bits := p.EntropyBits
	if bits == 0 {
		bits = DefaultEntropyBits
	}
	m, err := GenerateMnemonic(bits, DefaultWordlist)
	if err != nil {
		return nil, err
	}
	return p.derive(m, path)
}

// FromMnemonic derives the key at path from phrase, read in the given word
// list.
func (p *Provider) FromMnemonic(phrase, path, wordlist string) (*Key, error) {
	m, err := ParseMnemonic(phrase, wordlist)
	if err != nil {
		return nil, err
	}
	return p.derive(m, path)
}

func (p *Provider) derive(m *Mnemonic, path string) (*Key, error) {
	dp, err := ParseDerivationPath(path)
	if err != nil {
		return nil, err
	}
	m.Password = p.Password

	seed, err := SeedFromMnemonic(m.Phrase, m.Password, m.Wordlist)
	if err != nil {
		return nil, err
	}
	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	node, err := master.DerivePath(dp)
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", path, err)
	}

	return &Key{
		Mnemonic:   m,
		Path:       path,
		PrivateKey: "0x" + codec.BytesToHex(node.PrivateKeyBytes()),
		PublicKey:  "0x" + codec.BytesToHex(node.PublicKeyBytes()),
	}, nil
}
