// Package account builds account key material and addresses, either from a
// fresh random private key or from a BIP-39 mnemonic.
package account

import (
	"fmt"

	"github.com/Klingon-tech/tronkey/internal/log"
	"github.com/Klingon-tech/tronkey/pkg/codec"
	"github.com/Klingon-tech/tronkey/pkg/crypto"
	"github.com/Klingon-tech/tronkey/pkg/hdwallet"
	"github.com/Klingon-tech/tronkey/pkg/types"
	"github.com/rs/zerolog"
)

// KeyProvider generates secp256k1 key material.
type KeyProvider interface {
	GeneratePrivateKey() ([]byte, error)
	PublicKeyFromPrivate(priv []byte) ([]byte, error)
	AddressFromPrivate(priv []byte) ([]byte, error)
}

// AddressEncoder renders address payloads.
type AddressEncoder interface {
	Base58CheckEncode(payload []byte) string
	AddressFromPrivateKeyHex(privHex string) (types.AddressForms, error)
}

// HDWallet derives keys from mnemonics.
type HDWallet interface {
	CreateRandom(path string) (*hdwallet.Key, error)
	FromMnemonic(phrase, path, wordlist string) (*hdwallet.Key, error)
}

// Account is a raw-random key pair and its address. Key fields are lowercase
// hex without a prefix; PublicKey is the uncompressed encoding.
type Account struct {
	PrivateKey string             `json:"privateKey"`
	PublicKey  string             `json:"publicKey"`
	Address    types.AddressForms `json:"address"`
}

// MnemonicAccount is an account derived from a mnemonic. PrivateKey and
// PublicKey are passed through from the HD wallet as 0x-prefixed hex.
type MnemonicAccount struct {
	Mnemonic   *hdwallet.Mnemonic `json:"mnemonic"`
	PrivateKey string             `json:"privateKey"`
	PublicKey  string             `json:"publicKey"`
	Address    string             `json:"address"`
}

// RandomOptions configures GenerateRandom.
type RandomOptions struct {
	Path string
}

// Generator creates accounts. It holds no mutable state.
type Generator struct {
	keys    KeyProvider
	encoder AddressEncoder
	hd      HDWallet
	logger  zerolog.Logger
}

// NewGenerator wires a Generator to the given providers.
func NewGenerator(keys KeyProvider, encoder AddressEncoder, hd HDWallet) *Generator {
	return &Generator{
		keys:    keys,
		encoder: encoder,
		hd:      hd,
		logger:  log.Account,
	}
}

// New returns a Generator backed by secp256k1 and a BIP-39 HD wallet
// generating 12-word phrases.
func New() *Generator {
	return NewGenerator(crypto.Secp256k1{}, crypto.AddressCodec{}, &hdwallet.Provider{})
}

// WithLogger returns a copy of g that logs to logger.
func (g *Generator) WithLogger(logger zerolog.Logger) *Generator {
	c := *g
	c.logger = logger
	return &c
}

// GenerateAccount creates an account from a fresh random private key.
func (g *Generator) GenerateAccount() (*Account, error) {
	priv, err := g.keys.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate private key: %w", err)
	}
	pub, err := g.keys.PublicKeyFromPrivate(priv)
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	payload, err := g.keys.AddressFromPrivate(priv)
	if err != nil {
		return nil, fmt.Errorf("derive address: %w", err)
	}

	acc := &Account{
		PrivateKey: codec.BytesToHex(priv),
		PublicKey:  codec.BytesToHex(pub),
		Address: types.AddressForms{
			Base58: g.encoder.Base58CheckEncode(payload),
			Hex:    codec.BytesToHex(payload),
		},
	}

	g.logger.Debug().Str("address", acc.Address.Base58).Msg("Generated account")
	return acc, nil
}

// GenerateRandom creates a fresh mnemonic and derives the account at
// opts.Path, or at the default path when opts is nil or has no path.
func (g *Generator) GenerateRandom(opts *RandomOptions) (*MnemonicAccount, error) {
	path := hdwallet.DefaultPath
	if opts != nil && opts.Path != "" {
		path = opts.Path
	}
	path, err := hdwallet.ValidatePath(path)
	if err != nil {
		return nil, err
	}

	key, err := g.hd.CreateRandom(path)
	if err != nil {
		return nil, fmt.Errorf("create random wallet: %w", err)
	}
	return g.fromKey(key, path)
}

// GenerateAccountWithMnemonic derives the account at path from mnemonic read
// in wordlist. Empty path and wordlist select the defaults.
func (g *Generator) GenerateAccountWithMnemonic(mnemonic, path, wordlist string) (*MnemonicAccount, error) {
	if path == "" {
		path = hdwallet.DefaultPath
	}
	if wordlist == "" {
		wordlist = hdwallet.DefaultWordlist
	}
	path, err := hdwallet.ValidatePath(path)
	if err != nil {
		return nil, err
	}

	key, err := g.hd.FromMnemonic(mnemonic, path, wordlist)
	if err != nil {
		return nil, fmt.Errorf("derive from mnemonic: %w", err)
	}
	return g.fromKey(key, path)
}

func (g *Generator) fromKey(key *hdwallet.Key, path string) (*MnemonicAccount, error) {
	forms, err := g.encoder.AddressFromPrivateKeyHex(codec.TrimHexPrefix(key.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("derive address: %w", err)
	}

	g.logger.Debug().
		Str("path", path).
		Str("address", forms.Base58).
		Msg("Derived mnemonic account")

	return &MnemonicAccount{
		Mnemonic:   key.Mnemonic,
		PrivateKey: key.PrivateKey,
		PublicKey:  key.PublicKey,
		Address:    forms.Base58,
	}, nil
}
