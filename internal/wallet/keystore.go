package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Klingon-tech/tronkey/internal/log"
	"github.com/Klingon-tech/tronkey/internal/storage"
	"github.com/Klingon-tech/tronkey/pkg/hdwallet"
	"github.com/rs/zerolog"
)

const recordVersion = 1

var (
	ErrWalletExists   = errors.New("wallet already exists")
	ErrWalletNotFound = errors.New("wallet not found")
	ErrInvalidName    = errors.New("invalid wallet name")
	ErrAccountExists  = errors.New("account already recorded")
)

var walletPrefix = []byte("wallet/")

// walletRecord is the stored form of a wallet. Only the mnemonic secret is
// encrypted; account metadata stays readable without the password.
type walletRecord struct {
	Version           int            `json:"version"`
	CreatedAt         time.Time      `json:"created_at"`
	Wordlist          string         `json:"wordlist"`
	EncryptedMnemonic []byte         `json:"encrypted_mnemonic"`
	Accounts          []AccountEntry `json:"accounts"`
	NextIndex         uint32         `json:"next_index"`
}

// secret is the plaintext sealed into walletRecord.EncryptedMnemonic.
type secret struct {
	Phrase   string `json:"phrase"`
	Password string `json:"password,omitempty"`
}

// AccountEntry stores metadata for a derived account.
type AccountEntry struct {
	Path    string `json:"path"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address"` // base58check
}

// Keystore stores password-encrypted mnemonics and the accounts derived
// from them.
type Keystore struct {
	mu     sync.Mutex // serializes read-modify-write of records
	db     *storage.PrefixDB
	params EncryptionParams
	logger zerolog.Logger
}

// NewKeystore creates a keystore over db. The keystore does not own db.
func NewKeystore(db storage.DB, params EncryptionParams) *Keystore {
	return &Keystore{
		db:     storage.NewPrefixDB(db, walletPrefix),
		params: params,
		logger: log.Keystore,
	}
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\x00") || strings.TrimSpace(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Create stores m under name, sealed with password.
func (ks *Keystore) Create(name string, m *hdwallet.Mnemonic, password []byte) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if err := validateName(name); err != nil {
		return err
	}
	exists, err := ks.db.Has([]byte(name))
	if err != nil {
		return fmt.Errorf("check wallet: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %q", ErrWalletExists, name)
	}
	if !hdwallet.ValidateMnemonic(m.Phrase, m.Wordlist) {
		return hdwallet.ErrInvalidMnemonic
	}

	plain, err := json.Marshal(secret{Phrase: m.Phrase, Password: m.Password})
	if err != nil {
		return fmt.Errorf("marshal mnemonic: %w", err)
	}
	defer zero(plain)

	done := log.Benchmark("keystore.encrypt")
	sealed, err := Encrypt(plain, password, ks.params)
	done()
	if err != nil {
		return fmt.Errorf("encrypt mnemonic: %w", err)
	}

	rec := walletRecord{
		Version:           recordVersion,
		CreatedAt:         time.Now().UTC(),
		Wordlist:          m.Wordlist,
		EncryptedMnemonic: sealed,
		Accounts:          []AccountEntry{},
	}
	if err := ks.write(name, &rec); err != nil {
		return err
	}

	ks.logger.Info().Str("wallet", name).Msg("Wallet created")
	return nil
}

// Load decrypts the wallet's mnemonic.
func (ks *Keystore) Load(name string, password []byte) (*hdwallet.Mnemonic, error) {
	rec, err := ks.read(name)
	if err != nil {
		return nil, err
	}

	plain, err := Decrypt(rec.EncryptedMnemonic, password)
	if err != nil {
		return nil, fmt.Errorf("decrypt wallet %q: %w", name, err)
	}
	defer zero(plain)

	var s secret
	if err := json.Unmarshal(plain, &s); err != nil {
		return nil, fmt.Errorf("parse mnemonic: %w", err)
	}

	m, err := hdwallet.ParseMnemonic(s.Phrase, rec.Wordlist)
	if err != nil {
		return nil, err
	}
	m.Password = s.Password
	return m, nil
}

// AddAccount records a derived account in the wallet metadata. The path is
// stored in canonical form. Re-adding the same path with the same address
// is a no-op; any other overlap with a recorded account is ErrAccountExists.
func (ks *Keystore) AddAccount(name string, acct AccountEntry) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if _, err := hdwallet.ValidatePath(acct.Path); err != nil {
		return err
	}
	dp, err := hdwallet.ParseDerivationPath(acct.Path)
	if err != nil {
		return err
	}
	acct.Path = dp.String()

	rec, err := ks.read(name)
	if err != nil {
		return err
	}

	for _, existing := range rec.Accounts {
		switch {
		case existing.Path == acct.Path && existing.Address == acct.Address:
			return nil
		case existing.Path == acct.Path:
			return fmt.Errorf("%w: path %s has address %s", ErrAccountExists, acct.Path, existing.Address)
		case acct.Address != "" && existing.Address == acct.Address:
			return fmt.Errorf("%w: address %s is at path %s", ErrAccountExists, acct.Address, existing.Path)
		}
	}

	rec.Accounts = append(rec.Accounts, acct)
	return ks.write(name, rec)
}

// DeriveNext decrypts the wallet, derives the account at the next unused
// external index of account 0, and records it. Indices whose path was
// already recorded through AddAccount are skipped.
func (ks *Keystore) DeriveNext(name string, password []byte, label string) (*AccountEntry, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	rec, err := ks.read(name)
	if err != nil {
		return nil, err
	}
	m, err := ks.Load(name, password)
	if err != nil {
		return nil, err
	}

	seed, err := hdwallet.SeedFromMnemonic(m.Phrase, m.Password, m.Wordlist)
	if err != nil {
		return nil, err
	}
	defer zero(seed)
	master, err := hdwallet.NewMasterKey(seed)
	if err != nil {
		return nil, err
	}

	index := rec.NextIndex
	for rec.hasPath(hdwallet.TronPath(0, hdwallet.ChangeExternal, index).String()) {
		index++
		if index >= hdwallet.HardenedKeyStart {
			return nil, fmt.Errorf("wallet %q: external indices exhausted", name)
		}
	}

	path := hdwallet.TronPath(0, hdwallet.ChangeExternal, index)
	key, err := master.DerivePath(path)
	if err != nil {
		return nil, err
	}
	addr, err := key.Address()
	if err != nil {
		return nil, err
	}

	entry := AccountEntry{Path: path.String(), Name: label, Address: addr.String()}
	rec.Accounts = append(rec.Accounts, entry)
	rec.NextIndex = index + 1
	if err := ks.write(name, rec); err != nil {
		return nil, err
	}

	ks.logger.Debug().
		Str("wallet", name).
		Str("path", entry.Path).
		Str("address", entry.Address).
		Msg("Derived wallet account")
	return &entry, nil
}

// ListAccounts returns the account entries for a wallet.
func (ks *Keystore) ListAccounts(name string) ([]AccountEntry, error) {
	rec, err := ks.read(name)
	if err != nil {
		return nil, err
	}
	return rec.Accounts, nil
}

// NextIndex returns the external index DeriveNext starts searching from.
func (ks *Keystore) NextIndex(name string) (uint32, error) {
	rec, err := ks.read(name)
	if err != nil {
		return 0, err
	}
	return rec.NextIndex, nil
}

// List returns the names of all stored wallets, sorted.
func (ks *Keystore) List() ([]string, error) {
	var names []string
	err := ks.db.ForEach(nil, func(key, _ []byte) error {
		names = append(names, string(key))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a wallet.
func (ks *Keystore) Delete(name string) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	exists, err := ks.db.Has([]byte(name))
	if err != nil {
		return fmt.Errorf("check wallet: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	if err := ks.db.Delete([]byte(name)); err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	ks.logger.Info().Str("wallet", name).Msg("Wallet deleted")
	return nil
}

func (rec *walletRecord) hasPath(path string) bool {
	for _, a := range rec.Accounts {
		if a.Path == path {
			return true
		}
	}
	return false
}

// Purge removes every wallet in the keystore and returns how many were
// removed. Other data sharing the database is left alone.
func (ks *Keystore) Purge() (int, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	n, err := ks.db.DeleteAll()
	if err != nil {
		return n, fmt.Errorf("purge wallets: %w", err)
	}
	ks.logger.Info().Int("wallets", n).Msg("Keystore purged")
	return n, nil
}

func (ks *Keystore) write(name string, rec *walletRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}
	if err := ks.db.Put([]byte(name), data); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

func (ks *Keystore) read(name string) (*walletRecord, error) {
	data, err := ks.db.Get([]byte(name))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	var rec walletRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	if rec.Version != recordVersion {
		return nil, fmt.Errorf("unsupported wallet version: %d", rec.Version)
	}
	return &rec, nil
}
