package config

import (
	"fmt"

	"github.com/Klingon-tech/tronkey/internal/log"
	"github.com/Klingon-tech/tronkey/internal/storage"
	"github.com/Klingon-tech/tronkey/pkg/hdwallet"
)

// Validate checks the configuration for operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir must not be empty")
	}

	if _, err := hdwallet.ValidatePath(cfg.Account.Path); err != nil {
		return fmt.Errorf("account.path: %w", err)
	}
	if _, err := hdwallet.ParseDerivationPath(cfg.Account.Path); err != nil {
		return fmt.Errorf("account.path: %w", err)
	}
	if _, err := hdwallet.LookupWordlist(cfg.Account.Wordlist); err != nil {
		return fmt.Errorf("account.wordlist: %w", err)
	}
	if b := cfg.Account.EntropyBits; b < 128 || b > 256 || b%32 != 0 {
		return fmt.Errorf("account.entropy must be 128, 160, 192, 224 or 256, got %d", b)
	}

	switch cfg.Keystore.Backend {
	case storage.BackendBadger, storage.BackendMemory:
	default:
		return fmt.Errorf("keystore.backend must be badger or memory, got %q", cfg.Keystore.Backend)
	}
	if cfg.Keystore.KDFIterations == 0 || cfg.Keystore.KDFParallelism == 0 {
		return fmt.Errorf("keystore.kdf iterations and parallelism must be positive")
	}
	if cfg.Keystore.KDFMemory < 8*uint32(cfg.Keystore.KDFParallelism) {
		return fmt.Errorf("keystore.kdf.memory must be at least 8 KiB per lane")
	}

	if !log.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level %q is not a known level", cfg.Log.Level)
	}
	return nil
}
