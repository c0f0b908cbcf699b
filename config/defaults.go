package config

import (
	"github.com/Klingon-tech/tronkey/internal/storage"
	"github.com/Klingon-tech/tronkey/pkg/hdwallet"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Account: AccountConfig{
			Path:        hdwallet.DefaultPath,
			Wordlist:    hdwallet.DefaultWordlist,
			EntropyBits: hdwallet.DefaultEntropyBits,
		},
		Keystore: KeystoreConfig{
			Enabled:        true,
			Backend:        storage.BackendBadger,
			KDFMemory:      64 * 1024,
			KDFIterations:  3,
			KDFParallelism: 4,
		},
		Log: LogConfig{
			Level: "warn",
			JSON:  false,
		},
	}
}
