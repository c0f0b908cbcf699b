// Package config handles tronkey configuration.
//
// Values are resolved in order: built-in defaults, the key = value config
// file, then command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Config holds runtime configuration.
type Config struct {
	DataDir string `conf:"datadir"`

	// Account derivation defaults
	Account AccountConfig

	// Encrypted mnemonic storage
	Keystore KeystoreConfig

	// Logging
	Log LogConfig
}

// AccountConfig holds defaults for account derivation commands.
type AccountConfig struct {
	Path        string `conf:"account.path"`
	Wordlist    string `conf:"account.wordlist"`
	EntropyBits int    `conf:"account.entropy"` // 128..256, multiple of 32
}

// KeystoreConfig holds keystore settings.
type KeystoreConfig struct {
	Enabled bool   `conf:"keystore.enabled"`
	Backend string `conf:"keystore.backend"` // badger or memory

	// Argon2id cost for newly sealed wallets.
	KDFMemory      uint32 `conf:"keystore.kdf.memory"` // KiB
	KDFIterations  uint32 `conf:"keystore.kdf.iterations"`
	KDFParallelism uint8  `conf:"keystore.kdf.parallelism"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.tronkey
//	macOS:   ~/Library/Application Support/Tronkey
//	Windows: %APPDATA%\Tronkey
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tronkey"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Tronkey")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Tronkey")
		}
		return filepath.Join(home, "AppData", "Roaming", "Tronkey")
	default:
		return filepath.Join(home, ".tronkey")
	}
}

// KeystoreDir returns the keystore database directory.
func (c *Config) KeystoreDir() string {
	return filepath.Join(c.DataDir, "keystore")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "tronkey.conf")
}
