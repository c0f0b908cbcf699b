package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile loads configuration values from a .conf file. A missing file
// yields no values.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key. Unknown keys are ignored.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	case "datadir":
		cfg.DataDir = value

	// Account
	case "account.path", "path":
		cfg.Account.Path = value
	case "account.wordlist", "wordlist":
		cfg.Account.Wordlist = value
	case "account.entropy":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Account.EntropyBits = n

	// Keystore
	case "keystore.enabled", "keystore":
		cfg.Keystore.Enabled = parseBool(value)
	case "keystore.backend":
		cfg.Keystore.Backend = strings.ToLower(value)
	case "keystore.kdf.memory":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Keystore.KDFMemory = uint32(n)
	case "keystore.kdf.iterations":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Keystore.KDFIterations = uint32(n)
	case "keystore.kdf.parallelism":
		n, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return err
		}
		cfg.Keystore.KDFParallelism = uint8(n)

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string) error {
	d := Default()
	content := `# tronkey configuration
#
# Command-line flags override values set here.

# Data directory (default: ~/.tronkey)
# datadir = ~/.tronkey

# ============================================================================
# Account derivation
# ============================================================================

# Derivation path; must start with m/44'/195'
account.path = ` + d.Account.Path + `

# Mnemonic word list: en, es, fr, it, ja, ko, zh_cn, zh_tw, cz
account.wordlist = ` + d.Account.Wordlist + `

# Entropy for new mnemonics in bits (128 = 12 words, 256 = 24 words)
account.entropy = ` + strconv.Itoa(d.Account.EntropyBits) + `

# ============================================================================
# Keystore
# ============================================================================

keystore.enabled = true

# Storage backend: badger (on disk) or memory (lost on exit)
keystore.backend = ` + d.Keystore.Backend + `

# Argon2id cost used when sealing new wallets
# keystore.kdf.memory = ` + strconv.FormatUint(uint64(d.Keystore.KDFMemory), 10) + `
# keystore.kdf.iterations = ` + strconv.FormatUint(uint64(d.Keystore.KDFIterations), 10) + `
# keystore.kdf.parallelism = ` + strconv.FormatUint(uint64(d.Keystore.KDFParallelism), 10) + `

# ============================================================================
# Logging
# ============================================================================

# trace, debug, info, warn, error, disabled
log.level = ` + d.Log.Level + `
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
