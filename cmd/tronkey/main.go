// tronkey is a command-line tool for deriving Tron account keys and
// addresses and for keeping mnemonics in an encrypted local keystore.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/Klingon-tech/tronkey/config"
	"github.com/Klingon-tech/tronkey/internal/log"
	"github.com/Klingon-tech/tronkey/pkg/account"
	"github.com/Klingon-tech/tronkey/pkg/codec"
	"github.com/Klingon-tech/tronkey/pkg/crypto"
	"github.com/Klingon-tech/tronkey/pkg/hdwallet"
	"github.com/Klingon-tech/tronkey/pkg/types"
	"golang.org/x/term"
)

func main() {
	cfg, flags, err := config.Load(os.Args[1:])
	if err != nil {
		fatal("%v", err)
	}
	if flags.Version {
		fmt.Printf("tronkey %s\n", config.Version)
		return
	}
	if flags.Help || len(flags.Args) == 0 {
		usage()
		if !flags.Help {
			os.Exit(1)
		}
		return
	}

	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fatal("init logging: %v", err)
	}

	cmd := flags.Args[0]
	cmdArgs := flags.Args[1:]
	log.CLI.Debug().Str("command", cmd).Msg("Dispatching")

	switch cmd {
	case "generate":
		cmdGenerate()
	case "random":
		cmdRandom(cfg, cmdArgs)
	case "import", "from-mnemonic":
		cmdImport(cfg, cmdArgs)
	case "address":
		cmdAddress(cmdArgs)
	case "path":
		cmdPath(cmdArgs)
	case "codec":
		cmdCodec(cmdArgs)
	case "wordlists":
		cmdWordlists()
	case "wallet":
		cmdWallet(cfg, cmdArgs)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: tronkey [global flags] <command> [flags]

Global flags:
  --datadir <path>          Data directory (default: ~/.tronkey)
  --config <file>           Config file (default: <datadir>/tronkey.conf)
  --path <path>             Default derivation path (default: m/44'/195'/0'/0/0)
  --wordlist <id>           Default mnemonic word list (default: en)
  --entropy <bits>          Entropy for new mnemonics (default: 128)
  --keystore=<bool>         Enable the encrypted keystore (default: true)
  --keystore-backend <b>    badger (default) or memory
  --log-level <level>       trace, debug, info, warn, error, disabled
  --log-file <file>         Also write JSON logs to file
  --log-json                Log JSON to stderr
  --version                 Show version

Commands:
  generate                        Create an account from a random private key
  random [--path <p>] [--passphrase <pw>]
                                  Create a mnemonic and derive an account
  import --mnemonic "..." [--path <p>] [--wordlist <id>] [--passphrase <pw>]
                                  Derive an account from an existing mnemonic
  address <base58|hex>            Show both forms of an address
  path <path>                     Validate and normalise a derivation path
  codec <tohex|fromhex|tobase64|frombase64> <value>
                                  Convert between text, hex and base64
  wordlists                       List supported mnemonic word lists

  wallet create --name <n> [--passphrase <pw>]
                                  Create and store a new mnemonic
  wallet import --name <n> [--mnemonic "..."] [--passphrase <pw>]
                                  Store an existing mnemonic
  wallet list                     List wallets
  wallet show --wallet <w>        List a wallet's accounts
  wallet derive --wallet <w> [--label <l>]
                                  Derive the next account
  wallet add --wallet <w> --path <p> [--label <l>]
                                  Derive and record the account at a path
  wallet export --wallet <w>      Print a wallet's mnemonic
  wallet delete --wallet <w>      Remove a wallet
  wallet purge --yes              Remove every wallet in the keystore
`)
}

// ── generate ────────────────────────────────────────────────────────────

func cmdGenerate() {
	acc, err := account.New().GenerateAccount()
	if err != nil {
		fatal("generate account: %v", err)
	}
	printJSON(acc)
}

// ── random ──────────────────────────────────────────────────────────────

func cmdRandom(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("random", flag.ExitOnError)
	path := fs.String("path", cfg.Account.Path, "Derivation path")
	passphrase := fs.String("passphrase", "", "BIP-39 passphrase")
	fs.Parse(args)

	hd := hdwallet.NewProvider(cfg.Account.EntropyBits)
	hd.Password = *passphrase
	gen := account.NewGenerator(crypto.Secp256k1{}, crypto.AddressCodec{}, hd)

	acc, err := gen.GenerateRandom(&account.RandomOptions{Path: *path})
	if err != nil {
		fatal("generate account: %v", err)
	}
	printJSON(acc)
}

// ── import ──────────────────────────────────────────────────────────────

func cmdImport(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic (prompted if omitted)")
	path := fs.String("path", cfg.Account.Path, "Derivation path")
	wordlist := fs.String("wordlist", cfg.Account.Wordlist, "Mnemonic word list")
	passphrase := fs.String("passphrase", "", "BIP-39 passphrase")
	fs.Parse(args)

	phrase := *mnemonic
	if phrase == "" {
		var err error
		if phrase, err = readMnemonic(); err != nil {
			fatal("%v", err)
		}
	}

	hd := hdwallet.NewProvider(cfg.Account.EntropyBits)
	hd.Password = *passphrase
	gen := account.NewGenerator(crypto.Secp256k1{}, crypto.AddressCodec{}, hd)

	acc, err := gen.GenerateAccountWithMnemonic(phrase, *path, *wordlist)
	if err != nil {
		fatal("derive account: %v", err)
	}
	printJSON(acc)
}

// ── address / path ──────────────────────────────────────────────────────

func cmdAddress(args []string) {
	if len(args) != 1 {
		fatal("Usage: tronkey address <base58|hex>")
	}
	addr, err := types.ParseAddress(args[0])
	if err != nil {
		fatal("%v", err)
	}
	printJSON(addr.Forms())
}

func cmdPath(args []string) {
	if len(args) != 1 {
		fatal("Usage: tronkey path <path>")
	}
	if _, err := hdwallet.ValidatePath(args[0]); err != nil {
		fatal("%v", err)
	}
	dp, err := hdwallet.ParseDerivationPath(args[0])
	if err != nil {
		fatal("%v", err)
	}
	fmt.Println(dp.String())
}

// ── codec ───────────────────────────────────────────────────────────────

func cmdCodec(args []string) {
	if len(args) != 2 {
		fatal("Usage: tronkey codec <tohex|fromhex|tobase64|frombase64> <value>")
	}

	switch args[0] {
	case "tohex":
		fmt.Println(codec.BytesToHex(codec.StringToBytes(args[1])))
	case "fromhex":
		s, err := codec.HexToString(args[1])
		if err != nil {
			fatal("%v", err)
		}
		fmt.Println(s)
	case "tobase64":
		fmt.Println(codec.Base64Encode(codec.StringToBytes(args[1])))
	case "frombase64":
		b, err := codec.Base64Decode(args[1])
		if err != nil {
			fatal("%v", err)
		}
		s, err := codec.BytesToString(b)
		if err != nil {
			fatal("%v", err)
		}
		fmt.Println(s)
	default:
		fatal("Unknown codec operation: %s", args[0])
	}
}

func cmdWordlists() {
	for _, id := range hdwallet.Wordlists() {
		fmt.Println(id)
	}
}

// ── Output helpers ──────────────────────────────────────────────────────

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal("marshal output: %v", err)
	}
	fmt.Println(string(data))
}

// ── Password helper ─────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

// readNewPassword prompts twice and fails if the entries differ.
func readNewPassword() ([]byte, error) {
	password, err := readPassword("Enter password: ")
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	if string(password) != string(confirm) {
		return nil, fmt.Errorf("passwords do not match")
	}
	return password, nil
}

// readMnemonic reads a mnemonic without echoing it.
func readMnemonic() (string, error) {
	phrase, err := readPassword("Enter mnemonic: ")
	if err != nil {
		return "", fmt.Errorf("read mnemonic: %w", err)
	}
	s := strings.TrimSpace(string(phrase))
	if s == "" {
		return "", fmt.Errorf("empty mnemonic")
	}
	return s, nil
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
