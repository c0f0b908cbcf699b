package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/Klingon-tech/tronkey/config"
	"github.com/Klingon-tech/tronkey/internal/storage"
	"github.com/Klingon-tech/tronkey/internal/wallet"
	"github.com/Klingon-tech/tronkey/pkg/account"
	"github.com/Klingon-tech/tronkey/pkg/crypto"
	"github.com/Klingon-tech/tronkey/pkg/hdwallet"
)

const walletUsage = "Usage: tronkey wallet <create|import|list|show|derive|add|export|delete|purge> [flags]"

// cmdWallet owns the keystore database. Subcommands return errors instead
// of exiting so the database is closed before the process ends.
func cmdWallet(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fatal(walletUsage)
	}
	if !cfg.Keystore.Enabled {
		fatal("keystore is disabled (keystore.enabled = false)")
	}
	if cfg.Keystore.Backend == storage.BackendMemory {
		fmt.Fprintln(os.Stderr, "Warning: memory keystore backend; wallets are lost on exit.")
	}

	db, err := storage.Open(cfg.Keystore.Backend, cfg.KeystoreDir())
	if err != nil {
		fatal("open keystore: %v", err)
	}

	ks := wallet.NewKeystore(db, wallet.EncryptionParams{
		Memory:      cfg.Keystore.KDFMemory,
		Iterations:  cfg.Keystore.KDFIterations,
		Parallelism: cfg.Keystore.KDFParallelism,
	})

	err = runWallet(cfg, ks, args[0], args[1:])
	if cerr := db.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close keystore: %w", cerr)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fatal("%v", err)
	}
}

func runWallet(cfg *config.Config, ks *wallet.Keystore, cmd string, args []string) error {
	switch cmd {
	case "create":
		return cmdWalletCreate(cfg, ks, args)
	case "import":
		return cmdWalletImport(cfg, ks, args)
	case "list":
		return cmdWalletList(ks)
	case "show":
		return cmdWalletShow(ks, args)
	case "derive":
		return cmdWalletDerive(ks, args)
	case "add":
		return cmdWalletAdd(cfg, ks, args)
	case "export":
		return cmdWalletExport(ks, args)
	case "delete":
		return cmdWalletDelete(ks, args)
	case "purge":
		return cmdWalletPurge(ks, args)
	default:
		return fmt.Errorf("unknown wallet command: %s\n%s", cmd, walletUsage)
	}
}

// newFlagSet returns a flag set that reports parse errors instead of exiting.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func cmdWalletCreate(cfg *config.Config, ks *wallet.Keystore, args []string) error {
	fs := newFlagSet("wallet create")
	name := fs.String("name", "", "Wallet name")
	passphrase := fs.String("passphrase", "", "BIP-39 passphrase")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" {
		return fmt.Errorf("usage: tronkey wallet create --name <name>")
	}

	m, err := hdwallet.GenerateMnemonic(cfg.Account.EntropyBits, cfg.Account.Wordlist)
	if err != nil {
		return fmt.Errorf("generate mnemonic: %w", err)
	}
	m.Password = *passphrase

	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", m.Phrase)

	password, err := readNewPassword()
	if err != nil {
		return err
	}
	if err := storeWallet(ks, *name, m, password); err != nil {
		return err
	}
	fmt.Printf("\nWallet created: %s\n", *name)
	return nil
}

func cmdWalletImport(cfg *config.Config, ks *wallet.Keystore, args []string) error {
	fs := newFlagSet("wallet import")
	name := fs.String("name", "", "Wallet name")
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic (prompted if omitted)")
	wordlist := fs.String("wordlist", cfg.Account.Wordlist, "Mnemonic word list")
	passphrase := fs.String("passphrase", "", "BIP-39 passphrase")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" {
		return fmt.Errorf("usage: tronkey wallet import --name <name> [--mnemonic \"word1 word2 ...\"]")
	}

	phrase := *mnemonic
	if phrase == "" {
		var err error
		if phrase, err = readMnemonic(); err != nil {
			return err
		}
	}
	m, err := hdwallet.ParseMnemonic(phrase, *wordlist)
	if err != nil {
		return err
	}
	m.Password = *passphrase

	password, err := readNewPassword()
	if err != nil {
		return err
	}
	if err := storeWallet(ks, *name, m, password); err != nil {
		return err
	}
	fmt.Printf("Wallet imported: %s\n", *name)
	return nil
}

// storeWallet seals m under name and records account 0.
func storeWallet(ks *wallet.Keystore, name string, m *hdwallet.Mnemonic, password []byte) error {
	if err := ks.Create(name, m, password); err != nil {
		return fmt.Errorf("create wallet: %w", err)
	}
	entry, err := ks.DeriveNext(name, password, "Default")
	if err != nil {
		return fmt.Errorf("derive account: %w", err)
	}
	fmt.Printf("Address: %s\n", entry.Address)
	return nil
}

func cmdWalletList(ks *wallet.Keystore) error {
	names, err := ks.List()
	if err != nil {
		return fmt.Errorf("list wallets: %w", err)
	}

	if len(names) == 0 {
		fmt.Println("No wallets found.")
		return nil
	}

	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func cmdWalletShow(ks *wallet.Keystore, args []string) error {
	fs := newFlagSet("wallet show")
	walletName := fs.String("wallet", "", "Wallet name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *walletName == "" {
		return fmt.Errorf("usage: tronkey wallet show --wallet <name>")
	}

	accounts, err := ks.ListAccounts(*walletName)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	next, err := ks.NextIndex(*walletName)
	if err != nil {
		return fmt.Errorf("read wallet: %w", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No accounts found.")
	}
	for _, acct := range accounts {
		fmt.Printf("  %-22s %s  %s\n", acct.Path, acct.Address, acct.Name)
	}
	fmt.Printf("Next index: %d\n", next)
	return nil
}

func cmdWalletDerive(ks *wallet.Keystore, args []string) error {
	fs := newFlagSet("wallet derive")
	walletName := fs.String("wallet", "", "Wallet name")
	label := fs.String("label", "", "Account label")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *walletName == "" {
		return fmt.Errorf("usage: tronkey wallet derive --wallet <name> [--label <label>]")
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	entry, err := ks.DeriveNext(*walletName, password, *label)
	if err != nil {
		return fmt.Errorf("derive account: %w", err)
	}
	fmt.Printf("Path:    %s\n", entry.Path)
	fmt.Printf("Address: %s\n", entry.Address)
	return nil
}

func cmdWalletAdd(cfg *config.Config, ks *wallet.Keystore, args []string) error {
	fs := newFlagSet("wallet add")
	walletName := fs.String("wallet", "", "Wallet name")
	path := fs.String("path", cfg.Account.Path, "Derivation path")
	label := fs.String("label", "", "Account label")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *walletName == "" {
		return fmt.Errorf("usage: tronkey wallet add --wallet <name> --path <path> [--label <label>]")
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	m, err := ks.Load(*walletName, password)
	if err != nil {
		return fmt.Errorf("load wallet: %w", err)
	}

	hd := &hdwallet.Provider{Password: m.Password}
	acc, err := account.NewGenerator(crypto.Secp256k1{}, crypto.AddressCodec{}, hd).
		GenerateAccountWithMnemonic(m.Phrase, *path, m.Wordlist)
	if err != nil {
		return fmt.Errorf("derive account: %w", err)
	}

	if err := ks.AddAccount(*walletName, wallet.AccountEntry{
		Path:    *path,
		Name:    *label,
		Address: acc.Address,
	}); err != nil {
		return fmt.Errorf("add account: %w", err)
	}
	fmt.Printf("Path:    %s\n", *path)
	fmt.Printf("Address: %s\n", acc.Address)
	return nil
}

func cmdWalletExport(ks *wallet.Keystore, args []string) error {
	fs := newFlagSet("wallet export")
	walletName := fs.String("wallet", "", "Wallet name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *walletName == "" {
		return fmt.Errorf("usage: tronkey wallet export --wallet <name>")
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	m, err := ks.Load(*walletName, password)
	if err != nil {
		return fmt.Errorf("load wallet: %w", err)
	}

	fmt.Fprintln(os.Stderr, "WARNING: anyone with this mnemonic controls every account in the wallet.")
	printJSON(m)
	return nil
}

func cmdWalletDelete(ks *wallet.Keystore, args []string) error {
	fs := newFlagSet("wallet delete")
	walletName := fs.String("wallet", "", "Wallet name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *walletName == "" {
		return fmt.Errorf("usage: tronkey wallet delete --wallet <name>")
	}
	if err := ks.Delete(*walletName); err != nil {
		return err
	}
	fmt.Printf("Wallet deleted: %s\n", *walletName)
	return nil
}

func cmdWalletPurge(ks *wallet.Keystore, args []string) error {
	fs := newFlagSet("wallet purge")
	yes := fs.Bool("yes", false, "Confirm removal of every wallet")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*yes {
		return fmt.Errorf("refusing to purge without --yes")
	}
	n, err := ks.Purge()
	if err != nil {
		return err
	}
	fmt.Printf("Wallets removed: %d\n", n)
	return nil
}
