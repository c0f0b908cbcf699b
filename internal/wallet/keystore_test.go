package wallet

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Klingon-tech/tronkey/internal/storage"
	"github.com/Klingon-tech/tronkey/pkg/hdwallet"
)

const testPhrase = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func testMnemonic(t *testing.T) *hdwallet.Mnemonic {
	t.Helper()
	m, err := hdwallet.ParseMnemonic(testPhrase, "en")
	if err != nil {
		t.Fatalf("ParseMnemonic() error: %v", err)
	}
	return m
}

func newTestKeystore(t *testing.T) *Keystore {
	t.Helper()
	db := storage.NewMemory()
	t.Cleanup(func() { db.Close() })
	return NewKeystore(db, fastParams())
}

func TestKeystore_CreateAndLoad(t *testing.T) {
	ks := newTestKeystore(t)

	if err := ks.Create("main", testMnemonic(t), []byte("pass")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	m, err := ks.Load("main", []byte("pass"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if m.Phrase != testPhrase {
		t.Errorf("Phrase = %q", m.Phrase)
	}
	if m.Wordlist != "en" {
		t.Errorf("Wordlist = %q, want en", m.Wordlist)
	}
	if m.Entropy != "0x00000000000000000000000000000000" {
		t.Errorf("Entropy = %q", m.Entropy)
	}
}

func TestKeystore_KeepsMnemonicPassword(t *testing.T) {
	ks := newTestKeystore(t)

	m := testMnemonic(t)
	m.Password = "TREZOR"
	if err := ks.Create("main", m, []byte("pass")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	loaded, err := ks.Load("main", []byte("pass"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Password != "TREZOR" {
		t.Errorf("Password = %q, want TREZOR", loaded.Password)
	}
}

func TestKeystore_CreateDuplicate(t *testing.T) {
	ks := newTestKeystore(t)

	if err := ks.Create("main", testMnemonic(t), []byte("pass")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	err := ks.Create("main", testMnemonic(t), []byte("other"))
	if !errors.Is(err, ErrWalletExists) {
		t.Errorf("duplicate Create() error = %v, want ErrWalletExists", err)
	}
}

func TestKeystore_CreateInvalid(t *testing.T) {
	ks := newTestKeystore(t)

	for _, name := range []string{"", "a/b", " padded "} {
		if err := ks.Create(name, testMnemonic(t), []byte("pass")); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Create(%q) error = %v, want ErrInvalidName", name, err)
		}
	}

	bad := &hdwallet.Mnemonic{Phrase: "abandon abandon abandon", Wordlist: "en"}
	if err := ks.Create("bad", bad, []byte("pass")); !errors.Is(err, hdwallet.ErrInvalidMnemonic) {
		t.Errorf("Create(bad mnemonic) error = %v, want ErrInvalidMnemonic", err)
	}
}

func TestKeystore_LoadWrongPassword(t *testing.T) {
	ks := newTestKeystore(t)
	ks.Create("main", testMnemonic(t), []byte("correct"))

	_, err := ks.Load("main", []byte("wrong"))
	if !errors.Is(err, ErrDecrypt) {
		t.Errorf("Load() with wrong password error = %v, want ErrDecrypt", err)
	}
}

func TestKeystore_LoadNonexistent(t *testing.T) {
	ks := newTestKeystore(t)

	_, err := ks.Load("missing", []byte("pass"))
	if !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("Load() error = %v, want ErrWalletNotFound", err)
	}
}

func TestKeystore_List(t *testing.T) {
	ks := newTestKeystore(t)

	names, err := ks.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("empty keystore List() = %v", names)
	}

	for _, n := range []string{"savings", "main", "cold"} {
		if err := ks.Create(n, testMnemonic(t), []byte("pass")); err != nil {
			t.Fatalf("Create(%s) error: %v", n, err)
		}
	}

	names, err = ks.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	want := []string{"cold", "main", "savings"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}
}

func TestKeystore_Delete(t *testing.T) {
	ks := newTestKeystore(t)
	ks.Create("main", testMnemonic(t), []byte("pass"))

	if err := ks.Delete("main"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := ks.Load("main", []byte("pass")); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("Load() after Delete() error = %v, want ErrWalletNotFound", err)
	}
	if err := ks.Delete("main"); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("second Delete() error = %v, want ErrWalletNotFound", err)
	}
}

func TestKeystore_AddAccount(t *testing.T) {
	ks := newTestKeystore(t)
	ks.Create("main", testMnemonic(t), []byte("pass"))

	acct := AccountEntry{Path: hdwallet.DefaultPath, Name: "first", Address: "TUEZSdKsoDHQMeZwihtdoBiN46zxhGWYdH"}
	if err := ks.AddAccount("main", acct); err != nil {
		t.Fatalf("AddAccount() error: %v", err)
	}
	// Same path and address again is a no-op.
	if err := ks.AddAccount("main", acct); err != nil {
		t.Fatalf("AddAccount() repeat error: %v", err)
	}

	accounts, err := ks.ListAccounts("main")
	if err != nil {
		t.Fatalf("ListAccounts() error: %v", err)
	}
	if len(accounts) != 1 || accounts[0] != acct {
		t.Errorf("ListAccounts() = %+v", accounts)
	}

	conflict := AccountEntry{Path: hdwallet.DefaultPath, Address: "TSeJkUh4Qv67VNFwY8LaAxERygNdy6NQZK"}
	if err := ks.AddAccount("main", conflict); err == nil {
		t.Error("AddAccount() with a conflicting address should fail")
	}

	wrongCoin := AccountEntry{Path: "m/44'/60'/0'/0/0", Address: "x"}
	if err := ks.AddAccount("main", wrongCoin); !errors.Is(err, hdwallet.ErrInvalidDerivationPath) {
		t.Errorf("AddAccount() wrong coin error = %v, want ErrInvalidDerivationPath", err)
	}

	if err := ks.AddAccount("missing", acct); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("AddAccount() missing wallet error = %v, want ErrWalletNotFound", err)
	}
}

func TestKeystore_DeriveNext(t *testing.T) {
	ks := newTestKeystore(t)
	ks.Create("main", testMnemonic(t), []byte("pass"))

	want := []AccountEntry{
		{Path: "m/44'/195'/0'/0/0", Name: "a", Address: "TUEZSdKsoDHQMeZwihtdoBiN46zxhGWYdH"},
		{Path: "m/44'/195'/0'/0/1", Name: "b", Address: "TSeJkUh4Qv67VNFwY8LaAxERygNdy6NQZK"},
	}
	for _, w := range want {
		got, err := ks.DeriveNext("main", []byte("pass"), w.Name)
		if err != nil {
			t.Fatalf("DeriveNext() error: %v", err)
		}
		if *got != w {
			t.Errorf("DeriveNext() = %+v, want %+v", *got, w)
		}
	}

	next, err := ks.NextIndex("main")
	if err != nil {
		t.Fatalf("NextIndex() error: %v", err)
	}
	if next != 2 {
		t.Errorf("NextIndex() = %d, want 2", next)
	}

	accounts, _ := ks.ListAccounts("main")
	if !reflect.DeepEqual(accounts, want) {
		t.Errorf("ListAccounts() = %+v, want %+v", accounts, want)
	}
}

func TestKeystore_AddAccountCanonicalPath(t *testing.T) {
	ks := newTestKeystore(t)
	ks.Create("main", testMnemonic(t), []byte("pass"))

	acct := AccountEntry{Path: "m/44'/195'/0'/0/ 1", Address: "TSeJkUh4Qv67VNFwY8LaAxERygNdy6NQZK"}
	if err := ks.AddAccount("main", acct); err != nil {
		t.Fatalf("AddAccount() error: %v", err)
	}
	// Another spelling of the same path collapses onto the stored entry.
	acct.Path = "m/44'/195'/0x0'/0/1"
	if err := ks.AddAccount("main", acct); err != nil {
		t.Fatalf("AddAccount() alternate spelling error: %v", err)
	}

	accounts, _ := ks.ListAccounts("main")
	if len(accounts) != 1 || accounts[0].Path != "m/44'/195'/0'/0/1" {
		t.Errorf("ListAccounts() = %+v, want one entry at m/44'/195'/0'/0/1", accounts)
	}
}

func TestKeystore_AddAccountAddressConflict(t *testing.T) {
	ks := newTestKeystore(t)
	ks.Create("main", testMnemonic(t), []byte("pass"))

	addr := "TUEZSdKsoDHQMeZwihtdoBiN46zxhGWYdH"
	if err := ks.AddAccount("main", AccountEntry{Path: hdwallet.DefaultPath, Address: addr}); err != nil {
		t.Fatalf("AddAccount() error: %v", err)
	}
	err := ks.AddAccount("main", AccountEntry{Path: "m/44'/195'/0'/0/5", Address: addr})
	if !errors.Is(err, ErrAccountExists) {
		t.Errorf("AddAccount() reused address error = %v, want ErrAccountExists", err)
	}

	accounts, _ := ks.ListAccounts("main")
	if len(accounts) != 1 {
		t.Errorf("ListAccounts() has %d entries, want 1", len(accounts))
	}
}

func TestKeystore_DeriveNextSkipsRecordedPaths(t *testing.T) {
	ks := newTestKeystore(t)
	ks.Create("main", testMnemonic(t), []byte("pass"))

	if err := ks.AddAccount("main", AccountEntry{
		Path:    hdwallet.DefaultPath,
		Address: "TUEZSdKsoDHQMeZwihtdoBiN46zxhGWYdH",
	}); err != nil {
		t.Fatalf("AddAccount() error: %v", err)
	}

	got, err := ks.DeriveNext("main", []byte("pass"), "")
	if err != nil {
		t.Fatalf("DeriveNext() error: %v", err)
	}
	want := AccountEntry{Path: "m/44'/195'/0'/0/1", Address: "TSeJkUh4Qv67VNFwY8LaAxERygNdy6NQZK"}
	if *got != want {
		t.Errorf("DeriveNext() = %+v, want %+v", *got, want)
	}

	accounts, _ := ks.ListAccounts("main")
	if len(accounts) != 2 {
		t.Fatalf("ListAccounts() has %d entries, want 2: %+v", len(accounts), accounts)
	}
	seen := make(map[string]bool)
	for _, a := range accounts {
		if seen[a.Path] {
			t.Errorf("path %s recorded twice", a.Path)
		}
		seen[a.Path] = true
	}
	if next, _ := ks.NextIndex("main"); next != 2 {
		t.Errorf("NextIndex() = %d, want 2", next)
	}
}

func TestKeystore_DeriveNextWrongPassword(t *testing.T) {
	ks := newTestKeystore(t)
	ks.Create("main", testMnemonic(t), []byte("pass"))

	if _, err := ks.DeriveNext("main", []byte("nope"), ""); !errors.Is(err, ErrDecrypt) {
		t.Errorf("DeriveNext() error = %v, want ErrDecrypt", err)
	}
	if next, _ := ks.NextIndex("main"); next != 0 {
		t.Errorf("NextIndex() = %d after failed derive, want 0", next)
	}
}

func TestKeystore_BadgerPersistence(t *testing.T) {
	dir := t.TempDir()

	db1, err := storage.NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	ks1 := NewKeystore(db1, fastParams())
	if err := ks1.Create("main", testMnemonic(t), []byte("pass")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := ks1.DeriveNext("main", []byte("pass"), ""); err != nil {
		t.Fatalf("DeriveNext() error: %v", err)
	}
	db1.Close()

	db2, err := storage.NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() reopen error: %v", err)
	}
	defer db2.Close()
	ks2 := NewKeystore(db2, fastParams())

	m, err := ks2.Load("main", []byte("pass"))
	if err != nil {
		t.Fatalf("Load() after reopen error: %v", err)
	}
	if m.Phrase != testPhrase {
		t.Errorf("Phrase = %q", m.Phrase)
	}
	accounts, _ := ks2.ListAccounts("main")
	if len(accounts) != 1 || accounts[0].Address != "TUEZSdKsoDHQMeZwihtdoBiN46zxhGWYdH" {
		t.Errorf("ListAccounts() after reopen = %+v", accounts)
	}
}

func TestKeystore_SharedDatabase(t *testing.T) {
	db := storage.NewMemory()
	db.Put([]byte("unrelated"), []byte("data"))

	ks := NewKeystore(db, fastParams())
	ks.Create("main", testMnemonic(t), []byte("pass"))

	names, err := ks.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"main"}) {
		t.Errorf("List() = %v, want [main]", names)
	}
}

func TestKeystore_Purge(t *testing.T) {
	db := storage.NewMemory()
	defer db.Close()
	db.Put([]byte("unrelated"), []byte("data"))

	ks := NewKeystore(db, fastParams())
	ks.Create("a", testMnemonic(t), []byte("pass"))
	ks.Create("b", testMnemonic(t), []byte("pass"))

	n, err := ks.Purge()
	if err != nil {
		t.Fatalf("Purge() error: %v", err)
	}
	if n != 2 {
		t.Errorf("Purge() = %d, want 2", n)
	}
	if names, _ := ks.List(); len(names) != 0 {
		t.Errorf("List() after Purge = %v, want empty", names)
	}
	if got, err := db.Get([]byte("unrelated")); err != nil || string(got) != "data" {
		t.Errorf("unrelated key = %q, %v after Purge", got, err)
	}
	if _, err := ks.Load("a", []byte("pass")); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("Load() after Purge error = %v, want ErrWalletNotFound", err)
	}
}
