package hdwallet

import (
	"errors"
	"strings"
	"testing"
)

func TestProvider_FromMnemonic(t *testing.T) {
	tests := []struct {
		path string
		priv string
		pub  string
	}{
		{
			path: DefaultPath,
			priv: "0xb5a4cea271ff424d7c31dc12a3e43e401df7a40d7412a15750f3f0b6b5449a28",
			pub:  "0x03ff21f8e64d3a3c0198edfbb7afdc79be959432e92e2f8a1984bb436a414b8edc",
		},
		{
			path: "m/44'/195'/0'/0/1",
			priv: "0xedb728e259afca2ddcc428459e7681b8414668649aedbc8d25c0872da219b2e6",
			pub:  "0x0209b9854ad6e016c5d72aee08f763821bd5e32489c12bcc078a935a14f29dbed6",
		},
		{
			path: "m/44'/60'/0'/0/0",
			priv: "0x1ab42cc412b618bdea3a599e3c9bae199ebf030895b039e9db1e30dafb12b727",
			pub:  "0x0237b0bb7a8288d38ed49a524b5dc98cff3eb5ca824c9f9dc0dfdb3d9cd600f299",
		},
	}

	var p Provider
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			key, err := p.FromMnemonic(testPhrase, tt.path, "en")
			if err != nil {
				t.Fatalf("FromMnemonic() error: %v", err)
			}
			if key.PrivateKey != tt.priv {
				t.Errorf("PrivateKey = %s, want %s", key.PrivateKey, tt.priv)
			}
			if key.PublicKey != tt.pub {
				t.Errorf("PublicKey = %s, want %s", key.PublicKey, tt.pub)
			}
			if key.Path != tt.path {
				t.Errorf("Path = %s, want %s", key.Path, tt.path)
			}
			if key.Mnemonic == nil || key.Mnemonic.Phrase != testPhrase {
				t.Errorf("Mnemonic = %+v", key.Mnemonic)
			}
		})
	}
}

func TestProvider_Password(t *testing.T) {
	p := Provider{Password: "TREZOR"}
	key, err := p.FromMnemonic(testPhrase, DefaultPath, "en")
	if err != nil {
		t.Fatalf("FromMnemonic() error: %v", err)
	}
	if key.PrivateKey != "0x554d613c6ae7cfe1f7cc0814f48e8eab176ca316fd7d1153fcd7a45b73fee11e" {
		t.Errorf("PrivateKey = %s", key.PrivateKey)
	}
	if key.Mnemonic.Password != "TREZOR" {
		t.Errorf("Mnemonic.Password = %q", key.Mnemonic.Password)
	}
}

func TestProvider_FromMnemonic_Errors(t *testing.T) {
	var p Provider

	if _, err := p.FromMnemonic("abandon abandon", DefaultPath, "en"); !errors.Is(err, ErrInvalidMnemonic) {
		t.Errorf("short phrase error = %v, want ErrInvalidMnemonic", err)
	}
	if _, err := p.FromMnemonic(testPhrase, DefaultPath, "xx"); !errors.Is(err, ErrUnknownWordlist) {
		t.Errorf("bad wordlist error = %v, want ErrUnknownWordlist", err)
	}
	if _, err := p.FromMnemonic(testPhrase, "m/44'/x", "en"); !errors.Is(err, ErrMalformedDerivationPath) {
		t.Errorf("bad path error = %v, want ErrMalformedDerivationPath", err)
	}
}

func TestProvider_CreateRandom(t *testing.T) {
	p := NewProvider(256)

	k1, err := p.CreateRandom(DefaultPath)
	if err != nil {
		t.Fatalf("CreateRandom() error: %v", err)
	}
	k2, err := p.CreateRandom(DefaultPath)
	if err != nil {
		t.Fatalf("CreateRandom() error: %v", err)
	}

	if k1.PrivateKey == k2.PrivateKey {
		t.Error("two random keys should differ")
	}
	if n := len(strings.Fields(k1.Mnemonic.Phrase)); n != 24 {
		t.Errorf("word count = %d, want 24", n)
	}
	if !strings.HasPrefix(k1.PrivateKey, "0x") || len(k1.PrivateKey) != 66 {
		t.Errorf("PrivateKey = %q, want 0x + 64 hex chars", k1.PrivateKey)
	}
	if !strings.HasPrefix(k1.PublicKey, "0x02") && !strings.HasPrefix(k1.PublicKey, "0x03") {
		t.Errorf("PublicKey = %q, want compressed encoding", k1.PublicKey)
	}

	again, err := p.FromMnemonic(k1.Mnemonic.Phrase, DefaultPath, "en")
	if err != nil {
		t.Fatalf("FromMnemonic() error: %v", err)
	}
	if again.PrivateKey != k1.PrivateKey {
		t.Error("re-deriving from the generated phrase should give the same key")
	}
}

func TestProvider_DefaultEntropy(t *testing.T) {
	var p Provider
	key, err := p.CreateRandom(DefaultPath)
	if err != nil {
		t.Fatalf("CreateRandom() error: %v", err)
	}
	if n := len(strings.Fields(key.Mnemonic.Phrase)); n != 12 {
		t.Errorf("word count = %d, want 12", n)
	}
}
