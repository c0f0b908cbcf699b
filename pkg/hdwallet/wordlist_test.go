package hdwallet

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
)

func TestLookupWordlist(t *testing.T) {
	tests := []struct {
		id   string
		want []string
	}{
		{"", wordlists.English},
		{"en", wordlists.English},
		{"EN", wordlists.English},
		{"ja", wordlists.Japanese},
		{"zh_cn", wordlists.ChineseSimplified},
		{"zh-TW", wordlists.ChineseTraditional},
		{"cz", wordlists.Czech},
	}

	for _, tt := range tests {
		got, err := LookupWordlist(tt.id)
		if err != nil {
			t.Fatalf("LookupWordlist(%q) error: %v", tt.id, err)
		}
		if got[0] != tt.want[0] {
			t.Errorf("LookupWordlist(%q)[0] = %q, want %q", tt.id, got[0], tt.want[0])
		}
	}

	if _, err := LookupWordlist("tlh"); !errors.Is(err, ErrUnknownWordlist) {
		t.Errorf("LookupWordlist(tlh) error = %v, want ErrUnknownWordlist", err)
	}
}

func TestWordlists(t *testing.T) {
	want := []string{"cz", "en", "es", "fr", "it", "ja", "ko", "zh_cn", "zh_tw"}
	if got := Wordlists(); !reflect.DeepEqual(got, want) {
		t.Errorf("Wordlists() = %v, want %v", got, want)
	}
}

func TestWithWordlist_Restores(t *testing.T) {
	before := bip39.GetWordList()

	_ = withWordlist(wordlists.Japanese, func() error {
		if bip39.GetWordList()[0] != wordlists.Japanese[0] {
			t.Error("word list not installed")
		}
		return nil
	})

	if bip39.GetWordList()[0] != before[0] {
		t.Error("previous word list not restored")
	}
}

func TestMnemonic_NonEnglishRoundTrip(t *testing.T) {
	for _, id := range []string{"ja", "es", "zh_cn"} {
		m, err := GenerateMnemonic(DefaultEntropyBits, id)
		if err != nil {
			t.Fatalf("GenerateMnemonic(%s) error: %v", id, err)
		}
		parsed, err := ParseMnemonic(m.Phrase, id)
		if err != nil {
			t.Fatalf("ParseMnemonic(%s) error: %v", id, err)
		}
		if parsed.Entropy != m.Entropy {
			t.Errorf("%s: entropy = %s, want %s", id, parsed.Entropy, m.Entropy)
		}
		if ValidateMnemonic(m.Phrase, "en") {
			t.Errorf("%s phrase should not validate as English", id)
		}
	}
}
