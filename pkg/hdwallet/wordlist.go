package hdwallet

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
)

// DefaultWordlist is the locale used when none is given.
const DefaultWordlist = "en"

var ErrUnknownWordlist = errors.New("unknown wordlist")

var wordlistsByID = map[string][]string{
	"en":    wordlists.English,
	"es":    wordlists.Spanish,
	"fr":    wordlists.French,
	"it":    wordlists.Italian,
	"ja":    wordlists.Japanese,
	"ko":    wordlists.Korean,
	"zh_cn": wordlists.ChineseSimplified,
	"zh_tw": wordlists.ChineseTraditional,
	"cz":    wordlists.Czech,
}

var wordlistAliases = map[string]string{
	"english": "en",
	"zh":      "zh_cn",
	"cs":      "cz",
}

// go-bip39 keeps the active word list in package state.
var wordlistMu sync.Mutex

// Wordlists returns the supported word list identifiers, sorted.
func Wordlists() []string {
	ids := make([]string, 0, len(wordlistsByID))
	for id := range wordlistsByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LookupWordlist resolves a locale identifier to its word list. An empty
// identifier selects English.
func LookupWordlist(id string) ([]string, error) {
	list, ok := wordlistsByID[canonicalWordlist(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWordlist, id)
	}
	return list, nil
}

func canonicalWordlist(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return DefaultWordlist
	}
	id = strings.ReplaceAll(id, "-", "_")
	if alias, ok := wordlistAliases[id]; ok {
		return alias
	}
	return id
}

// withWordlist runs fn with list installed as the bip39 word list and
// restores the previous list afterwards.
func withWordlist(list []string, fn func() error) error {
	wordlistMu.Lock()
	defer wordlistMu.Unlock()

	prev := bip39.GetWordList()
	bip39.SetWordList(list)
	defer bip39.SetWordList(prev)

	return fn()
}
