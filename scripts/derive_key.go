// derive_key.go prints the public keys and address for a hex-encoded private key file.
// Usage: go run scripts/derive_key.go <keyfile>
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Klingon-tech/tronkey/pkg/codec"
	"github.com/Klingon-tech/tronkey/pkg/crypto"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: derive_key <keyfile>")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	key, err := crypto.PrivateKeyFromHex(strings.TrimSpace(string(data)))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer key.Zero()

	addr := key.Address()
	fmt.Printf("pubkey=%s\n", codec.BytesToHex(key.PublicKey()))
	fmt.Printf("pubkey_compressed=%s\n", codec.BytesToHex(key.PublicKeyCompressed()))
	fmt.Printf("address=%s\n", addr.String())
	fmt.Printf("address_hex=%s\n", addr.Hex())
}
