package testutil

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

// TestSeed returns a deterministic ed25519 seed derived from b.
func TestSeed(b byte) []byte {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = b + byte(i)
	}
	return seed
}

// SuiAddress derives the Sui address for seed.
func SuiAddress(seed []byte) string {
	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	sum := blake2b.Sum256(append([]byte{0}, pub...))
	return "0x" + hex.EncodeToString(sum[:])
}

// WriteKeystore writes a Sui keystore holding the given ed25519 seeds and
// returns its path.
func WriteKeystore(t testing.TB, seeds ...[]byte) string {
	t.Helper()

	entries := make([]string, 0, len(seeds))
	for _, s := range seeds {
		entries = append(entries, base64.StdEncoding.EncodeToString(append([]byte{0}, s...)))
	}
	data, err := json.Marshal(entries)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sui.keystore")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
