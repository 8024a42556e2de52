package chain

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/faas3/faas3-cli/internal/apperr"
	"golang.org/x/crypto/blake2b"
)

// Signature scheme flags as stored in the Sui keystore.
const (
	flagEd25519 byte = 0x00
)

// transactionIntent prefixes transaction bytes before hashing: scope
// TransactionData, version V0, app id Sui.
var transactionIntent = []byte{0, 0, 0}

// Signer holds one ed25519 key and its Sui address.
type Signer struct {
	key     ed25519.PrivateKey
	address string
}

// NewSigner builds a signer from a 32-byte ed25519 seed.
func NewSigner(seed []byte) (*Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: ed25519 seed must be %d bytes, got %d", apperr.ErrKeystore, ed25519.SeedSize, len(seed))
	}
	key := ed25519.NewKeyFromSeed(seed)
	return &Signer{
		key:     key,
		address: Address(key.Public().(ed25519.PublicKey)),
	}, nil
}

// Address is the signer's Sui address.
func (s *Signer) Address() string { return s.address }

// PublicKey returns the signer's public key.
func (s *Signer) PublicKey() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}

// SignTransaction signs raw transaction bytes and returns the serialized
// signature expected by sui_executeTransactionBlock:
// base64(flag || signature || public key).
func (s *Signer) SignTransaction(txBytes []byte) string {
	digest := TransactionDigest(txBytes)
	sig := ed25519.Sign(s.key, digest[:])

	pub := s.PublicKey()
	out := make([]byte, 0, 1+len(sig)+len(pub))
	out = append(out, flagEd25519)
	out = append(out, sig...)
	out = append(out, pub...)
	return base64.StdEncoding.EncodeToString(out)
}

// TransactionDigest is the blake2b-256 hash signed for a transaction.
func TransactionDigest(txBytes []byte) [32]byte {
	msg := make([]byte, 0, len(transactionIntent)+len(txBytes))
	msg = append(msg, transactionIntent...)
	msg = append(msg, txBytes...)
	return blake2b.Sum256(msg)
}

// Address derives the Sui address of an ed25519 public key.
func Address(pub ed25519.PublicKey) string {
	buf := make([]byte, 0, 1+len(pub))
	buf = append(buf, flagEd25519)
	buf = append(buf, pub...)
	sum := blake2b.Sum256(buf)
	return "0x" + hex.EncodeToString(sum[:])
}

// NormalizeAddress lowercases an address and left-pads it to 32 bytes so
// that short legacy addresses compare equal to their canonical form.
func NormalizeAddress(addr string) string {
	a := strings.ToLower(strings.TrimSpace(addr))
	a = strings.TrimPrefix(a, "0x")
	if len(a) < 64 {
		a = strings.Repeat("0", 64-len(a)) + a
	}
	return "0x" + a
}

// Keystore is the set of ed25519 signers read from a Sui keystore file.
type Keystore struct {
	signers []*Signer
}

// LoadKeystore reads a Sui keystore: a JSON array of base64 strings, each a
// scheme flag followed by the private key. Keys of other schemes are
// skipped.
func LoadKeystore(path string) (*Keystore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: keystore %s not found: %w", apperr.ErrKeystore, path, err)
		}
		return nil, fmt.Errorf("%w: read keystore %s: %w", apperr.ErrFileSystem, path, err)
	}
	return ParseKeystore(data)
}

// ParseKeystore decodes keystore file contents.
func ParseKeystore(data []byte) (*Keystore, error) {
	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: keystore is not a JSON array of strings: %w", apperr.ErrKeystore, err)
	}

	ks := &Keystore{}
	for i, e := range entries {
		raw, err := base64.StdEncoding.DecodeString(e)
		if err != nil {
			return nil, fmt.Errorf("%w: keystore entry %d: %w", apperr.ErrKeystore, i, err)
		}
		if len(raw) == 0 || raw[0] != flagEd25519 {
			continue
		}
		s, err := NewSigner(raw[1:])
		if err != nil {
			return nil, fmt.Errorf("keystore entry %d: %w", i, err)
		}
		ks.signers = append(ks.signers, s)
	}
	return ks, nil
}

// Len returns the number of usable signers.
func (k *Keystore) Len() int { return len(k.signers) }

// Signer returns the signer for owner. An empty owner selects the first
// entry.
func (k *Keystore) Signer(owner string) (*Signer, error) {
	if len(k.signers) == 0 {
		return nil, fmt.Errorf("%w: keystore holds no ed25519 keys", apperr.ErrKeystore)
	}
	if owner == "" {
		return k.signers[0], nil
	}

	want := NormalizeAddress(owner)
	for _, s := range k.signers {
		if NormalizeAddress(s.address) == want {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: no key for address %s", apperr.ErrKeystore, owner)
}
