package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// suiEd25519Flag prefixes an Ed25519 public key when deriving a Sui address.
const suiEd25519Flag = 0x00

// Ed25519Scheme verifies raw Ed25519 signatures and derives Sui style
// addresses.
type Ed25519Scheme struct{}

func (Ed25519Scheme) Name() string {
	return Ed25519
}

func (Ed25519Scheme) Verify(message, signature, publicKey []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
		return false
	}

	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature)
}

func (Ed25519Scheme) Address(publicKey []byte) (string, error) {
	return SuiAddress(publicKey)
}

func (Ed25519Scheme) GenerateKey() (Signer, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("crypto: unable to generate ed25519 key: %w", err)
	}
	return &ed25519Signer{key: privateKey}, nil
}

// ParsePrivateKey accepts either a 32 byte seed or a 64 byte private key.
func (Ed25519Scheme) ParsePrivateKey(raw []byte) (Signer, error) {
	switch len(raw) {
	case ed25519.SeedSize:
		return &ed25519Signer{key: ed25519.NewKeyFromSeed(raw)}, nil
	case ed25519.PrivateKeySize:
		return &ed25519Signer{key: ed25519.PrivateKey(append([]byte(nil), raw...))}, nil
	default:
		return nil, fmt.Errorf("crypto: ed25519 private key must be %d or %d bytes, got %d", ed25519.SeedSize, ed25519.PrivateKeySize, len(raw))
	}
}

type ed25519Signer struct {
	key ed25519.PrivateKey
}

func (s *ed25519Signer) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(s.key, message), nil
}

func (s *ed25519Signer) PublicKey() []byte {
	return []byte(s.key.Public().(ed25519.PublicKey))
}

func (s *ed25519Signer) PrivateKey() []byte {
	return s.key.Seed()
}

// SuiAddress derives the Sui address of an Ed25519 public key:
// 0x || hex(blake2b-256(flag || publicKey)).
func SuiAddress(publicKey []byte) (string, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return "", fmt.Errorf("crypto: ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(publicKey))
	}

	hash := blake2b.Sum256(append([]byte{suiEd25519Flag}, publicKey...))

	return fmt.Sprintf("0x%x", hash), nil
}
