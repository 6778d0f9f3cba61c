package crypto

import (
	"fmt"
	"strings"
)

const (
	Ed25519  = "ed25519"
	Ethereum = "ethereum"
)

// Verifier checks a raw signature over message bytes against a public key.
// Implementations must be deterministic and side-effect free.
type Verifier interface {
	Verify(message, signature, publicKey []byte) bool
}

// VerifierFunc adapts a plain function to a Verifier.
type VerifierFunc func(message, signature, publicKey []byte) bool

func (f VerifierFunc) Verify(message, signature, publicKey []byte) bool {
	return f(message, signature, publicKey)
}

// Signer holds a private key. It is used by the CLI tooling and tests to
// produce signatures the way a wallet would.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() []byte
	PrivateKey() []byte
}

// Scheme bundles everything the service knows about one signature scheme.
type Scheme interface {
	Verifier

	Name() string
	Address(publicKey []byte) (string, error)
	GenerateKey() (Signer, error)
	ParsePrivateKey(raw []byte) (Signer, error)
}

// SchemeByName returns the scheme registered under name.
func SchemeByName(name string) (Scheme, error) {
	switch strings.ToLower(name) {
	case Ed25519:
		return Ed25519Scheme{}, nil
	case Ethereum:
		return EthereumScheme{}, nil
	default:
		return nil, fmt.Errorf("crypto: unsupported signature scheme %q", name)
	}
}
