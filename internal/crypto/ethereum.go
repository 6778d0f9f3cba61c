package crypto

import (
	"crypto/ecdsa"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// EthereumScheme verifies EIP-191 personal_sign signatures made with a
// secp256k1 key.
type EthereumScheme struct{}

func (EthereumScheme) Name() string {
	return Ethereum
}

// Verify accepts a 64 byte [R || S] or 65 byte [R || S || V] signature and a
// compressed or uncompressed public key.
func (EthereumScheme) Verify(message, signature, publicKey []byte) bool {
	switch len(signature) {
	case 64:
	case 65:
		signature = signature[:64]
	default:
		return false
	}

	return ethcrypto.VerifySignature(publicKey, personalMessageHash(message), signature)
}

func (EthereumScheme) Address(publicKey []byte) (string, error) {
	return EthereumAddress(publicKey)
}

func (EthereumScheme) GenerateKey() (Signer, error) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("crypto: unable to generate secp256k1 key: %w", err)
	}
	return &ethereumSigner{key: key}, nil
}

func (EthereumScheme) ParsePrivateKey(raw []byte) (Signer, error) {
	key, err := ethcrypto.ToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("crypto: invalid secp256k1 private key: %w", err)
	}
	return &ethereumSigner{key: key}, nil
}

type ethereumSigner struct {
	key *ecdsa.PrivateKey
}

// Sign returns a 65 byte signature with the V value in the 27/28 form wallets
// produce.
func (s *ethereumSigner) Sign(message []byte) ([]byte, error) {
	signature, err := ethcrypto.Sign(personalMessageHash(message), s.key)
	if err != nil {
		return nil, fmt.Errorf("crypto: unable to sign message: %w", err)
	}
	signature[64] += 27
	return signature, nil
}

func (s *ethereumSigner) PublicKey() []byte {
	return ethcrypto.FromECDSAPub(&s.key.PublicKey)
}

func (s *ethereumSigner) PrivateKey() []byte {
	return ethcrypto.FromECDSA(s.key)
}

// personalMessageHash hashes message according to EIP-191.
func personalMessageHash(message []byte) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	return ethcrypto.Keccak256([]byte(prefixed))
}

// EthereumAddress derives the checksummed address of a secp256k1 public key
// in compressed or uncompressed form.
func EthereumAddress(publicKey []byte) (string, error) {
	var (
		key *ecdsa.PublicKey
		err error
	)

	switch len(publicKey) {
	case 33:
		key, err = ethcrypto.DecompressPubkey(publicKey)
	case 65:
		key, err = ethcrypto.UnmarshalPubkey(publicKey)
	default:
		return "", fmt.Errorf("crypto: secp256k1 public key must be 33 or 65 bytes, got %d", len(publicKey))
	}
	if err != nil {
		return "", fmt.Errorf("crypto: invalid secp256k1 public key: %w", err)
	}

	return ethcrypto.PubkeyToAddress(*key).Hex(), nil
}
