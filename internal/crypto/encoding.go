package crypto

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
)

const (
	Base64 = "base64"
	Base58 = "base58"
	Hex    = "hex"
)

var ErrEmptyInput = errors.New("crypto: encoded value is empty")

// Encoding is the wire encoding of signatures and public keys.
type Encoding interface {
	Name() string
	EncodeToString(src []byte) string
	DecodeString(s string) ([]byte, error)
}

// EncodingByName returns the wire encoding registered under name.
func EncodingByName(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case Base64:
		return Base64Encoding{}, nil
	case Base58:
		return Base58Encoding{}, nil
	case Hex:
		return HexEncoding{}, nil
	default:
		return nil, fmt.Errorf("crypto: unsupported key encoding %q", name)
	}
}

// Base64Encoding encodes with padded standard base64 and decodes any of the
// standard, raw or URL safe alphabets.
type Base64Encoding struct{}

func (Base64Encoding) Name() string {
	return Base64
}

func (Base64Encoding) EncodeToString(src []byte) string {
	return base64.StdEncoding.EncodeToString(src)
}

func (Base64Encoding) DecodeString(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyInput
	}

	// normalize URL safe input to the standard alphabet without padding
	s = strings.TrimRight(s, "=")
	s = strings.NewReplacer("-", "+", "_", "/").Replace(s)

	decoded, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("crypto: invalid base64 value: %w", err)
	}
	return decoded, nil
}

type Base58Encoding struct{}

func (Base58Encoding) Name() string {
	return Base58
}

func (Base58Encoding) EncodeToString(src []byte) string {
	return base58.Encode(src)
}

func (Base58Encoding) DecodeString(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyInput
	}

	decoded := base58.Decode(s)
	if len(decoded) == 0 {
		return nil, errors.New("crypto: invalid base58 value")
	}
	return decoded, nil
}

// HexEncoding encodes without a prefix and decodes with or without 0x.
type HexEncoding struct{}

func (HexEncoding) Name() string {
	return Hex
}

func (HexEncoding) EncodeToString(src []byte) string {
	return hex.EncodeToString(src)
}

func (HexEncoding) DecodeString(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	if s == "" {
		return nil, ErrEmptyInput
	}

	decoded, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("crypto: invalid hex value: %w", err)
	}
	return decoded, nil
}
