package stdmsg

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Envelope is the canonical standard message a wallet holder signs. Fields
// are declared in lexicographic order of their JSON names so encoding/json
// serializes them in that order.
type Envelope struct {
	Address   string `json:"address"`
	ChainID   string `json:"chainId"`
	Domain    string `json:"domain"`
	Message   string `json:"message"`
	Nonce     string `json:"nonce"`
	Timestamp int64  `json:"timestamp"`
	Version   string `json:"version"`
}

// New creates an envelope for payload stamped with the current time and a
// fresh nonce. Every call returns a distinct envelope.
func New(payload, address, domain, version, chainID string) (*Envelope, error) {
	return NewAt(time.Now(), payload, address, domain, version, chainID)
}

// NewAt is New with an explicit issuance time.
func NewAt(issuedAt time.Time, payload, address, domain, version, chainID string) (*Envelope, error) {
	if strings.TrimSpace(address) == "" {
		return nil, ErrEmptyAddress
	}

	nonce, err := GenerateNonce()
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Address:   address,
		ChainID:   chainID,
		Domain:    domain,
		Message:   payload,
		Nonce:     nonce,
		Timestamp: issuedAt.UnixMilli(),
		Version:   version,
	}, nil
}

// IssuedAt returns the envelope timestamp as a time.
func (e *Envelope) IssuedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Canonical returns the deterministic serialization of the envelope, the
// exact text that is signed and verified.
func (e *Envelope) Canonical() string {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	// an Envelope only holds strings and an int64, so encoding cannot fail
	_ = enc.Encode(e)

	return strings.TrimSuffix(buf.String(), "\n")
}

func (e *Envelope) String() string {
	return e.Canonical()
}

// Decode parses serialized into an Envelope. Any input that is not a
// well-formed envelope fails with ErrMalformedEnvelope.
func Decode(serialized string) (*Envelope, error) {
	if !IsWellFormed(serialized) {
		return nil, ErrMalformedEnvelope
	}

	var envelope Envelope
	if err := json.Unmarshal([]byte(serialized), &envelope); err != nil {
		return nil, errors.Wrap(ErrMalformedEnvelope, err.Error())
	}

	return &envelope, nil
}

// DecodePayload extracts the message payload from a serialized envelope. The
// payload is reported absent when serialized does not parse or carries an
// empty message.
func DecodePayload(serialized string) (string, bool) {
	var partial struct {
		Message *string `json:"message"`
	}

	if err := json.Unmarshal([]byte(serialized), &partial); err != nil {
		return "", false
	}

	if partial.Message == nil || *partial.Message == "" {
		return "", false
	}

	return *partial.Message, true
}
