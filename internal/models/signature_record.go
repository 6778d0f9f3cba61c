package models

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// SignatureRecord is a signature presented for verification together with
// the canonical envelope it signs.
type SignatureRecord struct {
	Signature string `json:"signature"`
	Message   string `json:"message"`
	PublicKey string `json:"publicKey"`
	Address   string `json:"address"`

	// Timestamp is the record creation time in milliseconds since the epoch.
	// It drives freshness and record expiry, not the envelope timestamp.
	Timestamp int64 `json:"timestamp"`
}

// CreatedAt returns Timestamp as a time.
func (r *SignatureRecord) CreatedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// ParseSignatureRecord decodes a serialized record, requiring every field to
// be present with the right JSON type.
func ParseSignatureRecord(data []byte) (*SignatureRecord, error) {
	var raw struct {
		Signature *string `json:"signature"`
		Message   *string `json:"message"`
		PublicKey *string `json:"publicKey"`
		Address   *string `json:"address"`
		Timestamp *int64  `json:"timestamp"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(ErrInvalidSignatureRecord, err.Error())
	}

	missing := ""
	switch {
	case raw.Signature == nil:
		missing = "signature"
	case raw.Message == nil:
		missing = "message"
	case raw.PublicKey == nil:
		missing = "publicKey"
	case raw.Address == nil:
		missing = "address"
	case raw.Timestamp == nil:
		missing = "timestamp"
	}
	if missing != "" {
		return nil, errors.Wrapf(ErrInvalidSignatureRecord, "missing field %q", missing)
	}

	return &SignatureRecord{
		Signature: *raw.Signature,
		Message:   *raw.Message,
		PublicKey: *raw.PublicKey,
		Address:   *raw.Address,
		Timestamp: *raw.Timestamp,
	}, nil
}
