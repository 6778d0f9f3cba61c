package metering

import (
	"github.com/sirupsen/logrus"
)

// VerificationData contains structured data for a verified wallet signature
type VerificationData struct {
	// Scheme is the signature scheme the wallet signed with (e.g. "ed25519", "ethereum")
	Scheme string `json:"scheme"`

	// ChainID and Domain are the application constants bound into the envelope
	ChainID string `json:"chain_id,omitempty"`
	Domain  string `json:"domain,omitempty"`

	// Address is the wallet address that signed the envelope
	Address string `json:"address,omitempty"`

	// Extra holds additional context such as the storage key of a saved record
	Extra map[string]interface{} `json:"extra,omitempty"`
}

var logger = logrus.StandardLogger().WithField("metering", true)

// RecordVerification emits one analytics event for a successful verification.
func RecordVerification(requestID string, data *VerificationData) {
	fields := logrus.Fields{
		"action":     "wallet_verification",
		"request_id": requestID,
	}

	if data != nil {
		if data.Scheme != "" {
			fields["scheme"] = data.Scheme
		}
		if data.ChainID != "" {
			fields["chain_id"] = data.ChainID
		}
		if data.Domain != "" {
			fields["domain"] = data.Domain
		}
		if data.Address != "" {
			fields["address"] = data.Address
		}

		for key, value := range data.Extra {
			fields[key] = value
		}
	}

	logger.WithFields(fields).Info("Verification")
}
