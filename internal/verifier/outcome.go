package verifier

// Outcome codes reported in Outcome.Error.
const (
	MalformedEnvelope = "MalformedEnvelope"
	SignatureInvalid  = "SignatureInvalid"
	Expired           = "Expired"
	AddressMismatch   = "AddressMismatch"
	ReplayDetected    = "ReplayDetected"
	StorageError      = "StorageError"
)

// Details reports every check independently of the others.
type Details struct {
	SignatureValid bool `json:"signatureValid" structs:"signature_valid"`
	TimestampValid bool `json:"timestampValid" structs:"timestamp_valid"`
	AddressValid   bool `json:"addressValid" structs:"address_valid"`
}

// Outcome is the result of a verification. Problems with the presented record
// are reported here and never as Go errors.
type Outcome struct {
	IsValid bool     `json:"isValid"`
	Error   string   `json:"error,omitempty"`
	Details *Details `json:"details,omitempty"`
}

// Code returns the outcome code used for logs and metrics, "Valid" when no
// check failed.
func (o *Outcome) Code() string {
	if o.IsValid {
		return "Valid"
	}
	return o.Error
}

// NewOutcome derives validity and the error code from the check results. The
// most fundamental failure wins: signature, then freshness, then identity.
func NewOutcome(details Details) *Outcome {
	outcome := &Outcome{
		IsValid: details.SignatureValid && details.TimestampValid && details.AddressValid,
		Details: &details,
	}

	switch {
	case !details.SignatureValid:
		outcome.Error = SignatureInvalid
	case !details.TimestampValid:
		outcome.Error = Expired
	case !details.AddressValid:
		outcome.Error = AddressMismatch
	}

	return outcome
}

// Rejected returns an outcome that reports code with every check false, so
// nothing about partial validity leaks to the caller.
func Rejected(code string) *Outcome {
	return &Outcome{
		IsValid: false,
		Error:   code,
		Details: &Details{},
	}
}
