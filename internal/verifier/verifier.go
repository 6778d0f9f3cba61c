package verifier

import (
	"context"
	"strings"
	"time"

	"github.com/ocnetwork/walletauth/internal/crypto"
	"github.com/ocnetwork/walletauth/internal/models"
	"github.com/ocnetwork/walletauth/internal/observability"
	"github.com/ocnetwork/walletauth/internal/utilities/stdmsg"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const DefaultValidityWindow = 5 * time.Minute

var verificationsCounter = observability.ObtainMetricCounter("walletauth_verifications", "Number of signature verifications by outcome")

// Verifier runs the signature, freshness and identity checks over a
// signature record.
type Verifier struct {
	crypto   crypto.Verifier
	encoding crypto.Encoding
	window   time.Duration

	// deriveAddress, when set, binds record.PublicKey to record.Address
	deriveAddress func(publicKey []byte) (string, error)

	// now is overridden in tests
	now func() time.Time
}

type Option func(*Verifier)

// WithValidityWindow sets how long after its timestamp a record stays fresh.
func WithValidityWindow(window time.Duration) Option {
	return func(v *Verifier) {
		v.window = window
	}
}

// WithKeyBinding makes the identity check also require that the record's
// public key derives to the record's address.
func WithKeyBinding(deriveAddress func(publicKey []byte) (string, error)) Option {
	return func(v *Verifier) {
		v.deriveAddress = deriveAddress
	}
}

// WithClock sets the clock used by the freshness check.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		v.now = now
	}
}

func New(cv crypto.Verifier, encoding crypto.Encoding, opts ...Option) *Verifier {
	v := &Verifier{
		crypto:   cv,
		encoding: encoding,
		window:   DefaultValidityWindow,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

func (v *Verifier) ValidityWindow() time.Duration {
	return v.window
}

// Verify checks record. An empty expectedAddress skips the identity check.
func (v *Verifier) Verify(ctx context.Context, record *models.SignatureRecord, expectedAddress string) *Outcome {
	var outcome *Outcome

	if !stdmsg.IsWellFormed(record.Message) {
		outcome = Rejected(MalformedEnvelope)
	} else {
		outcome = NewOutcome(Details{
			SignatureValid: v.checkSignature(record),
			TimestampValid: v.checkFreshness(record),
			AddressValid:   checkAddress(record.Address, expectedAddress) && v.checkKeyBinding(record),
		})
	}

	verificationsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome.Code())))

	return outcome
}

// checkSignature fails closed: any decode error means an invalid signature.
func (v *Verifier) checkSignature(record *models.SignatureRecord) bool {
	signature, err := v.encoding.DecodeString(record.Signature)
	if err != nil {
		return false
	}

	publicKey, err := v.encoding.DecodeString(record.PublicKey)
	if err != nil {
		return false
	}

	return v.crypto.Verify([]byte(record.Message), signature, publicKey)
}

func (v *Verifier) checkFreshness(record *models.SignatureRecord) bool {
	return v.now().Sub(record.CreatedAt()) < v.window
}

func (v *Verifier) checkKeyBinding(record *models.SignatureRecord) bool {
	if v.deriveAddress == nil {
		return true
	}

	publicKey, err := v.encoding.DecodeString(record.PublicKey)
	if err != nil {
		return false
	}

	derived, err := v.deriveAddress(publicKey)
	if err != nil {
		return false
	}

	return strings.EqualFold(derived, record.Address)
}

func checkAddress(address, expected string) bool {
	if expected == "" {
		return true
	}
	return strings.EqualFold(address, expected)
}
