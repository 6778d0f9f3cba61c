package challenge

import (
	"context"
	"strings"
	"time"

	"github.com/fatih/structs"
	"github.com/ocnetwork/walletauth/internal/conf"
	"github.com/ocnetwork/walletauth/internal/models"
	"github.com/ocnetwork/walletauth/internal/observability"
	"github.com/ocnetwork/walletauth/internal/replay"
	"github.com/ocnetwork/walletauth/internal/utilities/stdmsg"
	"github.com/ocnetwork/walletauth/internal/verifier"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// State is the position of a challenge in its lifecycle.
type State string

const (
	Issued    State = "issued"
	Presented State = "presented"
	Verified  State = "verified"
	Rejected  State = "rejected"
)

// Protocol issues challenges and verifies the signatures returned for them.
// It owns its replay state; two protocols never share nonces.
type Protocol struct {
	app              stdmsg.Application
	defaultStatement string
	window           time.Duration

	verifier *verifier.Verifier
	guard    *replay.Guard

	// now is overridden in tests
	now func() time.Time
}

type Option func(*Protocol)

// WithClock sets the clock used to stamp and judge envelopes.
func WithClock(now func() time.Time) Option {
	return func(p *Protocol) {
		p.now = now
	}
}

func New(config *conf.AuthConfiguration, v *verifier.Verifier, guard *replay.Guard, opts ...Option) *Protocol {
	p := &Protocol{
		app: stdmsg.Application{
			Domain:  config.Domain,
			Version: config.Version,
			ChainID: config.ChainID,
		},
		defaultStatement: config.DefaultStatement,
		window:           v.ValidityWindow(),
		verifier:         v,
		guard:            guard,
		now:              time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Protocol) Guard() *replay.Guard {
	return p.guard
}

// Issue creates a fresh challenge envelope for address. An empty
// customMessage is replaced by the default statement.
func (p *Protocol) Issue(ctx context.Context, address, customMessage string) (*stdmsg.Envelope, error) {
	_, span := observability.Tracer("walletauth").Start(ctx, "challenge-issue")
	defer span.End()

	payload := customMessage
	if strings.TrimSpace(payload) == "" {
		payload = p.defaultStatement
	}

	envelope, err := stdmsg.NewAt(p.now(), payload, address, p.app.Domain, p.app.Version, p.app.ChainID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"component": "challenge",
		"state":     Issued,
		"address":   address,
		"nonce":     envelope.Nonce,
	}).Info("challenge issued")

	return envelope, nil
}

// Verify checks a presented record. Replays and malformed envelopes are
// rejected before any check runs and report every detail as false.
func (p *Protocol) Verify(ctx context.Context, record *models.SignatureRecord, expectedAddress string) *verifier.Outcome {
	ctx, span := observability.Tracer("walletauth").Start(ctx, "challenge-verify")
	defer span.End()

	logger := logrus.WithFields(logrus.Fields{
		"component": "challenge",
		"address":   record.Address,
	})
	logger.WithField("state", Presented).Debug("challenge presented")

	outcome := p.verify(ctx, record, expectedAddress)

	span.SetAttributes(
		attribute.Bool("walletauth.verify.valid", outcome.IsValid),
		attribute.String("walletauth.verify.outcome", outcome.Code()),
	)

	fields := logrus.Fields{"outcome": outcome.Code()}
	if outcome.Details != nil {
		for k, v := range structs.Map(outcome.Details) {
			fields[k] = v
		}
	}

	if outcome.IsValid {
		logger.WithFields(fields).WithField("state", Verified).Info("challenge verified")
	} else {
		logger.WithFields(fields).WithField("state", Rejected).Info("challenge rejected")
	}

	return outcome
}

func (p *Protocol) verify(ctx context.Context, record *models.SignatureRecord, expectedAddress string) *verifier.Outcome {
	envelope, err := stdmsg.Decode(record.Message)
	if err != nil {
		return verifier.Rejected(verifier.MalformedEnvelope)
	}

	// an envelope outside the window can never be verified, so its nonce is
	// not recorded and cannot crowd out live ones
	stale := p.isStale(envelope)

	if !stale && p.guard.Check(envelope.Nonce, envelope.IssuedAt()) {
		return verifier.Rejected(verifier.ReplayDetected)
	}

	outcome := p.verifier.Verify(ctx, record, expectedAddress)
	if stale && outcome.Details != nil && outcome.Error != verifier.MalformedEnvelope {
		details := *outcome.Details
		details.TimestampValid = false
		outcome = verifier.NewOutcome(details)
	}

	return outcome
}

// isStale reports whether the envelope was issued more than the window
// before now or more than the window in the future.
func (p *Protocol) isStale(envelope *stdmsg.Envelope) bool {
	age := p.now().Sub(envelope.IssuedAt())
	return age >= p.window || age <= -p.window
}
