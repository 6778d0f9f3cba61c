package models

import (
	"context"
	"time"

	"github.com/ocnetwork/walletauth/internal/observability"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// NonceSweeper forgets nonces whose freshness window has passed.
type NonceSweeper interface {
	Sweep() int
}

type Cleanup struct {
	records *SignatureRecordStore
	nonces  []NonceSweeper

	// cleanupAffected tracks an OpenTelemetry metric on the total number of
	// cleaned up records and nonces.
	cleanupAffected metric.Int64Counter

	// now is overridden in tests
	now func() time.Time
}

func NewCleanup(records *SignatureRecordStore, nonces ...NonceSweeper) *Cleanup {
	return &Cleanup{
		records:         records,
		nonces:          nonces,
		cleanupAffected: observability.ObtainMetricCounter("walletauth_cleanup_affected", "Number of expired signature records and nonces removed"),
		now:             time.Now,
	}
}

// Clean removes expired signature records and nonces. Storage failures are
// returned after the nonce sweep so replay state is always swept.
func (c *Cleanup) Clean(ctx context.Context) (int, error) {
	ctx, span := observability.Tracer("walletauth").Start(ctx, "signature-cleanup")
	defer span.End()

	sweptNonces := 0
	for _, nonces := range c.nonces {
		sweptNonces += nonces.Sweep()
	}

	var (
		sweptRecords int
		err          error
	)

	if c.records != nil {
		sweptRecords, err = c.records.SweepExpired(ctx, c.now())
	}

	span.SetAttributes(
		attribute.Int64("walletauth.cleanup.swept_nonces", int64(sweptNonces)),
		attribute.Int64("walletauth.cleanup.swept_records", int64(sweptRecords)),
	)

	c.cleanupAffected.Add(ctx, int64(sweptNonces), metric.WithAttributes(attribute.String("kind", "nonce")))
	c.cleanupAffected.Add(ctx, int64(sweptRecords), metric.WithAttributes(attribute.String("kind", "record")))

	return sweptNonces + sweptRecords, err
}

// Run calls Clean every interval until ctx is done.
func (c *Cleanup) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			affected, err := c.Clean(ctx)
			entry := logrus.WithField("component", "cleanup").WithField("affected", affected)
			if err != nil {
				entry.WithError(err).Error("cleanup of expired signature state failed")
				continue
			}
			if affected > 0 {
				entry.Debug("cleaned up expired signature state")
			}
		}
	}
}
