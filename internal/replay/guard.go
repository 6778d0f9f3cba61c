package replay

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/ocnetwork/walletauth/internal/observability"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/metric"
)

const (
	DefaultWindow   = 5 * time.Minute
	DefaultCapacity = 10000
)

// Guard remembers nonces that were presented for verification so the same
// signed envelope is never accepted twice. Each nonce is retained until its
// envelope can no longer pass the freshness window; live nonces are never
// evicted.
type Guard struct {
	mu sync.Mutex

	// seen maps a nonce to the time it may be forgotten.
	seen map[string]time.Time
	// expiries orders the entries of seen by the time they may be forgotten,
	// so sweeps only visit nonces that are due.
	expiries expiryQueue
	window   time.Duration
	capacity int

	// now is overridden in tests
	now func() time.Time
}

type Option func(*Guard)

func WithWindow(window time.Duration) Option {
	return func(g *Guard) {
		g.window = window
	}
}

// WithCapacity sets the retained count above which expired nonces are swept
// on insertion.
func WithCapacity(capacity int) Option {
	return func(g *Guard) {
		g.capacity = capacity
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		g.now = now
	}
}

func NewGuard(opts ...Option) *Guard {
	g := &Guard{
		seen:     make(map[string]time.Time),
		window:   DefaultWindow,
		capacity: DefaultCapacity,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Check records nonce and reports whether it was already seen. A nonce whose
// envelope was issued too long ago to still be tracked is reported as seen,
// since the guard can no longer prove it was not.
func (g *Guard) Check(nonce string, issuedAt time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if expiresAt, ok := g.seen[nonce]; ok && now.Before(expiresAt) {
		return true
	}

	expiresAt := issuedAt.Add(g.window)
	if !now.Before(expiresAt) {
		return true
	}

	g.seen[nonce] = expiresAt
	heap.Push(&g.expiries, expiry{nonce: nonce, expiresAt: expiresAt})

	if len(g.seen) > g.capacity {
		if swept := g.sweepLocked(now); swept > 0 {
			logrus.WithFields(logrus.Fields{
				"component": "replay",
				"swept":     swept,
				"retained":  len(g.seen),
			}).Debug("nonce capacity exceeded, swept expired nonces")
		}
	}

	return false
}

// Sweep forgets every nonce whose freshness window has passed and returns how
// many were removed.
func (g *Guard) Sweep() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.sweepLocked(g.now())
}

func (g *Guard) sweepLocked(now time.Time) int {
	swept := 0
	for len(g.expiries) > 0 && !now.Before(g.expiries[0].expiresAt) {
		due := heap.Pop(&g.expiries).(expiry)

		// a nonce presented again after expiring has a newer entry queued
		if expiresAt, ok := g.seen[due.nonce]; ok && expiresAt.Equal(due.expiresAt) {
			delete(g.seen, due.nonce)
			swept += 1
		}
	}
	return swept
}

type expiry struct {
	nonce     string
	expiresAt time.Time
}

// expiryQueue is a min-heap of expiries ordered by expiresAt.
type expiryQueue []expiry

func (q expiryQueue) Len() int           { return len(q) }
func (q expiryQueue) Less(i, j int) bool { return q[i].expiresAt.Before(q[j].expiresAt) }
func (q expiryQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *expiryQueue) Push(x any) {
	*q = append(*q, x.(expiry))
}

func (q *expiryQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Len returns the number of retained nonces.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.seen)
}

// RegisterMetrics exports the retained nonce count as a gauge.
func (g *Guard) RegisterMetrics() error {
	_, err := observability.Meter("walletauth").Int64ObservableGauge(
		"walletauth_replay_retained_nonces",
		metric.WithDescription("Number of nonces retained for replay protection"),
		metric.WithInt64Callback(func(_ context.Context, obsrv metric.Int64Observer) error {
			obsrv.Observe(int64(g.Len()))
			return nil
		}),
	)
	return err
}
