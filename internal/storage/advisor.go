package storage

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// Advisory describes why the connection pool looks undersized.
type Advisory struct {
	LongWaitDurationSamples int
	Over2WaitingSamples     int
}

// Advisor samples connection pool statistics and advises when callers spend
// a significant share of time waiting for connections.
type Advisor struct {
	StatsFunc  func() sql.DBStats
	AdviseFunc func(Advisory)
	Interval   time.Duration

	Stats         sql.DBStats
	LastAdvisedAt time.Time

	Iterations int

	WaitDurationSamples []time.Duration
	WaitCountSamples    []int64
}

func logAdvisory(advisory Advisory) {
	logrus.WithFields(logrus.Fields{
		"component":                  "db.advisor",
		"long_wait_duration_samples": advisory.LongWaitDurationSamples,
		"over_2_waiting_samples":     advisory.Over2WaitingSamples,
	}).Warn("Suboptimal database connection pool settings detected! Consider doubling the max DB pool size configuration")
}

func (a *Advisor) setup(observeDuration time.Duration) {
	nSamples := int(math.Round(observeDuration.Seconds() / a.Interval.Seconds()))
	if nSamples < 1 {
		nSamples = 1
	}

	a.WaitDurationSamples = make([]time.Duration, nSamples)
	a.WaitCountSamples = make([]int64, nSamples)
}

// Start samples until ctx is done.
func (a *Advisor) Start(ctx context.Context, observeDuration time.Duration) {
	a.setup(observeDuration)
	a.Stats = a.StatsFunc()

	go func() {
		ticker := time.NewTicker(a.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.loop()
			}
		}
	}()
}

func (a *Advisor) loop() {
	a.Iterations += 1
	if a.Iterations < 0 {
		a.Iterations = 0
	}

	previousStats := a.Stats
	a.Stats = a.StatsFunc()

	a.WaitDurationSamples[a.Iterations%len(a.WaitDurationSamples)] = a.Stats.WaitDuration - previousStats.WaitDuration
	a.WaitCountSamples[a.Iterations%len(a.WaitCountSamples)] = a.Stats.WaitCount - previousStats.WaitCount

	advise := false

	longWaitDurationSamples := 0
	if a.Iterations >= len(a.WaitDurationSamples) {
		for _, sample := range a.WaitDurationSamples {
			if sample >= a.Interval {
				longWaitDurationSamples += 1
			}
		}

		// 1/3 of the observation time was spent waiting for over the interval
		advise = longWaitDurationSamples >= (len(a.WaitDurationSamples) / 3)
	}

	over2WaitingSamples := 0
	if !advise && a.Iterations >= len(a.WaitCountSamples) {
		for _, sample := range a.WaitCountSamples {
			if sample > 2 {
				over2WaitingSamples += 1
			}
		}

		// 1/3 of the observation time we saw more than 2 goroutines waiting for a connection
		advise = over2WaitingSamples >= (len(a.WaitCountSamples) / 3)
	}

	if advise && time.Since(a.LastAdvisedAt) >= time.Hour {
		a.LastAdvisedAt = time.Now()

		adviseFunc := a.AdviseFunc
		if adviseFunc == nil {
			adviseFunc = logAdvisory
		}

		adviseFunc(Advisory{
			LongWaitDurationSamples: longWaitDurationSamples,
			Over2WaitingSamples:     over2WaitingSamples,
		})
	}
}
