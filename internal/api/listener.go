package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ListenAndServe starts the REST API and blocks until ctx is done and the
// server has shut down, or until listening fails.
func (a *API) ListenAndServe(ctx context.Context, hostAndPort string) error {
	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logrus.WithField("component", "api")

	server := &http.Server{
		Addr:              hostAndPort,
		Handler:           a.handler,
		ReadHeaderTimeout: 2 * time.Second, // to mitigate a Slowloris attack
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}

	stopped := make(chan struct{})

	cleanupWaitGroup.Add(1)
	go func() {
		defer cleanupWaitGroup.Done()

		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Minute)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	log.WithField("addr", hostAndPort).Info("walletauth API started")

	err := server.ListenAndServe()
	close(stopped)

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
