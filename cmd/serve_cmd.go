package cmd

import (
	"context"
	"net"
	"time"

	"github.com/ocnetwork/walletauth/internal/api"
	"github.com/ocnetwork/walletauth/internal/models"
	"github.com/ocnetwork/walletauth/internal/observability"
	"github.com/ocnetwork/walletauth/internal/storage"
	"github.com/ocnetwork/walletauth/internal/utilities"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = cobra.Command{
	Use:  "serve",
	Long: "Start API server",
	Run: func(cmd *cobra.Command, args []string) {
		serve(cmd.Context())
	},
}

func serve(ctx context.Context) {
	config := loadGlobalConfig(ctx)

	if err := utilities.InitVersionMetrics(ctx); err != nil {
		logrus.WithError(err).Warn("unable to register version metrics")
	}

	protocol, err := newProtocol(&config.Auth)
	if err != nil {
		logrus.Fatalf("error building verification pipeline: %+v", err)
	}

	kv, err := storage.Dial(ctx, config)
	if err != nil {
		logrus.Fatalf("error opening signature storage: %+v", err)
	}
	defer kv.Close()

	a := api.NewAPIWithVersion(config, protocol, kv, utilities.Version)
	records := models.NewSignatureRecordStore(kv, config.Sweeper.Namespace, config.Auth.ValidityWindow)
	cleanup := models.NewCleanup(records, protocol.Guard())

	addr := net.JoinHostPort(config.API.Host, config.API.Port)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return a.ListenAndServe(egCtx, addr)
	})

	if config.Sweeper.Enabled {
		eg.Go(func() error {
			err := cleanup.Run(egCtx, config.Sweeper.Interval)
			if err == context.Canceled {
				return nil
			}
			return err
		})
	}

	if err := eg.Wait(); err != nil {
		logrus.WithError(err).Error("walletauth stopped with error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	api.WaitForCleanup(shutdownCtx)
	observability.WaitForCleanup(shutdownCtx)
}
