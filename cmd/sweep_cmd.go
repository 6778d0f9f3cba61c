package cmd

import (
	"github.com/ocnetwork/walletauth/internal/models"
	"github.com/ocnetwork/walletauth/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var sweepCmd = cobra.Command{
	Use:  "sweep",
	Long: "Remove stored signature records older than the validity window",
	Run:  sweep,
}

func sweep(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	config := loadGlobalConfig(ctx)

	kv, err := storage.Dial(ctx, config)
	if err != nil {
		logrus.Fatalf("error opening signature storage: %+v", err)
	}
	defer kv.Close()

	records := models.NewSignatureRecordStore(kv, config.Sweeper.Namespace, config.Auth.ValidityWindow)

	affected, err := models.NewCleanup(records).Clean(ctx)
	if err != nil {
		logrus.Fatalf("error sweeping signature records: %+v", err)
	}

	logrus.WithField("affected", affected).Info("swept expired signature records")
}
