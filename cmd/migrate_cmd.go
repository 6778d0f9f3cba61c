package cmd

import (
	"github.com/ocnetwork/walletauth/internal/conf"
	"github.com/ocnetwork/walletauth/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = cobra.Command{
	Use:  "migrate",
	Long: "Migrate database structures. This will create the signature entries table and its indexes.",
	Run:  migrate,
}

func migrate(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	globalConfig := loadGlobalConfig(ctx)

	if globalConfig.DB.Driver != conf.PostgresDriver {
		logrus.Infof("DB driver %q keeps no schema, nothing to migrate", globalConfig.DB.Driver)
		return
	}

	store, err := storage.DialSQL(ctx, globalConfig)
	if err != nil {
		logrus.Fatalf("error opening database: %+v", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		logrus.Fatalf("%+v", err)
	}

	logrus.WithField("table", store.Table()).Info("walletauth migrations applied successfully")
}
