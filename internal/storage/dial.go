package storage

import (
	"context"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v4/stdlib" // registers the pgx database/sql driver
	"github.com/jmoiron/sqlx"
	"github.com/ocnetwork/walletauth/internal/conf"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	advisorInterval        = time.Second
	advisorObserveDuration = time.Minute
)

// Dial opens the KV backend selected by the configuration.
func Dial(ctx context.Context, config *conf.GlobalConfiguration) (KV, error) {
	switch config.DB.Driver {
	case conf.MemoryDriver:
		logrus.Warn("using the in-memory store, signature records are lost on restart")
		return NewMemoryStore(), nil

	case conf.PostgresDriver:
		return DialSQL(ctx, config)

	default:
		return nil, errors.Errorf("storage: unsupported driver %q", config.DB.Driver)
	}
}

// DialSQL connects to PostgreSQL through the pgx driver.
func DialSQL(ctx context.Context, config *conf.GlobalConfiguration) (*SQLStore, error) {
	driver := "pgx"

	if config.Tracing.Enabled || config.Metrics.Enabled {
		instrumentedDriver, err := otelsql.Register(driver)
		if err != nil {
			logrus.WithError(err).Errorf("unable to instrument sql driver %q for use with OpenTelemetry", driver)
		} else {
			logrus.Debugf("using %s as an instrumented driver for OpenTelemetry", instrumentedDriver)

			// sqlx needs to be informed that the new instrumented
			// driver has the same semantics as the
			// non-instrumented driver
			sqlx.BindDriver(instrumentedDriver, sqlx.BindType(driver))

			driver = instrumentedDriver
		}
	}

	db, err := sqlx.Open(driver, config.DB.URL)
	if err != nil {
		return nil, errors.Wrap(err, "opening database connection")
	}

	// zero values keep the database/sql defaults
	if config.DB.MaxPoolSize > 0 {
		db.SetMaxOpenConns(config.DB.MaxPoolSize)
	}
	if config.DB.MaxIdlePoolSize > 0 {
		db.SetMaxIdleConns(config.DB.MaxIdlePoolSize)
	}
	if config.DB.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(config.DB.ConnMaxLifetime)
	}
	if config.DB.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(config.DB.ConnMaxIdleTime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "checking database connection")
	}

	if config.Metrics.Enabled {
		if err := otelsql.RegisterDBStatsMetrics(db.DB); err != nil {
			logrus.WithError(err).Error("unable to register OpenTelemetry stats metrics for database")
		} else {
			logrus.Debug("registered OpenTelemetry stats metrics for database")
		}
	}

	advisor := &Advisor{
		StatsFunc: db.DB.Stats,
		Interval:  advisorInterval,
	}
	advisor.Start(ctx, advisorObserveDuration)

	return NewSQLStore(db, config.DB.Namespace+"_entries"), nil
}
