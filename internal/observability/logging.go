package observability

import (
	"os"
	"sync"

	"github.com/bombsimon/logrusr/v3"
	"github.com/ocnetwork/walletauth/internal/conf"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

var (
	loggingOnce sync.Once
)

func ConfigureLogging(config *conf.LoggingConfig) error {
	var err error

	loggingOnce.Do(func() {
		logrus.SetFormatter(&logrus.JSONFormatter{})

		// use a file if you want
		if config.File != "" {
			f, errOpen := os.OpenFile(config.File, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0660) //#nosec G302 -- Log files should be rw-rw-r--
			if errOpen != nil {
				err = errOpen
				return
			}
			logrus.SetOutput(f)
			logrus.Infof("Set output file to %s", config.File)
		}

		if config.Level != "" {
			level, errParse := logrus.ParseLevel(config.Level)
			if errParse != nil {
				err = errParse
				return
			}
			logrus.SetLevel(level)
			logrus.Debug("Set log level to: " + logrus.GetLevel().String())
		}

		if len(config.Fields) > 0 {
			logrus.AddHook(&fieldsHook{fields: logrus.Fields(config.Fields)})
		}

		otel.SetLogger(logrusr.New(logrus.StandardLogger().WithField("component", "otel")))
	})

	return err
}

// fieldsHook stamps the configured static fields onto every entry.
type fieldsHook struct {
	fields logrus.Fields
}

func (h *fieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fieldsHook) Fire(entry *logrus.Entry) error {
	for k, v := range h.fields {
		if _, ok := entry.Data[k]; !ok {
			entry.Data[k] = v
		}
	}
	return nil
}
