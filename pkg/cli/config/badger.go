package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/brix/pkg/repository/badger"
	"github.com/m-mizutani/brix/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type Badger struct {
	path       string
	syncWrites bool
	gcInterval time.Duration
}

func (x *Badger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "badger-path",
			Usage:       "Directory of embedded database. Index state is kept in the directory if set",
			Category:    "Badger",
			Sources:     cli.EnvVars("BRIX_BADGER_PATH"),
			Destination: &x.path,
		},
		&cli.BoolFlag{
			Name:        "badger-sync-writes",
			Usage:       "Sync every write of embedded database to disk",
			Category:    "Badger",
			Sources:     cli.EnvVars("BRIX_BADGER_SYNC_WRITES"),
			Destination: &x.syncWrites,
		},
		&cli.DurationFlag{
			Name:        "badger-gc-interval",
			Usage:       "Interval of value log garbage collection, 0 disables it",
			Category:    "Badger",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("BRIX_BADGER_GC_INTERVAL"),
			Destination: &x.gcInterval,
		},
	}
}

func (x *Badger) Enabled() bool {
	return x.path != ""
}

func (x *Badger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", x.path),
		slog.Bool("syncWrites", x.syncWrites),
		slog.Duration("gcInterval", x.gcInterval),
	)
}

func (x *Badger) GCInterval() time.Duration {
	return x.gcInterval
}

func (x *Badger) NewRepository() (*badger.Repository, error) {
	return badger.New(badger.Config{
		Path:       x.path,
		SyncWrites: x.syncWrites,
		Logger:     logging.Default().With(slog.String("component", "badger")),
	})
}
