package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type Config struct {
	// Path is the directory of database files. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in memory. Used for testing.
	InMemory bool

	// SyncWrites makes every write durable before it returns.
	SyncWrites bool

	// Logger receives badger's internal logs. If nil, they are discarded.
	Logger *slog.Logger
}

type Repository struct {
	db       *badger.DB
	inMemory bool
}

var _ interfaces.IndexRepository = (*Repository)(nil)

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// New opens a badger database and returns a repository on it
func New(cfg Config) (*Repository, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, goerr.New("path is required for persistent database")
		}
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, goerr.Wrap(err, "failed to create database directory", goerr.V("path", cfg.Path))
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open badger database", goerr.V("path", cfg.Path))
	}

	return &Repository{db: db, inMemory: cfg.InMemory}, nil
}

func (x *Repository) Close() error {
	return x.db.Close()
}

// RunGC runs value log garbage collection every interval until ctx is done
func (x *Repository) RunGC(ctx context.Context, interval time.Duration) {
	if x.inMemory || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				if err := x.db.RunValueLogGC(0.5); err != nil {
					if err != badger.ErrNoRewrite {
						logging.From(ctx).Warn("badger GC failed", slog.Any("error", err))
					}
					break
				}
			}
		}
	}
}
