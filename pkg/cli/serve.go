package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/brix/pkg/controller/server"
	"github.com/m-mizutani/brix/pkg/usecase"
	"github.com/m-mizutani/brix/pkg/utils/errutil"
	"github.com/m-mizutani/brix/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		addr     string
		interval time.Duration
		engine   engineConfig
	)
	serveFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Binding address",
			Value:       "127.0.0.1:8000",
			Sources:     cli.EnvVars("BRIX_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "interval",
			Usage:       "Interval of periodic scans of all projects. Disabled if 0",
			Value:       15 * time.Minute,
			Sources:     cli.EnvVars("BRIX_INTERVAL"),
			Destination: &interval,
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Server mode",
		Flags: slice.Flatten(
			serveFlags,
			engine.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("starting serve",
				slog.Any("Addr", addr),
				slog.Duration("Interval", interval),
				slog.Any("Config", &engine),
			)

			uc, closer, err := engine.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer closer()

			s := server.New(uc, server.WithWebhookSecret(engine.github.WebhookSecret()))
			// Scans started by requests must finish before closer releases the repository
			defer s.Wait()

			serverErr := make(chan error, 1)
			httpServer := &http.Server{
				Addr:    addr,
				Handler: s.Mux(),

				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
			}

			go func() {
				logging.Default().Info("starting http server", "addr", addr)
				if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
					serverErr <- goerr.Wrap(err, "failed to listen and serve")
				}
			}()

			scanCtx, stopScan := context.WithCancel(ctx)
			periodicDone := make(chan struct{})
			go func() {
				defer close(periodicDone)
				if interval > 0 {
					runPeriodicIndex(scanCtx, uc, interval)
				}
			}()
			defer func() {
				stopScan()
				<-periodicDone
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-serverErr:
				return err

			case sig := <-quit:
				logging.Default().Info("shutting down server", "signal", sig)
				stopScan()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := httpServer.Shutdown(ctx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server")
				}
			}

			return nil
		},
	}
}

// runPeriodicIndex scans all projects at start and every interval until ctx is cancelled
func runPeriodicIndex(ctx context.Context, uc *usecase.UseCase, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := uc.IndexAll(ctx); err != nil {
			errutil.HandleError(ctx, "periodic indexing has failure", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
