package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/brix/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func indexCommand() *cli.Command {
	var engine engineConfig

	return &cli.Command{
		Name:    "index",
		Aliases: []string{"i"},
		Usage:   "Scan configured projects once and reconcile their jobs",
		Flags:   engine.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("starting index", slog.Any("config", &engine))

			uc, closer, err := engine.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer closer()

			runs, err := uc.IndexAll(ctx)
			for _, run := range runs {
				logging.Default().Info("indexing run",
					slog.Any("project", run.Project),
					slog.Any("result", run.Result),
					slog.Any("run_id", run.ID),
				)
			}
			return err
		},
	}
}
