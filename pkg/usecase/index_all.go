package usecase

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// IndexAll scans every configured project in name order. It returns an error if any run did not end with SUCCESS.
func (x *UseCase) IndexAll(ctx context.Context) ([]*model.IndexingRun, error) {
	logger := logging.From(ctx)

	var runs []*model.IndexingRun
	var failed []string

	projects := x.Projects()
	for i, name := range projects {
		logger.Info("Indexing project",
			slog.Int("progress", i+1),
			slog.Int("total", len(projects)),
			slog.Any("project", name),
		)

		run, err := x.IndexProject(ctx, name)
		if err != nil {
			return runs, goerr.Wrap(err, "failed to index project", goerr.V("project", name))
		}
		runs = append(runs, run)

		if run.Result != types.ResultSuccess {
			failed = append(failed, name.String()+": "+run.Result.String())
		}
	}

	logger.Info("Completed indexing",
		slog.Int("total", len(projects)),
		slog.Int("success", len(projects)-len(failed)),
		slog.Int("failure", len(failed)),
	)

	if len(failed) > 0 {
		return runs, goerr.New("some projects failed to index",
			goerr.V("success_count", len(projects)-len(failed)),
			goerr.V("failure_count", len(failed)),
			goerr.V("failed_projects", failed),
		)
	}

	return runs, nil
}
