package executor

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/utils/logging"
)

// MarkerRunner returns a runner that succeeds if the marker file still exists
// at the job's head revision. A missing file yields NotBuilt and an error
// of the source yields Failure.
func MarkerRunner(src interfaces.SCMSource, markerFile string) Runner {
	return func(ctx context.Context, job *model.ChildJob) types.Result {
		exists, err := src.CheckPathExists(ctx, job.HeadRevision, markerFile)
		if err != nil {
			logging.From(ctx).Warn("failed to check marker file in build",
				slog.Any("job", job.Name),
				slog.Any("error", err),
			)
			return types.ResultFailure
		}
		if !exists {
			return types.ResultNotBuilt
		}
		return types.ResultSuccess
	}
}
