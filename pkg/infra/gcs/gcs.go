package gcs

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

// Archive stores indexing run logs as objects of a Cloud Storage bucket
type Archive struct {
	client *storage.Client
	bucket types.GCSBucket
	prefix string
}

var _ interfaces.LogArchive = (*Archive)(nil)

// New creates a log archive. Object names are "<prefix>/<project>/<run ID>.log".
func New(ctx context.Context, bucket types.GCSBucket, prefix string, options ...option.ClientOption) (*Archive, error) {
	if bucket == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "bucket is required")
	}

	client, err := storage.NewClient(ctx, options...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}

	return &Archive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// ObjectName returns object name of the run log
func ObjectName(prefix string, run *model.IndexingRun) string {
	return path.Join(strings.Trim(prefix, "/"), run.Project.String(), run.ID.String()+".log")
}

// Put implements interfaces.LogArchive
func (x *Archive) Put(ctx context.Context, run *model.IndexingRun) error {
	name := ObjectName(x.prefix, run)

	w := x.client.Bucket(x.bucket.String()).Object(name).NewWriter(ctx)
	w.ContentType = "text/plain; charset=utf-8"
	w.Metadata = map[string]string{
		"project":    run.Project.String(),
		"result":     run.Result.String(),
		"started_at": run.StartedAt.Format(time.RFC3339),
	}

	if _, err := io.Copy(w, strings.NewReader(run.Log())); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write run log",
			goerr.V("bucket", x.bucket),
			goerr.V("object", name),
		)
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to close object writer",
			goerr.V("bucket", x.bucket),
			goerr.V("object", name),
		)
	}

	logging.From(ctx).Debug("archived indexing run log",
		slog.String("bucket", x.bucket.String()),
		slog.String("object", name),
	)
	return nil
}

func (x *Archive) Close() error {
	if err := x.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close Cloud Storage client")
	}
	return nil
}
