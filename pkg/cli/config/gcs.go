package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/infra/gcs"
	"github.com/urfave/cli/v3"
)

type GCS struct {
	bucket types.GCSBucket
	prefix string
}

func (x *GCS) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket to archive indexing logs",
			Category:    "Cloud Storage",
			Sources:     cli.EnvVars("BRIX_GCS_BUCKET"),
			Destination: (*string)(&x.bucket),
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix of indexing logs",
			Category:    "Cloud Storage",
			Sources:     cli.EnvVars("BRIX_GCS_PREFIX"),
			Value:       "brix/",
			Destination: &x.prefix,
		},
	}
}

func (x *GCS) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("Bucket", x.bucket),
		slog.String("Prefix", x.prefix),
	)
}

// NewArchive returns nil without error if bucket is not set
func (x *GCS) NewArchive(ctx context.Context) (*gcs.Archive, error) {
	if x.bucket == "" {
		return nil, nil
	}
	return gcs.New(ctx, x.bucket, x.prefix)
}
