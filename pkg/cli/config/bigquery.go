package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/infra/bq"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

type BigQuery struct {
	projectID         types.GoogleProjectID
	datasetID         types.BQDatasetID
	tableID           types.BQTableID
	impersonateTarget string
}

func (x *BigQuery) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bigquery-project-id",
			Usage:       "BigQuery project ID to export indexing runs",
			Category:    "BigQuery",
			Sources:     cli.EnvVars("BRIX_BIGQUERY_PROJECT_ID"),
			Destination: (*string)(&x.projectID),
		},
		&cli.StringFlag{
			Name:        "bigquery-dataset-id",
			Usage:       "BigQuery dataset ID",
			Category:    "BigQuery",
			Sources:     cli.EnvVars("BRIX_BIGQUERY_DATASET_ID"),
			Destination: (*string)(&x.datasetID),
		},
		&cli.StringFlag{
			Name:        "bigquery-table-id",
			Usage:       "BigQuery table ID",
			Category:    "BigQuery",
			Sources:     cli.EnvVars("BRIX_BIGQUERY_TABLE_ID"),
			Value:       "indexing_runs",
			Destination: (*string)(&x.tableID),
		},
		&cli.StringFlag{
			Name:        "bigquery-impersonate-service-account",
			Usage:       "Service account to impersonate for BigQuery",
			Category:    "BigQuery",
			Sources:     cli.EnvVars("BRIX_BIGQUERY_IMPERSONATE_SERVICE_ACCOUNT"),
			Destination: &x.impersonateTarget,
		},
	}
}

func (x *BigQuery) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("ProjectID", x.projectID),
		slog.Any("DatasetID", x.datasetID),
		slog.Any("TableID", x.tableID),
		slog.Any("ImpersonateTarget", x.impersonateTarget),
	)
}

// NewClient returns nil without error if project ID or dataset ID is not set
func (x *BigQuery) NewClient(ctx context.Context) (*bq.Client, error) {
	if x.projectID == "" || x.datasetID == "" {
		return nil, nil
	}

	var options []option.ClientOption
	if x.impersonateTarget != "" {
		options = append(options, option.ImpersonateCredentials(x.impersonateTarget))
	}

	return bq.New(ctx, x.projectID, x.datasetID, x.tableID, options...)
}
