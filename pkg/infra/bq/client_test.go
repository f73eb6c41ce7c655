package bq_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/bqs"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/infra/bq"
	"github.com/m-mizutani/brix/pkg/utils/testutil"
	"github.com/m-mizutani/gt"
)

func newRunRecord() *model.RunRecord {
	now := time.Now()
	run := model.NewIndexingRun("bob/foo", now)
	run.Appendf("Checking branches...")
	run.Finish(types.ResultSuccess, now.Add(time.Second))

	job := &model.ChildJob{
		Name:              "main",
		Kind:              types.DecisionBranch,
		HeadRevision:      "aaaa",
		LastBuiltRevision: "aaaa",
		NextBuildNumber:   2,
	}
	return model.NewRunRecord(run, []*model.ChildJob{job})
}

func TestClient(t *testing.T) {
	projectID := testutil.GetEnvOrSkip(t, "TEST_BIGQUERY_PROJECT_ID")
	datasetID := testutil.GetEnvOrSkip(t, "TEST_BIGQUERY_DATASET_ID")

	ctx := context.Background()

	tblName := types.BQTableID(time.Now().Format("insert_test_20060102_150405"))
	client := gt.R1(bq.New(ctx, types.GoogleProjectID(projectID), types.BQDatasetID(datasetID), tblName)).NoError(t)
	t.Cleanup(func() { gt.NoError(t, client.Close()) })

	record := newRunRecord()
	schema := gt.R1(bqs.Infer(record)).NoError(t)

	t.Run("GetMetadata before creation returns nil", func(t *testing.T) {
		md := gt.R1(client.GetMetadata(ctx)).NoError(t)
		gt.V(t, md).Equal(nil)
	})

	t.Run("Create table and insert record", func(t *testing.T) {
		gt.NoError(t, client.CreateTable(ctx, &bigquery.TableMetadata{
			Name:   tblName.String(),
			Schema: schema,
		}))
		gt.NoError(t, client.Insert(ctx, schema, record.Raw()))
	})
}

func TestNewRequiresTable(t *testing.T) {
	_, err := bq.New(context.Background(), "my-project", "my_dataset", "")
	gt.Error(t, err)
}

func TestRowEncoder(t *testing.T) {
	record := newRunRecord()
	schema := gt.R1(bqs.Infer(record)).NoError(t)

	enc := gt.R1(bq.NewRowEncoder(schema)).NoError(t)
	b := gt.R1(enc.Encode(record.Raw())).NoError(t)
	gt.True(t, len(b) > 0)

	t.Run("time.Time is not accepted as TIMESTAMP", func(t *testing.T) {
		_, err := enc.Encode(record)
		gt.Error(t, err)
	})
}

func TestProtoFieldJSONName(t *testing.T) {
	cases := map[string]struct {
		input string
		want  string
	}{
		"keeps valid names": {
			input: "started_at",
			want:  "started_at",
		},
		"renames invalid names": {
			input: "ruby-advisory-db",
			want:  "col_cnVieS1hZHZpc29yeS1kYg",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			gt.V(t, bq.ProtoFieldJSONName(tc.input)).Equal(tc.want)
		})
	}
}

func TestSanitizeProtoJSON(t *testing.T) {
	raw := []byte(`{"labels":{"ruby-advisory-db":3,"nvd":2}}`)
	sanitized := gt.R1(bq.SanitizeProtoJSON(raw)).NoError(t)

	dec := json.NewDecoder(bytes.NewReader(sanitized))
	dec.UseNumber()
	payload := map[string]any{}
	gt.NoError(t, dec.Decode(&payload))

	labels, ok := payload["labels"].(map[string]any)
	gt.True(t, ok)

	_, ok = labels[bq.ProtoFieldJSONName("ruby-advisory-db")]
	gt.True(t, ok)
	_, ok = labels["ruby-advisory-db"]
	gt.False(t, ok)
	_, ok = labels["nvd"]
	gt.True(t, ok)
}
