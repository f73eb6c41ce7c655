package model

import "time"

// RunRecord is a row of the indexing run table in BigQuery
type RunRecord struct {
	ID        string         `bigquery:"id" json:"id"`
	Project   string         `bigquery:"project" json:"project"`
	Result    string         `bigquery:"result" json:"result"`
	Log       string         `bigquery:"log" json:"log"`
	Jobs      []RunRecordJob `bigquery:"jobs" json:"jobs,omitempty"`
	StartedAt time.Time      `bigquery:"started_at" json:"started_at"`
	EndedAt   time.Time      `bigquery:"ended_at" json:"ended_at"`
}

type RunRecordJob struct {
	Name              string `bigquery:"name" json:"name"`
	Kind              string `bigquery:"kind" json:"kind"`
	HeadRevision      string `bigquery:"head_revision" json:"head_revision"`
	LastBuiltRevision string `bigquery:"last_built_revision" json:"last_built_revision"`
	NextBuildNumber   int64  `bigquery:"next_build_number" json:"next_build_number"`
}

// RunRawRecord is the form of RunRecord sent to the Storage Write API, which expects TIMESTAMP as microseconds
type RunRawRecord struct {
	RunRecord
	StartedAt int64 `bigquery:"started_at" json:"started_at"`
	EndedAt   int64 `bigquery:"ended_at" json:"ended_at"`
}

func NewRunRecord(run *IndexingRun, jobs []*ChildJob) *RunRecord {
	record := &RunRecord{
		ID:        run.ID.String(),
		Project:   run.Project.String(),
		Result:    run.Result.String(),
		Log:       run.Log(),
		StartedAt: run.StartedAt,
		EndedAt:   run.EndedAt,
	}

	for _, job := range jobs {
		record.Jobs = append(record.Jobs, RunRecordJob{
			Name:              job.Name.String(),
			Kind:              string(job.Kind),
			HeadRevision:      job.HeadRevision.String(),
			LastBuiltRevision: job.LastBuiltRevision.String(),
			NextBuildNumber:   int64(job.NextBuildNumber),
		})
	}

	return record
}

func (x *RunRecord) Raw() *RunRawRecord {
	return &RunRawRecord{
		RunRecord: *x,
		StartedAt: x.StartedAt.UnixMicro(),
		EndedAt:   x.EndedAt.UnixMicro(),
	}
}
