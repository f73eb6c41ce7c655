package model

import (
	"time"

	"github.com/m-mizutani/brix/pkg/domain/types"
)

// ChildJob is the build job materialized for a live ProjectedBranch
type ChildJob struct {
	Project           types.ProjectName  `json:"project"`
	Name              types.JobName      `json:"name"`
	Kind              types.DecisionKind `json:"kind"`
	HeadRevision      types.Revision     `json:"head_revision"`
	LastBuiltRevision types.Revision     `json:"last_built_revision"`
	CloneURI          string             `json:"clone_uri,omitempty"`
	NextBuildNumber   int                `json:"next_build_number"`
	Builds            []BuildRecord      `json:"builds"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// NewChildJob creates a job for the candidate. The first build will be number 1.
func NewChildJob(project types.ProjectName, c *Candidate, now time.Time) *ChildJob {
	return &ChildJob{
		Project:         project,
		Name:            c.Name(),
		Kind:            c.Decision.Kind,
		HeadRevision:    c.HeadRevision(),
		NextBuildNumber: 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NeedsBuild returns true if the head has not been built yet
func (x *ChildJob) NeedsBuild() bool {
	return x.HeadRevision != "" && x.HeadRevision != x.LastBuiltRevision
}

// RecordBuild marks the head as built by the given build number
func (x *ChildJob) RecordBuild(number int, now time.Time) {
	x.Builds = append(x.Builds, BuildRecord{
		Number:      number,
		Revision:    x.HeadRevision,
		CloneURI:    x.CloneURI,
		ScheduledAt: now,
	})
	x.LastBuiltRevision = x.HeadRevision
	x.NextBuildNumber = number + 1
	x.UpdatedAt = now
}

// Copy returns a deep copy of the job
func (x *ChildJob) Copy() *ChildJob {
	if x == nil {
		return nil
	}
	job := *x
	job.Builds = append([]BuildRecord(nil), x.Builds...)
	return &job
}

type BuildRecord struct {
	Number      int            `json:"number"`
	Revision    types.Revision `json:"revision"`
	CloneURI    string         `json:"clone_uri,omitempty"`
	ScheduledAt time.Time      `json:"scheduled_at"`
}

// BuildResult is the terminal state of a build reported by an executor
type BuildResult struct {
	Project   types.ProjectName `json:"project"`
	Job       types.JobName     `json:"job"`
	Number    int               `json:"number"`
	Revision  types.Revision    `json:"revision"`
	CloneURI  string            `json:"clone_uri,omitempty"`
	Result    types.Result      `json:"result"`
	StartedAt time.Time         `json:"started_at"`
	EndedAt   time.Time         `json:"ended_at"`
}
