package firestore

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionProject    = "project"
	collectionProjection = "projection"
	collectionJob        = "job"
	collectionRun        = "run"
	batchSize            = 500
)

type indexRepository struct {
	client *firestore.Client
}

// ToDocID converts a project or job name to a Firestore-safe document ID.
// Replaces "/" with ":" since Git ref names and "owner/repo" cannot contain ":",
// so the replacement is reversible. The name stored in the document is unchanged.
func ToDocID(name string) (string, error) {
	if name == "" {
		return "", goerr.Wrap(repository.ErrInvalidInput, "name is empty")
	}
	if strings.Contains(name, ":") {
		return "", goerr.Wrap(repository.ErrInvalidInput, "name contains invalid character ':'",
			goerr.V("name", name),
		)
	}
	return strings.ReplaceAll(name, "/", ":"), nil
}

func (r *indexRepository) projectDoc(project types.ProjectName) (*firestore.DocumentRef, error) {
	id, err := ToDocID(string(project))
	if err != nil {
		return nil, err
	}
	return r.client.Collection(collectionProject).Doc(id), nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// Projection operations

func (r *indexRepository) ListProjections(ctx context.Context, project types.ProjectName) ([]*model.ProjectedBranch, error) {
	projectRef, err := r.projectDoc(project)
	if err != nil {
		return nil, err
	}

	iter := projectRef.Collection(collectionProjection).Documents(ctx)
	defer iter.Stop()

	var projections []*model.ProjectedBranch
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate projections",
				goerr.V("project", project),
			)
		}

		var p model.ProjectedBranch
		if err := snap.DataTo(&p); err != nil {
			return nil, goerr.Wrap(err, "failed to decode projection")
		}
		projections = append(projections, &p)
	}

	return projections, nil
}

func (r *indexRepository) PutProjections(ctx context.Context, project types.ProjectName, projections []*model.ProjectedBranch) error {
	projectRef, err := r.projectDoc(project)
	if err != nil {
		return err
	}

	docIDs := make([]string, len(projections))
	for i, p := range projections {
		id, err := ToDocID(string(p.ProjectName))
		if err != nil {
			return goerr.Wrap(err, "invalid projection name", goerr.V("project", project))
		}
		docIDs[i] = id
	}

	collection := projectRef.Collection(collectionProjection)
	for i := 0; i < len(projections); i += batchSize {
		end := i + batchSize
		if end > len(projections) {
			end = len(projections)
		}

		batch := r.client.Batch()
		for j := i; j < end; j++ {
			batch.Set(collection.Doc(docIDs[j]), projections[j])
		}

		if _, err := batch.Commit(ctx); err != nil {
			return goerr.Wrap(err, "failed to batch put projections",
				goerr.V("project", project),
				goerr.V("batchStart", i),
				goerr.V("batchEnd", end),
			)
		}
	}

	return nil
}

// Job operations

func (r *indexRepository) jobDoc(project types.ProjectName, name types.JobName) (*firestore.DocumentRef, error) {
	projectRef, err := r.projectDoc(project)
	if err != nil {
		return nil, err
	}
	id, err := ToDocID(string(name))
	if err != nil {
		return nil, err
	}
	return projectRef.Collection(collectionJob).Doc(id), nil
}

func (r *indexRepository) GetJob(ctx context.Context, project types.ProjectName, name types.JobName) (*model.ChildJob, error) {
	docRef, err := r.jobDoc(project, name)
	if err != nil {
		return nil, err
	}

	snap, err := docRef.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(repository.ErrNotFound, "job not found",
				goerr.V("project", project),
				goerr.V("job", name),
			)
		}
		return nil, goerr.Wrap(err, "failed to get job",
			goerr.V("project", project),
			goerr.V("job", name),
		)
	}

	var job model.ChildJob
	if err := snap.DataTo(&job); err != nil {
		return nil, goerr.Wrap(err, "failed to decode job",
			goerr.V("project", project),
			goerr.V("job", name),
		)
	}

	return &job, nil
}

func (r *indexRepository) ListJobs(ctx context.Context, project types.ProjectName) ([]*model.ChildJob, error) {
	projectRef, err := r.projectDoc(project)
	if err != nil {
		return nil, err
	}

	iter := projectRef.Collection(collectionJob).Documents(ctx)
	defer iter.Stop()

	var jobs []*model.ChildJob
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate jobs",
				goerr.V("project", project),
			)
		}

		var job model.ChildJob
		if err := snap.DataTo(&job); err != nil {
			return nil, goerr.Wrap(err, "failed to decode job")
		}
		jobs = append(jobs, &job)
	}

	return jobs, nil
}

func (r *indexRepository) PutJob(ctx context.Context, job *model.ChildJob) error {
	if job.Project == "" || job.Name == "" {
		return goerr.Wrap(repository.ErrInvalidInput, "project or job name is empty",
			goerr.V("project", job.Project),
			goerr.V("job", job.Name),
		)
	}

	docRef, err := r.jobDoc(job.Project, job.Name)
	if err != nil {
		return err
	}

	if _, err := docRef.Set(ctx, job); err != nil {
		return goerr.Wrap(err, "failed to put job",
			goerr.V("project", job.Project),
			goerr.V("job", job.Name),
		)
	}

	return nil
}

func (r *indexRepository) DeleteJob(ctx context.Context, project types.ProjectName, name types.JobName) error {
	docRef, err := r.jobDoc(project, name)
	if err != nil {
		return err
	}

	// Delete of a missing document succeeds in Firestore, so the precondition is required
	if _, err := docRef.Delete(ctx, firestore.Exists); err != nil {
		if isNotFound(err) {
			return goerr.Wrap(repository.ErrNotFound, "job not found",
				goerr.V("project", project),
				goerr.V("job", name),
			)
		}
		return goerr.Wrap(err, "failed to delete job",
			goerr.V("project", project),
			goerr.V("job", name),
		)
	}

	return nil
}

// Run operations

func (r *indexRepository) PutRun(ctx context.Context, run *model.IndexingRun) error {
	if run.Project == "" || run.ID == "" {
		return goerr.Wrap(repository.ErrInvalidInput, "project or run ID is empty",
			goerr.V("project", run.Project),
			goerr.V("runID", run.ID),
		)
	}

	projectRef, err := r.projectDoc(run.Project)
	if err != nil {
		return err
	}

	if _, err := projectRef.Collection(collectionRun).Doc(run.ID.String()).Set(ctx, run); err != nil {
		return goerr.Wrap(err, "failed to put run",
			goerr.V("project", run.Project),
			goerr.V("runID", run.ID),
		)
	}

	return nil
}

func (r *indexRepository) GetRun(ctx context.Context, project types.ProjectName, id types.RunID) (*model.IndexingRun, error) {
	projectRef, err := r.projectDoc(project)
	if err != nil {
		return nil, err
	}

	snap, err := projectRef.Collection(collectionRun).Doc(id.String()).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(repository.ErrNotFound, "run not found",
				goerr.V("project", project),
				goerr.V("runID", id),
			)
		}
		return nil, goerr.Wrap(err, "failed to get run",
			goerr.V("project", project),
			goerr.V("runID", id),
		)
	}

	var run model.IndexingRun
	if err := snap.DataTo(&run); err != nil {
		return nil, goerr.Wrap(err, "failed to decode run")
	}

	return &run, nil
}

func (r *indexRepository) GetLatestRun(ctx context.Context, project types.ProjectName) (*model.IndexingRun, error) {
	projectRef, err := r.projectDoc(project)
	if err != nil {
		return nil, err
	}

	iter := projectRef.Collection(collectionRun).OrderBy("StartedAt", firestore.Desc).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(repository.ErrNotFound, "no run found",
			goerr.V("project", project),
		)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query latest run",
			goerr.V("project", project),
		)
	}

	var run model.IndexingRun
	if err := snap.DataTo(&run); err != nil {
		return nil, goerr.Wrap(err, "failed to decode run")
	}

	return &run, nil
}
