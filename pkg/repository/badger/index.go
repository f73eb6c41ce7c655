package badger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

const (
	kindProjection = "projection"
	kindJob        = "job"
	kindRun        = "run"
	kindLatest     = "latest"
)

// Keys are <kind> NUL <project> NUL <name>. Neither project nor ref names can contain NUL.
func key(kind string, project types.ProjectName, name string) []byte {
	return []byte(kind + "\x00" + string(project) + "\x00" + name)
}

func prefix(kind string, project types.ProjectName) []byte {
	return []byte(kind + "\x00" + string(project) + "\x00")
}

func getJSON(txn *badger.Txn, k []byte, v any) error {
	item, err := txn.Get(k)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, k []byte, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal value")
	}
	return txn.Set(k, raw)
}

func scanJSON[T any](txn *badger.Txn, p []byte) ([]*T, error) {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	var out []*T
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		var v T
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		}); err != nil {
			return nil, goerr.Wrap(err, "failed to decode value", goerr.V("key", string(bytes.Clone(it.Item().Key()))))
		}
		out = append(out, &v)
	}
	return out, nil
}

// Projection operations

func (x *Repository) ListProjections(ctx context.Context, project types.ProjectName) ([]*model.ProjectedBranch, error) {
	var projections []*model.ProjectedBranch
	if err := x.db.View(func(txn *badger.Txn) error {
		var err error
		projections, err = scanJSON[model.ProjectedBranch](txn, prefix(kindProjection, project))
		return err
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to list projections", goerr.V("project", project))
	}

	return projections, nil
}

func (x *Repository) PutProjections(ctx context.Context, project types.ProjectName, projections []*model.ProjectedBranch) error {
	for _, p := range projections {
		if p.ProjectName == "" {
			return goerr.Wrap(repository.ErrInvalidInput, "projection name is empty",
				goerr.V("project", project),
			)
		}
	}

	if err := x.db.Update(func(txn *badger.Txn) error {
		for _, p := range projections {
			if err := setJSON(txn, key(kindProjection, project, string(p.ProjectName)), p); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return goerr.Wrap(err, "failed to put projections", goerr.V("project", project))
	}

	return nil
}

// Job operations

func (x *Repository) GetJob(ctx context.Context, project types.ProjectName, name types.JobName) (*model.ChildJob, error) {
	var job model.ChildJob
	err := x.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, key(kindJob, project, string(name)), &job)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, goerr.Wrap(repository.ErrNotFound, "job not found",
			goerr.V("project", project),
			goerr.V("job", name),
		)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get job",
			goerr.V("project", project),
			goerr.V("job", name),
		)
	}

	return &job, nil
}

func (x *Repository) ListJobs(ctx context.Context, project types.ProjectName) ([]*model.ChildJob, error) {
	var jobs []*model.ChildJob
	if err := x.db.View(func(txn *badger.Txn) error {
		var err error
		jobs, err = scanJSON[model.ChildJob](txn, prefix(kindJob, project))
		return err
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to list jobs", goerr.V("project", project))
	}

	return jobs, nil
}

func (x *Repository) PutJob(ctx context.Context, job *model.ChildJob) error {
	if job.Project == "" || job.Name == "" {
		return goerr.Wrap(repository.ErrInvalidInput, "project or job name is empty",
			goerr.V("project", job.Project),
			goerr.V("job", job.Name),
		)
	}

	if err := x.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, key(kindJob, job.Project, string(job.Name)), job)
	}); err != nil {
		return goerr.Wrap(err, "failed to put job",
			goerr.V("project", job.Project),
			goerr.V("job", job.Name),
		)
	}

	return nil
}

func (x *Repository) DeleteJob(ctx context.Context, project types.ProjectName, name types.JobName) error {
	k := key(kindJob, project, string(name))
	err := x.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(k); err != nil {
			return err
		}
		return txn.Delete(k)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return goerr.Wrap(repository.ErrNotFound, "job not found",
			goerr.V("project", project),
			goerr.V("job", name),
		)
	}
	if err != nil {
		return goerr.Wrap(err, "failed to delete job",
			goerr.V("project", project),
			goerr.V("job", name),
		)
	}

	return nil
}

// Run operations

func (x *Repository) PutRun(ctx context.Context, run *model.IndexingRun) error {
	if run.Project == "" || run.ID == "" {
		return goerr.Wrap(repository.ErrInvalidInput, "project or run ID is empty",
			goerr.V("project", run.Project),
			goerr.V("runID", run.ID),
		)
	}

	if err := x.db.Update(func(txn *badger.Txn) error {
		if err := setJSON(txn, key(kindRun, run.Project, run.ID.String()), run); err != nil {
			return err
		}

		latestKey := key(kindLatest, run.Project, "")
		var latestID types.RunID
		switch err := getJSON(txn, latestKey, &latestID); {
		case errors.Is(err, badger.ErrKeyNotFound):
			return setJSON(txn, latestKey, run.ID)
		case err != nil:
			return err
		}

		var latest model.IndexingRun
		if err := getJSON(txn, key(kindRun, run.Project, latestID.String()), &latest); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if !run.StartedAt.Before(latest.StartedAt) {
			return setJSON(txn, latestKey, run.ID)
		}
		return nil
	}); err != nil {
		return goerr.Wrap(err, "failed to put run",
			goerr.V("project", run.Project),
			goerr.V("runID", run.ID),
		)
	}

	return nil
}

func (x *Repository) GetRun(ctx context.Context, project types.ProjectName, id types.RunID) (*model.IndexingRun, error) {
	var run model.IndexingRun
	err := x.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, key(kindRun, project, id.String()), &run)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, goerr.Wrap(repository.ErrNotFound, "run not found",
			goerr.V("project", project),
			goerr.V("runID", id),
		)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get run",
			goerr.V("project", project),
			goerr.V("runID", id),
		)
	}

	return &run, nil
}

func (x *Repository) GetLatestRun(ctx context.Context, project types.ProjectName) (*model.IndexingRun, error) {
	var run model.IndexingRun
	err := x.db.View(func(txn *badger.Txn) error {
		var id types.RunID
		if err := getJSON(txn, key(kindLatest, project, ""), &id); err != nil {
			return err
		}
		return getJSON(txn, key(kindRun, project, id.String()), &run)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, goerr.Wrap(repository.ErrNotFound, "no run found",
			goerr.V("project", project),
		)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get latest run", goerr.V("project", project))
	}

	return &run, nil
}
