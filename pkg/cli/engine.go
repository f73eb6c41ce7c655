package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/brix/pkg/cli/config"
	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/infra"
	"github.com/m-mizutani/brix/pkg/infra/executor"
	"github.com/m-mizutani/brix/pkg/infra/gitlocal"
	"github.com/m-mizutani/brix/pkg/usecase"
	"github.com/m-mizutani/brix/pkg/utils/errutil"
	"github.com/m-mizutani/brix/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/urfave/cli/v3"
)

// engineConfig is the configuration shared by commands that run indexing
type engineConfig struct {
	project   config.Project
	github    config.GitHub
	firestore config.Firestore
	badger    config.Badger
	bigQuery  config.BigQuery
	gcs       config.GCS
	sentry    config.Sentry

	parallelism      int64
	buildConcurrency int64
	scanTimeout      time.Duration
}

func (x *engineConfig) Flags() []cli.Flag {
	return slice.Flatten([]cli.Flag{
		&cli.Int64Flag{
			Name:        "parallelism",
			Usage:       "Number of refs resolved concurrently in a scan",
			Value:       usecase.DefaultParallelism,
			Sources:     cli.EnvVars("BRIX_PARALLELISM"),
			Destination: &x.parallelism,
		},
		&cli.Int64Flag{
			Name:        "build-concurrency",
			Usage:       "Number of builds running concurrently",
			Value:       4,
			Sources:     cli.EnvVars("BRIX_BUILD_CONCURRENCY"),
			Destination: &x.buildConcurrency,
		},
		&cli.DurationFlag{
			Name:        "scan-timeout",
			Usage:       "Deadline of a scan. A scan over the deadline ends as ABORTED",
			Value:       usecase.DefaultScanTimeout,
			Sources:     cli.EnvVars("BRIX_SCAN_TIMEOUT"),
			Destination: &x.scanTimeout,
		},
	},
		x.project.Flags(),
		x.github.Flags(),
		x.firestore.Flags(),
		x.badger.Flags(),
		x.bigQuery.Flags(),
		x.gcs.Flags(),
		x.sentry.Flags(),
	)
}

func (x *engineConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("Parallelism", x.parallelism),
		slog.Int64("BuildConcurrency", x.buildConcurrency),
		slog.Duration("ScanTimeout", x.scanTimeout),
		slog.Any("Project", &x.project),
		slog.Any("GitHub", &x.github),
		slog.Any("Firestore", &x.firestore),
		slog.Any("Badger", &x.badger),
		slog.Any("BigQuery", &x.bigQuery),
		slog.Any("GCS", &x.gcs),
		slog.Any("Sentry", &x.sentry),
	)
}

type projectWithSource struct {
	project *model.Project
	source  interfaces.SCMSource
}

// loadProjects resolves configured projects to SCM sources
func (x *engineConfig) loadProjects(ctx context.Context) ([]projectWithSource, error) {
	sources, err := x.project.Sources()
	if err != nil {
		return nil, err
	}

	installed, err := x.github.InstallationProjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range installed {
		sources = append(sources, &config.ProjectSource{Project: p})
	}

	if len(sources) == 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "no project is configured. Set --project-file, --owner and --repo, --repo-dir or --github-app-all-repos")
	}

	var projects []projectWithSource
	for _, ps := range sources {
		p := ps.Project

		var src interfaces.SCMSource
		if ps.RepoDir != "" {
			local, err := gitlocal.Open(ps.RepoDir)
			if err != nil {
				return nil, err
			}
			if p.Owner == "" || p.Repo == "" {
				owner, repo, err := local.DetectGitHubRepository()
				if err != nil {
					return nil, goerr.Wrap(err, "owner and repo are not set and can not be detected", goerr.V("repo_dir", ps.RepoDir))
				}
				if p.Owner == "" {
					p.Owner = owner
				}
				if p.Repo == "" {
					p.Repo = repo
				}
			}
			src = local
		} else {
			remote, err := x.github.NewSource(ctx, p.Owner, p.Repo)
			if err != nil {
				return nil, err
			}
			src = remote
		}

		p.SetDefaults()
		if err := p.Validate(); err != nil {
			return nil, err
		}
		projects = append(projects, projectWithSource{project: p, source: src})
	}

	return projects, nil
}

func (x *engineConfig) newRepository(ctx context.Context) (interfaces.IndexRepository, func(), error) {
	switch {
	case x.firestore.Enabled():
		repo, err := x.firestore.NewRepository(ctx)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil

	case x.badger.Enabled():
		repo, err := x.badger.NewRepository()
		if err != nil {
			return nil, nil, err
		}
		gcCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			repo.RunGC(gcCtx, x.badger.GCInterval())
		}()

		return repo, func() {
			cancel()
			<-done
			if err := repo.Close(); err != nil {
				errutil.HandleError(ctx, "failed to close badger", err)
			}
		}, nil

	default:
		logging.From(ctx).Warn("Index state is kept in memory. Set --firestore-project-id or --badger-path to persist it")
		return nil, func() {}, nil
	}
}

// buildRunner runs a build by checking the marker file at the head with the project's own source
func buildRunner(projects []projectWithSource) executor.Runner {
	runners := make(map[types.ProjectName]executor.Runner, len(projects))
	for _, p := range projects {
		runners[p.project.Name] = executor.MarkerRunner(p.source, p.project.MarkerFile)
	}

	return func(ctx context.Context, job *model.ChildJob) types.Result {
		runner, ok := runners[job.Project]
		if !ok {
			return types.ResultNotBuilt
		}
		return runner(ctx, job)
	}
}

// newUseCase builds the engine. The returned function must be called to release resources.
func (x *engineConfig) newUseCase(ctx context.Context) (*usecase.UseCase, func(), error) {
	if err := x.sentry.Configure(ctx); err != nil {
		return nil, nil, err
	}

	projects, err := x.loadProjects(ctx)
	if err != nil {
		return nil, nil, err
	}

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	exec := executor.New(
		executor.WithRunner(buildRunner(projects)),
		executor.WithConcurrency(x.buildConcurrency),
	)
	closers = append(closers, exec.Wait)
	infraOptions := []infra.Option{
		infra.WithExecutor(exec),
	}

	repo, closeRepo, err := x.newRepository(ctx)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeRepo)
	if repo != nil {
		infraOptions = append(infraOptions, infra.WithRepository(repo))
	}

	bqClient, err := x.bigQuery.NewClient(ctx)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	if bqClient != nil {
		infraOptions = append(infraOptions, infra.WithBigQuery(bqClient))
		closers = append(closers, func() {
			if err := bqClient.Close(); err != nil {
				errutil.HandleError(ctx, "failed to close BigQuery client", err)
			}
		})
	}

	archive, err := x.gcs.NewArchive(ctx)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	if archive != nil {
		infraOptions = append(infraOptions, infra.WithLogArchive(archive))
		closers = append(closers, func() {
			if err := archive.Close(); err != nil {
				errutil.HandleError(ctx, "failed to close Cloud Storage client", err)
			}
		})
	}

	ucOptions := []usecase.Option{
		usecase.WithParallelism(int(x.parallelism)),
		usecase.WithScanTimeout(x.scanTimeout),
	}
	for _, p := range projects {
		ucOptions = append(ucOptions, usecase.WithProject(p.project, p.source))
	}

	return usecase.New(infra.New(infraOptions...), ucOptions...), closeAll, nil
}
