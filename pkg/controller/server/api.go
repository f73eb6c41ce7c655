package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/repository"
	"github.com/m-mizutani/brix/pkg/utils/errutil"
	"github.com/m-mizutani/brix/pkg/utils/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

type indexResponse struct {
	Status  string            `json:"status"`
	Project types.ProjectName `json:"project"`
}

type runResponse struct {
	*model.IndexingRun
	Log string `json:"log"`
}

type jobsResponse struct {
	Project types.ProjectName `json:"project"`
	Jobs    []*model.ChildJob `json:"jobs"`
}

// projectParam returns the project name in the path. A name with a slash must be escaped as %2F.
func projectParam(r *http.Request) types.ProjectName {
	v := chi.URLParam(r, "project")
	if unescaped, err := url.PathUnescape(v); err == nil {
		v = unescaped
	}
	return types.ProjectName(v)
}

func lookupProject(w http.ResponseWriter, r *http.Request, uc interfaces.UseCase) (types.ProjectName, bool) {
	project := projectParam(r)
	if !slices.Contains(uc.Projects(), project) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "project not found"})
		return "", false
	}
	return project, true
}

func handleIndexProject(uc interfaces.UseCase, queue *indexQueue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := lookupProject(w, r, uc)
		if !ok {
			return
		}

		if !queue.trigger(DetachContext(r.Context()), project) {
			logging.From(r.Context()).Info("Indexing is running, rescan queued", slog.Any("project", project))
		}

		writeJSON(w, http.StatusAccepted, indexResponse{Status: "accepted", Project: project})
	}
}

func handleGetLatestRun(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := lookupProject(w, r, uc)
		if !ok {
			return
		}

		run, err := uc.GetLatestRun(r.Context(), project)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) || errors.Is(err, types.ErrProjectNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "no indexing run found"})
				return
			}
			errutil.HandleError(r.Context(), "fail to get latest run", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "fail to get latest run"})
			return
		}

		writeJSON(w, http.StatusOK, runResponse{IndexingRun: run, Log: run.Log()})
	}
}

func handleListJobs(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := lookupProject(w, r, uc)
		if !ok {
			return
		}

		jobs, err := uc.ListJobs(r.Context(), project)
		if err != nil {
			errutil.HandleError(r.Context(), "fail to list jobs", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "fail to list jobs"})
			return
		}
		if jobs == nil {
			jobs = []*model.ChildJob{}
		}

		writeJSON(w, http.StatusOK, jobsResponse{Project: project, Jobs: jobs})
	}
}

// runIndexProject runs a scan of the project and logs its result
func runIndexProject(ctx context.Context, uc interfaces.UseCase, project types.ProjectName) {
	logger := logging.From(ctx).With(slog.Any("project", project))
	logger.Info("Starting indexing")

	run, err := uc.IndexProject(ctx, project)
	if err != nil {
		errutil.HandleError(ctx, "background indexing failed", err)
		return
	}

	logger.Info("Indexing completed", slog.Any("result", run.Result), slog.Any("run_id", run.ID))
}
