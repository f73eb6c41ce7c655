package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/infra/metrics"
	"github.com/m-mizutani/brix/pkg/utils/logging"
)

type Server struct {
	mux   *chi.Mux
	queue *indexQueue
}

func safeWrite(w http.ResponseWriter, code int, body []byte) {
	w.WriteHeader(code)

	// nosemgrep: go.lang.security.audit.xss.no-direct-write-to-responsewriter.no-direct-write-to-responsewriter
	// Why: The response data is not from user input
	if _, err := w.Write(body); err != nil {
		logging.Default().Error("fail to write response", slog.Any("error", err))
	}
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		logging.Default().Error("fail to marshal response", slog.Any("error", err))
		safeWrite(w, http.StatusInternalServerError, []byte(`{"error":"internal error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	safeWrite(w, code, body)
}

type config struct {
	webhookSecret types.GitHubWebhookSecret
}

type Option func(*config)

// WithWebhookSecret sets the secret to verify signatures of GitHub webhook requests
func WithWebhookSecret(secret types.GitHubWebhookSecret) Option {
	return func(cfg *config) {
		cfg.webhookSecret = secret
	}
}

func New(uc interfaces.UseCase, options ...Option) *Server {
	cfg := &config{}
	for _, opt := range options {
		opt(cfg)
	}

	queue := newIndexQueue(uc)

	r := chi.NewRouter()
	r.Use(preProcess)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		safeWrite(w, http.StatusOK, []byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1/projects/{project}", func(r chi.Router) {
		r.Post("/index", handleIndexProject(uc, queue))
		r.Get("/runs/latest", handleGetLatestRun(uc))
		r.Get("/jobs", handleListJobs(uc))
	})

	r.Route("/webhook", func(r chi.Router) {
		r.Post("/github", handleGitHubWebhook(uc, queue, cfg.webhookSecret))
	})

	return &Server{
		mux:   r,
		queue: queue,
	}
}

func (x *Server) Mux() *chi.Mux {
	return x.mux
}

// Wait blocks until scans started by requests finish. Call it after the HTTP server is shut down.
func (x *Server) Wait() {
	x.queue.wait()
}
