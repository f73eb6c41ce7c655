package infra

import (
	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/infra/executor"
	"github.com/m-mizutani/brix/pkg/repository/memory"
)

type Clients struct {
	repository interfaces.IndexRepository
	executor   interfaces.Executor
	bqClient   interfaces.BigQuery
	logArchive interfaces.LogArchive
}

type Option func(*Clients)

func New(options ...Option) *Clients {
	client := &Clients{
		repository: memory.New(),
		executor:   executor.New(),
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

func (x *Clients) Repository() interfaces.IndexRepository {
	return x.repository
}
func (x *Clients) Executor() interfaces.Executor {
	return x.executor
}
func (x *Clients) BigQuery() interfaces.BigQuery {
	return x.bqClient
}
func (x *Clients) LogArchive() interfaces.LogArchive {
	return x.logArchive
}

func WithRepository(repo interfaces.IndexRepository) Option {
	return func(x *Clients) {
		x.repository = repo
	}
}

func WithExecutor(exec interfaces.Executor) Option {
	return func(x *Clients) {
		x.executor = exec
	}
}

func WithBigQuery(client interfaces.BigQuery) Option {
	return func(x *Clients) {
		x.bqClient = client
	}
}

func WithLogArchive(archive interfaces.LogArchive) Option {
	return func(x *Clients) {
		x.logArchive = archive
	}
}
