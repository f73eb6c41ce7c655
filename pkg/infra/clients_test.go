package infra_test

import (
	"testing"

	"github.com/m-mizutani/brix/pkg/domain/mock"
	"github.com/m-mizutani/brix/pkg/infra"
	"github.com/m-mizutani/brix/pkg/infra/executor"
	"github.com/m-mizutani/brix/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func TestNew(t *testing.T) {
	t.Run("create new clients without options", func(t *testing.T) {
		clients := infra.New()
		// In-memory repository and in-process executor are used by default
		gt.V(t, clients.Repository()).NotEqual(nil)
		gt.V(t, clients.Executor()).NotEqual(nil)
		// Exporters should be nil without configuration
		gt.V(t, clients.BigQuery()).Equal(nil)
		gt.V(t, clients.LogArchive()).Equal(nil)
	})

	t.Run("WithRepository option sets repository", func(t *testing.T) {
		repo := memory.New()
		clients := infra.New(infra.WithRepository(repo))
		gt.V(t, clients.Repository()).Equal(repo)
	})

	t.Run("WithExecutor option sets executor", func(t *testing.T) {
		exec := executor.New(executor.WithConcurrency(1))
		clients := infra.New(infra.WithExecutor(exec))
		gt.V(t, clients.Executor()).Equal(exec)
	})

	t.Run("multiple options can be combined", func(t *testing.T) {
		mockBQ := &mock.BigQueryMock{}
		mockArchive := &mock.LogArchiveMock{}

		clients := infra.New(
			infra.WithBigQuery(mockBQ),
			infra.WithLogArchive(mockArchive),
		)

		gt.V(t, clients.BigQuery()).Equal(mockBQ)
		gt.V(t, clients.LogArchive()).Equal(mockArchive)
	})
}
