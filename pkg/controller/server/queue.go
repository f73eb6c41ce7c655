package server

import (
	"context"
	"sync"

	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/domain/types"
)

type triggerState int

const (
	triggerRunning triggerState = iota + 1
	triggerPending
)

// indexQueue runs at most one background scan per project. Triggers that arrive
// while a scan is running are collapsed into one rescan after it.
type indexQueue struct {
	uc    interfaces.UseCase
	mu    sync.Mutex
	state map[types.ProjectName]triggerState
	wg    sync.WaitGroup
}

func newIndexQueue(uc interfaces.UseCase) *indexQueue {
	return &indexQueue{
		uc:    uc,
		state: make(map[types.ProjectName]triggerState),
	}
}

// trigger returns false if the trigger was merged into a pending rescan
func (x *indexQueue) trigger(ctx context.Context, project types.ProjectName) bool {
	x.mu.Lock()
	if _, ok := x.state[project]; ok {
		x.state[project] = triggerPending
		x.mu.Unlock()
		return false
	}
	x.state[project] = triggerRunning
	x.wg.Add(1)
	x.mu.Unlock()

	go func() {
		defer x.wg.Done()
		for {
			runIndexProject(ctx, x.uc, project)

			x.mu.Lock()
			if x.state[project] == triggerPending {
				x.state[project] = triggerRunning
				x.mu.Unlock()
				continue
			}
			delete(x.state, project)
			x.mu.Unlock()
			return
		}
	}()

	return true
}

func (x *indexQueue) wait() {
	x.wg.Wait()
}
