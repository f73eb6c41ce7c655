package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/brix/pkg/domain/types"
)

// IndexingRun is the record of one scan. It is append-only while running and
// immutable once Finish is called.
type IndexingRun struct {
	ID        types.RunID       `json:"id"`
	Project   types.ProjectName `json:"project"`
	Result    types.Result      `json:"result"`
	State     types.RunState    `json:"state"`
	Lines     []string          `json:"lines"`
	StartedAt time.Time         `json:"started_at"`
	EndedAt   time.Time         `json:"ended_at"`
}

func NewIndexingRun(project types.ProjectName, now time.Time) *IndexingRun {
	return &IndexingRun{
		ID:        types.NewRunID(),
		Project:   project,
		State:     types.StateEnumerating,
		StartedAt: now,
	}
}

// Terminal returns true once the run is finished
func (x *IndexingRun) Terminal() bool {
	return x.State == types.StateTerminal
}

// Appendf adds a line to the log. It returns false if the run is already terminal.
func (x *IndexingRun) Appendf(format string, args ...any) bool {
	if x.Terminal() {
		return false
	}
	x.Lines = append(x.Lines, fmt.Sprintf(format, args...))
	return true
}

// Transition moves the run to the next state and logs it
func (x *IndexingRun) Transition(state types.RunState) bool {
	if x.Terminal() || state == types.StateTerminal {
		return false
	}
	x.State = state
	x.Lines = append(x.Lines, "> "+string(state))
	return true
}

// Finish sets the terminal result. Only the first call has effect.
func (x *IndexingRun) Finish(result types.Result, now time.Time) bool {
	if x.Terminal() {
		return false
	}
	x.Result = result
	x.State = types.StateTerminal
	x.EndedAt = now
	x.Lines = append(x.Lines, "Finished: "+string(result))
	return true
}

// Log returns the whole log text
func (x *IndexingRun) Log() string {
	return strings.Join(x.Lines, "\n")
}

// Copy returns a deep copy of the run
func (x *IndexingRun) Copy() *IndexingRun {
	if x == nil {
		return nil
	}
	run := *x
	run.Lines = append([]string(nil), x.Lines...)
	return &run
}
