package model

import (
	"sort"
	"time"

	"github.com/m-mizutani/brix/pkg/domain/types"
)

// ProjectedBranch is the persisted record of a branch seen by a previous scan
type ProjectedBranch struct {
	ProjectName  types.JobName  `json:"project_name"`
	HeadRevision types.Revision `json:"head_revision"`
	Alive        bool           `json:"alive"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ProjectionDiff is the result of DiffProjections
type ProjectionDiff struct {
	Added     []*Candidate
	Updated   []*Candidate
	Unchanged []*Candidate
	Removed   []*ProjectedBranch
}

// DiffProjections compares the projections of the previous scan with the
// candidates of a complete enumeration. A dead projection that shows up again
// is treated as added.
func DiffProjections(previous []*ProjectedBranch, current []*Candidate) *ProjectionDiff {
	prev := make(map[types.JobName]*ProjectedBranch, len(previous))
	for _, p := range previous {
		prev[p.ProjectName] = p
	}

	diff := &ProjectionDiff{}
	seen := make(map[types.JobName]struct{}, len(current))
	for _, c := range current {
		seen[c.Name()] = struct{}{}

		p, ok := prev[c.Name()]
		switch {
		case !ok || !p.Alive:
			diff.Added = append(diff.Added, c)
		case p.HeadRevision != c.HeadRevision():
			diff.Updated = append(diff.Updated, c)
		default:
			diff.Unchanged = append(diff.Unchanged, c)
		}
	}

	for _, p := range previous {
		if !p.Alive {
			continue
		}
		if _, ok := seen[p.ProjectName]; !ok {
			diff.Removed = append(diff.Removed, p)
		}
	}

	sortCandidates(diff.Added)
	sortCandidates(diff.Updated)
	sortCandidates(diff.Unchanged)
	sort.Slice(diff.Removed, func(i, j int) bool {
		return diff.Removed[i].ProjectName < diff.Removed[j].ProjectName
	})

	return diff
}

// Protect drops the given names from Removed. It is used for refs that were
// skipped in the current scan and therefore must not be taken as deleted.
func (x *ProjectionDiff) Protect(names map[types.JobName]struct{}) {
	var kept []*ProjectedBranch
	for _, p := range x.Removed {
		if _, ok := names[p.ProjectName]; !ok {
			kept = append(kept, p)
		}
	}
	x.Removed = kept
}

// Empty returns true if nothing was added, updated or removed
func (x *ProjectionDiff) Empty() bool {
	return len(x.Added) == 0 && len(x.Updated) == 0 && len(x.Removed) == 0
}

func sortCandidates(v []*Candidate) {
	sort.Slice(v, func(i, j int) bool {
		return v[i].Name() < v[j].Name()
	})
}
