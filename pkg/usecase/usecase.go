package usecase

import (
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/brix/pkg/domain/discovery"
	"github.com/m-mizutani/brix/pkg/domain/interfaces"
	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/m-mizutani/brix/pkg/infra"
)

const (
	DefaultParallelism = 4
	DefaultScanTimeout = 10 * time.Minute
)

// projectEntry is a configured project with its SCM source. mu serializes scans of the project.
type projectEntry struct {
	project *model.Project
	source  interfaces.SCMSource
	chain   discovery.Chain
	mu      sync.Mutex
}

type UseCase struct {
	clients     *infra.Clients
	projects    map[types.ProjectName]*projectEntry
	parallelism int
	scanTimeout time.Duration
}

var _ interfaces.UseCase = (*UseCase)(nil)

type Option func(*UseCase)

// WithProject registers a project indexed against the source
func WithProject(project *model.Project, source interfaces.SCMSource) Option {
	return func(x *UseCase) {
		p := *project
		p.SetDefaults()
		x.projects[p.Name] = &projectEntry{
			project: &p,
			source:  source,
			chain:   discovery.New(p.Traits),
		}
	}
}

// WithParallelism sets the number of refs resolved concurrently in a scan
func WithParallelism(n int) Option {
	return func(x *UseCase) {
		if n > 0 {
			x.parallelism = n
		}
	}
}

// WithScanTimeout sets the deadline of a scan. A scan over the deadline ends as ABORTED.
func WithScanTimeout(d time.Duration) Option {
	return func(x *UseCase) {
		if d > 0 {
			x.scanTimeout = d
		}
	}
}

func New(clients *infra.Clients, options ...Option) *UseCase {
	uc := &UseCase{
		clients:     clients,
		projects:    make(map[types.ProjectName]*projectEntry),
		parallelism: DefaultParallelism,
		scanTimeout: DefaultScanTimeout,
	}

	for _, opt := range options {
		opt(uc)
	}

	return uc
}

// Projects returns names of configured projects in name order
func (x *UseCase) Projects() []types.ProjectName {
	names := make([]types.ProjectName, 0, len(x.projects))
	for name := range x.projects {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
