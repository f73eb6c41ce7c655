package memory

import "github.com/m-mizutani/brix/pkg/domain/interfaces"

// New creates a new in-memory repository
func New() interfaces.IndexRepository {
	return &indexRepository{
		projects: make(map[string]*projectData),
	}
}
