package ports

import (
	"context"

	"resframe/domain/core"
	"resframe/domain/run"
)

// RunRepository persists aggregation run records.
type RunRepository interface {
	Save(ctx context.Context, r *run.Run) error
	GetByID(ctx context.Context, id core.RunID) (*run.Run, error)
	List(ctx context.Context, limit, offset int) ([]*run.Run, error)
}

// RunExporter writes a run record to an external document.
type RunExporter interface {
	Export(r *run.Run, path string) error
}
