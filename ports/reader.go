package ports

import (
	"context"

	"resframe/domain/frame"
	"resframe/domain/network"
)

// ResultReader materializes one result set: a time-indexed frame with a
// full hierarchical column index, plus the network its series attach to.
// Readers own the source format; nothing downstream touches it.
type ResultReader interface {
	Read(ctx context.Context) (*frame.Frame, *network.Network, error)
	// Source identifies what was read, for run records and logs.
	Source() string
}
