package identify

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/smush/internal/adapters/shell"
	"go.trai.ch/smush/internal/core/ports"
)

// NodeID is the unique identifier for the format detector Graft node.
const NodeID graft.ID = "adapter.detector"

func init() {
	graft.Register(graft.Node[ports.FormatDetector]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.FormatDetector, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewDetector(executor), nil
		},
	})
}
