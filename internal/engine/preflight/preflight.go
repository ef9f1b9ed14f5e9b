// Package preflight verifies that the external programs of a run can be found.
package preflight

import (
	"context"
	"runtime"
	"slices"
	"strings"

	"go.trai.ch/smush/internal/core/domain"
	"go.trai.ch/smush/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Tool is the lookup result for one program.
type Tool struct {
	Name string
	// Path is empty when the program was not found.
	Path string
}

// Found reports whether the program was resolved.
func (t Tool) Found() bool {
	return t.Path != ""
}

// Check resolves every program through the executor. Lookups run
// concurrently; results keep the order of programs. The error wraps
// domain.ErrToolsMissing and names every missing program.
func Check(ctx context.Context, executor ports.Executor, programs []string) ([]Tool, error) {
	tools := make([]Tool, len(programs))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, name := range programs {
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			tools[i].Name = name
			if path, err := executor.LookPath(name); err == nil {
				tools[i].Path = path
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var missing []string
	for _, tool := range tools {
		if !tool.Found() {
			missing = append(missing, tool.Name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		err := zerr.Wrap(domain.ErrToolsMissing, "required programs not found")
		return tools, zerr.With(err, "missing", strings.Join(missing, ", "))
	}
	return tools, nil
}
