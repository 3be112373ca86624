package flows

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Analysis evaluates a set of Components against one shared Input.
type Analysis struct {
	Input      *Input
	Components []*Component

	// Concurrency bounds how many components are evaluated at once. Values
	// below 2 evaluate them sequentially in declaration order.
	Concurrency int
}

// Run evaluates every component independently and returns their outputs in
// component order. Each component owns its own matrix, so no state is
// shared between evaluations. ctx is checked between components.
func (a *Analysis) Run(ctx context.Context) ([]*Output, error) {
	outputs := make([]*Output, len(a.Components))

	if a.Concurrency < 2 {
		for i, c := range a.Components {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outputs[i] = c.Evaluate(a.Input)
		}
		return outputs, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Concurrency)
	for i, c := range a.Components {
		i, c := i, c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outputs[i] = c.Evaluate(a.Input)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}
