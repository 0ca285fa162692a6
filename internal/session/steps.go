package session

import "context"

// step is one stage of a sequential flow.
type step func(ctx context.Context) error

// runSteps runs steps in order and stops at the first error, including
// context cancellation between steps.
func runSteps(ctx context.Context, steps ...step) error {
	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := st(ctx); err != nil {
			return err
		}
	}
	return nil
}
