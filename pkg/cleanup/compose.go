package cleanup

import (
	"context"
	"errors"

	"github.com/aretw0/threshold/pkg/domain"
)

// Feature is a single setup step of a page module.
type Feature func(ctx context.Context, nav domain.NavigationContext) (domain.Cleanup, error)

// Compose merges features into one SetupHook whose cleanup disposes every
// feature in registration order. Features run sequentially. A failing feature
// stops the composition; cleanups gathered so far are still returned with the error.
func Compose(features ...Feature) domain.SetupHook {
	return func(ctx context.Context, nav domain.NavigationContext) (domain.Cleanup, error) {
		var disposers []domain.Teardown
		for _, feature := range features {
			result, err := feature(ctx, nav)
			if teardown, ok := Normalize(result); ok && teardown != nil {
				disposers = append(disposers, teardown)
			}
			if err != nil {
				return merge(disposers), err
			}
		}
		return merge(disposers), nil
	}
}

func merge(disposers []domain.Teardown) domain.Cleanup {
	if len(disposers) == 0 {
		return nil
	}
	return domain.Teardown(func() error {
		var errs []error
		for _, dispose := range disposers {
			if err := run(dispose); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
