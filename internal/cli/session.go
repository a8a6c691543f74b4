package cli

import (
	"context"

	"github.com/aretw0/threshold/internal/presentation/tui"
	"github.com/aretw0/threshold/pkg/runner"
)

// RunSession runs one interactive session over a single orchestrator. The
// orchestrator is closed, draining its cleanups, when the session ends.
func RunSession(ctx context.Context, stack *Stack, opts RunOptions) error {
	opts.defaults()
	quiet := opts.JSON || opts.Headless
	if !quiet {
		tui.PrintBanner(opts.Stdout)
		printSystemMessage(opts.Stdout, "Site '%s' with %d modules; pages: %v",
			stack.Site.Name, stack.Registry.Len(), stack.Site.Namespaces())
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	r := runner.NewRunner(runnerOptions(stack, opts, nil)...)
	err := r.Run(sigCtx, stack.NewOrchestrator())

	logCompletion(opts.Stdout, stack.Logger, err, sigCtx.Signal(), quiet)
	return handleExecutionError(err)
}
