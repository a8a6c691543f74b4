/*
Package runner drives a navigator from a stream of commands.

It is the bridge between an orchestrator and the outside world: commands come in
through an IOHandler (interactive text or JSON Lines), pages are resolved through a
ports.PageSource, and every cycle report goes back out through the same handler.
An interrupt ends the loop after closing the orchestrator, so pending cleanups
always run.

# Commands

	go <namespace>     navigate (a bare namespace works too)
	status             print the orchestrator snapshot
	journal [n]        print the n most recent cycle reports
	help               list commands
	quit               close the orchestrator and stop

# Usage

	r := runner.NewRunner(
		runner.WithPages(pages.NewStatic(markup)),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx, orchestrator); err != nil {
		log.Fatal(err)
	}
*/
package runner
