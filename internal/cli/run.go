package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/threshold/internal/presentation/tui"
	"github.com/aretw0/threshold/pkg/runner"
)

// RunOptions contains the configuration of the run command.
type RunOptions struct {
	Dir      string
	SiteFile string
	// Sequence, when set, is navigated in order instead of reading commands.
	Sequence []string
	Headless bool
	JSON     bool
	Watch    bool
	Debug    bool
	LogLevel string
	Origin   string

	Stdin  io.Reader
	Stdout io.Writer
}

func (o *RunOptions) defaults() {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
}

// Execute handles the run command, dispatching to play, session or watch mode.
func Execute(ctx context.Context, opts RunOptions) error {
	opts.defaults()
	if opts.Watch {
		if opts.Headless || opts.JSON {
			return errors.New("--watch cannot be combined with --headless or --json")
		}
		if len(opts.Sequence) > 0 {
			return errors.New("--watch cannot be combined with a navigation sequence")
		}
		return RunWatch(ctx, opts)
	}

	logger, err := CreateLogger(opts.LogLevel, opts.Debug, opts.JSON)
	if err != nil {
		return err
	}
	site, _, err := LoadSite(opts.Dir, opts.SiteFile)
	if err != nil {
		return err
	}
	stack, err := NewStack(site, StackOptions{Logger: logger, Debug: opts.Debug, Origin: opts.Origin})
	if err != nil {
		return err
	}
	defer func() {
		if err := stack.Close(); err != nil {
			logger.Warn("failed to close journal", "err", err)
		}
	}()

	if len(opts.Sequence) > 0 {
		return RunPlay(ctx, stack, opts)
	}
	return RunSession(ctx, stack, opts)
}

// RunPlay navigates through opts.Sequence, closes the orchestrator and prints a summary.
func RunPlay(ctx context.Context, stack *Stack, opts RunOptions) error {
	opts.defaults()
	r := runner.NewRunner(runnerOptions(stack, opts, nil)...)
	nav := stack.NewOrchestrator()

	reports, playErr := r.Play(ctx, nav, opts.Sequence)
	if err := r.Close(context.WithoutCancel(ctx), nav); err != nil {
		return errors.Join(playErr, err)
	}
	if playErr != nil {
		return playErr
	}

	if !opts.JSON {
		summary := make([]string, 0, len(reports))
		for _, rep := range reports {
			summary = append(summary, rep.To)
		}
		printSystemMessage(opts.Stdout, "visited %v", summary)
		if stack.Journal != nil {
			recent, err := stack.Journal.List(ctx, len(reports)+1)
			if err != nil {
				return fmt.Errorf("failed to read journal: %w", err)
			}
			fmt.Fprint(opts.Stdout, tui.Summary(recent))
		}
	}
	return nil
}

// runnerOptions picks the IO handler for the mode. A shared handler is reused as-is.
func runnerOptions(stack *Stack, opts RunOptions, shared runner.IOHandler) []runner.Option {
	handler := shared
	if handler == nil {
		switch {
		case opts.JSON:
			handler = runner.NewJSONHandler(opts.Stdin, opts.Stdout)
		case opts.Headless:
			handler = runner.NewTextHandler(opts.Stdin, opts.Stdout, runner.WithPrompt(""))
		default:
			handler = runner.NewTextHandler(opts.Stdin, opts.Stdout,
				runner.WithTextHandlerRenderer(tui.NewReportRenderer()))
		}
	}
	return []runner.Option{
		runner.WithLogger(stack.Logger),
		runner.WithPages(stack.Pages),
		runner.WithJournal(stack.Journal),
		runner.WithHeadless(opts.Headless || opts.JSON),
		runner.WithInputHandler(handler),
	}
}

func logCompletion(w io.Writer, logger *slog.Logger, err error, sig os.Signal, quiet bool) {
	if err != nil && !isInterrupted(err) {
		logger.Error("session failed", "err", err)
	}
	if quiet {
		return
	}
	switch {
	case sig == os.Interrupt:
		fmt.Fprintf(w, "[CTRL+C]\n")
		printSystemMessage(w, "Interrupted; pending cleanups drained.")
	case sig != nil:
		fmt.Fprintln(w)
		printSystemMessage(w, "Terminated; pending cleanups drained.")
	case err == nil:
		printSystemMessage(w, "Session closed.")
	}
}
