package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/threshold/internal/logging"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/ports"
)

// ErrNoPages is returned when a navigation is requested without a page source.
var ErrNoPages = errors.New("runner has no page source")

// Runner drives a navigator from operator commands.
type Runner struct {
	// Handler is the IO strategy. If nil, a TextHandler on Stdin/Stdout is used.
	Handler IOHandler

	// Pages resolves navigation targets.
	Pages ports.PageSource

	// Journal backs the journal command. If nil, the command is refused.
	Journal ports.Journal

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	Headless bool
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{Logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads commands until quit, end of input or an interrupt, then closes nav so
// its pending cleanups run. Rejected commands and failed navigations are reported
// through the handler and do not stop the loop.
func (r *Runner) Run(ctx context.Context, nav ports.Navigator) error {
	handler := r.resolveHandler()
	signals := NewSignalManager(ctx)
	defer signals.Stop()

	if !r.Headless {
		_ = handler.SystemOutput(ctx, "type 'help' for commands")
	}

loop:
	for {
		cmd, err := handler.Input(signals.Context())
		if err != nil {
			if errors.Is(err, io.EOF) {
				signals.CheckRace()
				break
			}
			if signals.Interrupted() {
				r.Logger.Debug("runner interrupted", "err", err)
				break
			}
			return fmt.Errorf("input error: %w", err)
		}

		switch cmd.Name {
		case CmdQuit:
			break loop
		case CmdHelp:
			err = handler.SystemOutput(ctx, helpText)
		case CmdStatus:
			err = handler.Snapshot(ctx, nav.Snapshot())
		case CmdJournal:
			err = r.showJournal(ctx, handler, cmd.Limit(DefaultJournalLimit))
		case CmdNavigate:
			var report *domain.CycleReport
			report, err = r.Navigate(ctx, nav, cmd.Args[0])
			if err != nil {
				r.Logger.Warn("navigation rejected", "target", cmd.Args[0], "err", err)
				err = handler.SystemOutput(ctx, err.Error())
			} else {
				err = handler.Report(ctx, report)
			}
		}
		if err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}

	return r.close(context.WithoutCancel(ctx), handler, nav)
}

// Play navigates through namespaces in order and stops at the first rejected navigation.
// The navigator is left open.
func (r *Runner) Play(ctx context.Context, nav ports.Navigator, namespaces []string) ([]*domain.CycleReport, error) {
	handler := r.resolveHandler()
	reports := make([]*domain.CycleReport, 0, len(namespaces))
	for _, ns := range namespaces {
		report, err := r.Navigate(ctx, nav, ns)
		if err != nil {
			return reports, fmt.Errorf("navigate to %s: %w", ns, err)
		}
		reports = append(reports, report)
		if err := handler.Report(ctx, report); err != nil {
			return reports, fmt.Errorf("output error: %w", err)
		}
	}
	return reports, nil
}

// Close closes nav and reports its close cycle.
func (r *Runner) Close(ctx context.Context, nav ports.Navigator) error {
	return r.close(ctx, r.resolveHandler(), nav)
}

// Navigate resolves namespace through the page source and runs one cycle.
func (r *Runner) Navigate(ctx context.Context, nav ports.Navigator, namespace string) (*domain.CycleReport, error) {
	if r.Pages == nil {
		return nil, ErrNoPages
	}
	page, err := r.Pages.Page(ctx, namespace)
	if err != nil {
		return nil, err
	}
	return nav.Navigate(ctx, domain.NavigationEvent{Next: page})
}

func (r *Runner) close(ctx context.Context, handler IOHandler, nav ports.Navigator) error {
	report, err := nav.Close(ctx)
	if errors.Is(err, domain.ErrClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("close error: %w", err)
	}
	r.Logger.Debug("orchestrator closed", "cleanups_run", report.CleanupsRun)
	return handler.Report(ctx, report)
}

func (r *Runner) showJournal(ctx context.Context, handler IOHandler, limit int) error {
	if r.Journal == nil {
		return handler.SystemOutput(ctx, "journal is disabled")
	}
	reports, err := r.Journal.List(ctx, limit)
	if err != nil {
		return handler.SystemOutput(ctx, fmt.Sprintf("journal unavailable: %v", err))
	}
	return handler.Journal(ctx, reports)
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r.Handler
}
