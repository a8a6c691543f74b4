package runner

import (
	"log/slog"

	"github.com/aretw0/threshold/pkg/ports"
)

// DefaultJournalLimit is the number of reports shown by a bare journal command.
const DefaultJournalLimit = 10

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithPages configures where navigation targets are resolved.
func WithPages(pages ports.PageSource) Option {
	return func(r *Runner) {
		r.Pages = pages
	}
}

// WithJournal enables the journal command.
func WithJournal(journal ports.Journal) Option {
	return func(r *Runner) {
		r.Journal = journal
	}
}

// WithHeadless suppresses the banner and help hints.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.Headless = headless
	}
}
