package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/threshold/pkg/domain"
)

// TextHandler implements the interactive text interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ReportRenderer
	// Prompt is written before each read. Empty disables it.
	Prompt string

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the report renderer.
func WithTextHandlerRenderer(renderer ReportRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithPrompt sets the prompt written before each read.
func WithPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Prompt: "> ",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honor context cancellation.
func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				h.inputChan <- inputResult{err: err}
			}
			return
		}
	}
}

// Input reads the next non-blank command. Rejected lines are reported and skipped.
func (h *TextHandler) Input(ctx context.Context) (Command, error) {
	h.initPump()
	for {
		if err := ctx.Err(); err != nil {
			return Command{}, err
		}
		if h.Prompt != "" {
			fmt.Fprint(h.Writer, h.Prompt)
		}

		select {
		case <-ctx.Done():
			return Command{}, ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return Command{}, io.EOF
			}
			if res.err != nil {
				return Command{}, res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			cmd, err := ParseCommand(clean)
			if errors.Is(err, ErrEmptyCommand) {
				continue
			}
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v\n", err)
				continue
			}
			return cmd, nil
		}
	}
}

// Report prints one summary line per cycle, or the renderer output when set.
func (h *TextHandler) Report(_ context.Context, r *domain.CycleReport) error {
	if h.Renderer != nil {
		if out, err := h.Renderer(r); err == nil {
			_, err = fmt.Fprintln(h.Writer, strings.TrimRight(out, "\n"))
			return err
		}
	}
	route := r.To
	if r.From != "" {
		route = r.From + " -> " + r.To
	}
	if r.Kind == domain.CycleClose {
		route = "close " + r.From
	}
	_, err := fmt.Fprintf(h.Writer, "[%s] %s hooks=%d cleanups=%d/%d failures=%d (%s)\n",
		r.Kind, strings.TrimSpace(route), r.HooksRun, r.CleanupsRun, r.CleanupsPushed,
		len(r.HookFailures)+r.CleanupFailures, r.Duration)
	if err != nil {
		return err
	}
	for _, f := range r.HookFailures {
		if _, err := fmt.Fprintf(h.Writer, "  ! %s.%s: %s\n", f.Module, f.Hook, f.Error); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot prints the orchestrator state.
func (h *TextHandler) Snapshot(_ context.Context, s domain.Snapshot) error {
	active := s.ActiveNamespace
	if active == "" {
		active = "-"
	}
	_, err := fmt.Fprintf(h.Writer, "phase=%s active=%s first_load=%t pending_cleanups=%d cycles=%d closed=%t\n",
		s.Phase, active, s.IsFirstLoad, s.PendingCleanups, s.Cycles, s.Closed)
	return err
}

// Journal prints each stored report.
func (h *TextHandler) Journal(ctx context.Context, reports []domain.CycleReport) error {
	if len(reports) == 0 {
		return h.SystemOutput(ctx, "journal is empty")
	}
	for i := range reports {
		if err := h.Report(ctx, &reports[i]); err != nil {
			return err
		}
	}
	return nil
}

// SystemOutput prints a meta-message.
func (h *TextHandler) SystemOutput(_ context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return err
}
