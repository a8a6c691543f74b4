package effect

import (
	"context"
	"time"

	"golang.org/x/net/html"
)

// Fade is a timed transition: each side of the swap takes a fixed duration.
// It never touches the container, so it is safe to run next to module hooks.
type Fade struct {
	Leave time.Duration
	Enter time.Duration
}

// NewFade creates a fade with the given durations.
func NewFade(leave, enter time.Duration) *Fade {
	return &Fade{Leave: leave, Enter: enter}
}

// BeginLeave waits for the leave animation or ctx, whichever ends first.
func (f *Fade) BeginLeave(ctx context.Context, _ *html.Node) error {
	return wait(ctx, f.Leave)
}

// BeginEnter waits for the enter animation or ctx, whichever ends first.
func (f *Fade) BeginEnter(ctx context.Context, _ *html.Node) error {
	return wait(ctx, f.Enter)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Noop resolves immediately.
type Noop struct{}

func (Noop) BeginLeave(context.Context, *html.Node) error { return nil }
func (Noop) BeginEnter(context.Context, *html.Node) error { return nil }
