package ports

import (
	"context"

	"golang.org/x/net/html"
)

// TransitionEffect is the visual effect played while pages are swapped.
// Both operations must return even when the effect is instantaneous or skipped.
type TransitionEffect interface {
	BeginLeave(ctx context.Context, container *html.Node) error
	BeginEnter(ctx context.Context, container *html.Node) error
}
