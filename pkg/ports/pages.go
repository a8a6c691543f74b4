package ports

import (
	"context"

	"github.com/aretw0/threshold/pkg/domain"
)

// PageSource resolves a navigation target to a freshly parsed page.
// Every call returns a new tree so cycles never share nodes.
type PageSource interface {
	Page(ctx context.Context, namespace string) (*domain.Page, error)
}
