package pages

import (
	"context"
	"fmt"

	"github.com/aretw0/threshold/pkg/dom"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/ports"
)

// Resolve builds the destination of a navigation request. Inline markup wins over src,
// and ns may then be empty when the container carries its own namespace.
func Resolve(ctx context.Context, src ports.PageSource, ns, url, markup string) (*domain.Page, error) {
	if markup != "" {
		page, err := dom.LoadPage(ns, url, markup)
		if err != nil {
			return nil, fmt.Errorf("invalid html: %w", err)
		}
		if page.Namespace == "" {
			return nil, fmt.Errorf("%w: page has no namespace", domain.ErrNoDestination)
		}
		return page, nil
	}
	if ns == "" {
		return nil, fmt.Errorf("%w: namespace is required", domain.ErrNoDestination)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: no page source configured", domain.ErrPageNotFound)
	}
	return src.Page(ctx, ns)
}
