package runtime

import (
	"context"

	"golang.org/x/net/html"
)

type noopScroll struct{}

func (noopScroll) Start()           {}
func (noopScroll) Stop()            {}
func (noopScroll) Refresh()         {}
func (noopScroll) JumpToTop(_ bool) {}

type noopEffect struct{}

func (noopEffect) BeginLeave(context.Context, *html.Node) error { return nil }
func (noopEffect) BeginEnter(context.Context, *html.Node) error { return nil }
