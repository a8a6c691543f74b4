package threshold_test

import (
	"context"
	"fmt"

	"github.com/aretw0/threshold"
	"github.com/aretw0/threshold/pkg/dom"
	"github.com/aretw0/threshold/pkg/domain"
)

func page(ns string) *domain.Page {
	p, _ := dom.LoadPage("", "/"+ns, `<html><body><main data-barba="container" data-barba-namespace="`+ns+`"></main></body></html>`)
	return p
}

func Example() {
	orch, err := threshold.New([]domain.Module{{
		Name:       "gallery",
		Namespaces: domain.NS("home"),
		BeforeEnter: func(ctx context.Context, nav domain.NavigationContext) (domain.Cleanup, error) {
			fmt.Println("mount gallery on", nav.Namespace)
			return func() { fmt.Println("unmount gallery") }, nil
		},
	}})
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	for _, ns := range []string{"home", "about"} {
		report, err := orch.Navigate(ctx, domain.NavigationEvent{Next: page(ns)})
		if err != nil {
			panic(err)
		}
		fmt.Printf("%s -> %s (cleanups run: %d)\n", report.Kind, report.To, report.CleanupsRun)
	}

	// Output:
	// mount gallery on home
	// first_load -> home (cleanups run: 0)
	// unmount gallery
	// transition -> about (cleanups run: 1)
}
