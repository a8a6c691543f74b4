/*
Package threshold orchestrates the lifecycle of behavior modules across page transitions.

A page-transition site swaps one content container for another without a full reload.
Every module that enhances the page (accordions, reveal animations, analytics) has to
mount on the new container and release what it acquired on the old one. threshold runs
that lifecycle:

  - Enter: BeforeEnter and EnterData (plus Once and OnceData on the first load), AfterEnter.
  - Leave: BeforeLeave, the leave effect, a LIFO drain of every cleanup registered while
    the page was active, AfterLeave.

Hooks of one phase run concurrently and are joined before the next phase starts. A failing
or panicking hook is recorded in the cycle report and never aborts the cycle.

# Usage

	orch, err := threshold.New([]domain.Module{{
		Name:       "gallery",
		Namespaces: domain.NS("home"),
		BeforeEnter: func(ctx context.Context, nav domain.NavigationContext) (domain.Cleanup, error) {
			stop := startGallery(nav.Container)
			return stop, nil
		},
	}})
	if err != nil {
		log.Fatal(err)
	}

	page, _ := dom.LoadPage("", "/", markup)
	report, err := orch.Navigate(ctx, domain.NavigationEvent{Next: page})

Sites can also be declared in a YAML or TOML file and assembled with Load; the threshold
command runs them interactively, over HTTP or as an MCP server.
*/
package threshold
