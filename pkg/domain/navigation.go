package domain

import "golang.org/x/net/html"

// Page describes one side of a navigation.
type Page struct {
	Namespace string `json:"namespace"`
	URL       string `json:"url,omitempty"`
	// HTML is the raw markup of the page, as fetched by the navigation source.
	HTML string `json:"html,omitempty"`
	// Container is the parsed page root. It is borrowed for the duration of a hook call.
	Container *html.Node `json:"-"`
}

// NavigationEvent is the inbound payload for one navigation.
// Current is nil on the very first load.
type NavigationEvent struct {
	Current *Page `json:"current,omitempty"`
	Next    *Page `json:"next,omitempty"`
}

// EnterNamespace is the namespace used for enter phases.
func (e NavigationEvent) EnterNamespace() string {
	if e.Next != nil && e.Next.Namespace != "" {
		return e.Next.Namespace
	}
	if e.Current != nil {
		return e.Current.Namespace
	}
	return ""
}

// LeaveNamespace is the namespace used for leave phases.
func (e NavigationEvent) LeaveNamespace() string {
	if e.Current != nil && e.Current.Namespace != "" {
		return e.Current.Namespace
	}
	if e.Next != nil {
		return e.Next.Namespace
	}
	return ""
}

// Route names the peer page of a phase.
type Route struct {
	Namespace string `json:"namespace"`
}

// RouteOf returns the route for p, or nil when p is nil.
func RouteOf(p *Page) *Route {
	if p == nil {
		return nil
	}
	return &Route{Namespace: p.Namespace}
}

// NavigationContext is handed to module hooks for a single phase of a single navigation.
// Enter phases carry From, leave phases carry To.
type NavigationContext struct {
	CycleID     string
	Phase       Phase
	Container   *html.Node
	Namespace   string
	IsFirstLoad bool
	From        *Route
	To          *Route
}
