// Package pagemeta resynchronizes site-level page metadata after a swap.
// It reads the raw navigation payload, so it works on the incoming markup
// rather than on the processed container.
package pagemeta

import (
	"context"
	"sync"

	"github.com/aretw0/threshold/pkg/dom"
	"github.com/aretw0/threshold/pkg/domain"
)

var htmlQuery = dom.MustCompile("html")

// Options configures the module.
type Options struct {
	// PageAttr is read from the <html> element of the incoming document.
	PageAttr string `mapstructure:"page_attr"`
	// CurrentClass marks links pointing at the current URL.
	CurrentClass string `mapstructure:"current_class"`
}

// DefaultOptions returns the stock attribute and class names.
func DefaultOptions() Options {
	return Options{PageAttr: "data-wf-page", CurrentClass: "w--current"}
}

// Tracker remembers the page identifier of the last entered page.
type Tracker struct {
	mu     sync.RWMutex
	pageID string
	resets int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// PageID returns the identifier of the last entered page.
func (t *Tracker) PageID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pageID
}

// Resets returns how many pages have been synchronized.
func (t *Tracker) Resets() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.resets
}

func (t *Tracker) record(pageID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if pageID != "" {
		t.pageID = pageID
	}
	t.resets++
}

// New returns the module. It only contributes an EnterData hook.
func New(name string, namespaces domain.Namespaces, opts Options, tracker *Tracker) domain.Module {
	d := DefaultOptions()
	if opts.PageAttr == "" {
		opts.PageAttr = d.PageAttr
	}
	if opts.CurrentClass == "" {
		opts.CurrentClass = d.CurrentClass
	}
	if tracker == nil {
		tracker = NewTracker()
	}
	return domain.Module{
		Name:       name,
		Namespaces: namespaces,
		EnterData: func(_ context.Context, event domain.NavigationEvent) error {
			return Sync(event, opts, tracker)
		},
	}
}

// Sync records the incoming page identifier and moves the current-link class.
func Sync(event domain.NavigationEvent, opts Options, tracker *Tracker) error {
	next := event.Next
	if next == nil {
		return nil
	}

	var pageID string
	if next.HTML != "" {
		doc, err := dom.Parse(next.HTML)
		if err != nil {
			return err
		}
		if root := htmlQuery.First(doc); root != nil {
			pageID, _ = dom.Attr(root, opts.PageAttr)
		}
	}
	tracker.record(pageID)

	if next.Container == nil {
		return nil
	}
	dom.Mutate(func() {
		for _, n := range dom.WithClass(opts.CurrentClass).All(next.Container) {
			dom.RemoveClass(n, opts.CurrentClass)
		}
		if next.URL == "" {
			return
		}
		for _, a := range dom.TagAttrEquals("a", "href", next.URL).All(next.Container) {
			dom.AddClass(a, opts.CurrentClass)
		}
	})
	return nil
}
