// Package accordion wires accessible accordions found in a page container.
//
// Items grouped under a component element are single-open among its direct children;
// standalone items toggle on their own. Missing triggers or content make an item a no-op.
// Every attribute the module adds is reverted when the page is left.
package accordion

import (
	"context"
	"fmt"

	"github.com/aretw0/threshold/pkg/dom"
	"github.com/aretw0/threshold/pkg/domain"
	"golang.org/x/net/html"
)

const (
	markA11y        = "data-accordion-a11y"
	markGeneratedID = "data-accordion-generated-id"
	markRole        = "data-accordion-role-added"
	markTabindex    = "data-accordion-tabindex-added"
	markLabelledBy  = "data-accordion-aria-labelledby-added"

	stateAttr = "data-state"
	open      = "open"
	closed    = "closed"
)

// Options selects the accordion parts by attribute name.
type Options struct {
	Component string `mapstructure:"component"`
	Item      string `mapstructure:"item"`
	Trigger   string `mapstructure:"trigger"`
	Content   string `mapstructure:"content"`
}

// DefaultOptions returns the stock attribute names.
func DefaultOptions() Options {
	return Options{
		Component: "data-accordion-component",
		Item:      "data-accordion-item",
		Trigger:   "data-accordion-trigger",
		Content:   "data-accordion-content",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Component == "" {
		o.Component = d.Component
	}
	if o.Item == "" {
		o.Item = d.Item
	}
	if o.Trigger == "" {
		o.Trigger = d.Trigger
	}
	if o.Content == "" {
		o.Content = d.Content
	}
	return o
}

// New returns the accordion module. A nil namespaces set makes it global.
func New(name string, namespaces domain.Namespaces, opts Options) domain.Module {
	opts = opts.withDefaults()
	return domain.Module{
		Name:       name,
		Namespaces: namespaces,
		BeforeEnter: func(_ context.Context, nav domain.NavigationContext) (domain.Cleanup, error) {
			if nav.Container == nil {
				return nil, nil
			}
			return Init(nav.Container, opts), nil
		},
	}
}

// Set is the accordion state of one container. Its Destroy method reverts the wiring.
type Set struct {
	q     queries
	items []*item
}

type queries struct {
	component, item, trigger, content dom.Query
}

func compile(opts Options) queries {
	return queries{
		component: dom.WithAttr(opts.Component),
		item:      dom.WithAttr(opts.Item),
		trigger:   dom.WithAttr(opts.Trigger),
		content:   dom.WithAttr(opts.Content),
	}
}

type item struct {
	node      *html.Node
	triggers  []*html.Node
	content   *html.Node
	component *html.Node
}

// Init wires every accordion item inside container.
func Init(container *html.Node, opts Options) *Set {
	s := &Set{q: compile(opts.withDefaults())}
	dom.Mutate(func() {
		counter := 0
		next := func() int {
			counter++
			return counter
		}

		for _, component := range s.q.component.All(container) {
			for c := component.FirstChild; c != nil; c = c.NextSibling {
				if s.q.item.Match(c) {
					s.add(c, component, next)
				}
			}
		}
		for _, n := range s.q.item.All(container) {
			if dom.Closest(n.Parent, s.q.component) == nil {
				s.add(n, nil, next)
			}
		}
	})
	return s
}

func (s *Set) add(n, component *html.Node, next func() int) {
	it := &item{node: n, component: component}
	for _, t := range s.q.trigger.All(n) {
		if dom.Closest(t, s.q.item) == n {
			it.triggers = append(it.triggers, t)
		}
	}
	it.content = s.q.content.First(n)
	if len(it.triggers) == 0 || it.content == nil {
		return
	}

	if !dom.HasAttr(it.content, "id") {
		dom.SetAttr(it.content, "id", fmt.Sprintf("accordion-content-%d", next()))
		dom.SetAttr(it.content, markGeneratedID, "true")
	}
	contentID, _ := dom.Attr(it.content, "id")

	for _, t := range it.triggers {
		if !dom.HasAttr(t, "id") {
			dom.SetAttr(t, "id", fmt.Sprintf("accordion-trigger-%d", next()))
			dom.SetAttr(t, markGeneratedID, "true")
		}
		dom.SetAttr(t, "aria-expanded", "false")
		dom.SetAttr(t, "aria-controls", contentID)
		dom.SetAttr(t, markA11y, "true")
		if t.Data != "button" && t.Data != "a" {
			if !dom.HasAttr(t, "role") {
				dom.SetAttr(t, "role", "button")
			}
			if !dom.HasAttr(t, "tabindex") {
				dom.SetAttr(t, "tabindex", "0")
			}
			dom.SetAttr(t, markRole, "true")
			dom.SetAttr(t, markTabindex, "true")
		}
	}

	dom.SetAttr(it.content, "role", "region")
	dom.SetAttr(it.content, "aria-hidden", "true")
	if !dom.HasAttr(it.content, "aria-labelledby") {
		firstID, _ := dom.Attr(it.triggers[0], "id")
		dom.SetAttr(it.content, "aria-labelledby", firstID)
		dom.SetAttr(it.content, markLabelledBy, "true")
	}
	dom.SetAttr(it.content, markA11y, "true")

	if !dom.HasAttr(n, stateAttr) {
		dom.SetAttr(n, stateAttr, closed)
	}
	s.items = append(s.items, it)
}

// Len returns the number of wired items.
func (s *Set) Len() int {
	return len(s.items)
}

// Toggle opens or closes the i-th wired item, closing its open siblings first.
func (s *Set) Toggle(i int) {
	if i < 0 || i >= len(s.items) {
		return
	}
	dom.Mutate(func() {
		it := s.items[i]
		if it.component != nil {
			for _, sib := range s.items {
				if sib != it && sib.component == it.component && isOpen(sib) {
					sib.setState(closed)
				}
			}
		}
		if isOpen(it) {
			it.setState(closed)
		} else {
			it.setState(open)
		}
	})
}

// IsOpen reports whether the i-th wired item is open.
func (s *Set) IsOpen(i int) bool {
	if i < 0 || i >= len(s.items) {
		return false
	}
	var res bool
	dom.Mutate(func() { res = isOpen(s.items[i]) })
	return res
}

// Destroy reverts every attribute added by Init and closes all items.
func (s *Set) Destroy() {
	dom.Mutate(func() {
		for _, it := range s.items {
			it.revert()
		}
	})
	s.items = nil
}

func isOpen(it *item) bool {
	v, _ := dom.Attr(it.node, stateAttr)
	return v == open
}

func (it *item) setState(state string) {
	expanded, hidden := "false", "true"
	if state == open {
		expanded, hidden = "true", "false"
	}
	dom.SetAttr(it.node, stateAttr, state)
	for _, t := range it.triggers {
		dom.SetAttr(t, "aria-expanded", expanded)
	}
	dom.SetAttr(it.content, "aria-hidden", hidden)
}

func (it *item) revert() {
	for _, t := range it.triggers {
		if v, _ := dom.Attr(t, markA11y); v == "true" {
			dom.RemoveAttr(t, "aria-expanded")
			dom.RemoveAttr(t, "aria-controls")
			dom.RemoveAttr(t, markA11y)
		}
		revertGenerated(t)
		if v, _ := dom.Attr(t, markRole); v == "true" {
			if role, _ := dom.Attr(t, "role"); role == "button" {
				dom.RemoveAttr(t, "role")
			}
			dom.RemoveAttr(t, markRole)
		}
		if v, _ := dom.Attr(t, markTabindex); v == "true" {
			if idx, _ := dom.Attr(t, "tabindex"); idx == "0" {
				dom.RemoveAttr(t, "tabindex")
			}
			dom.RemoveAttr(t, markTabindex)
		}
	}

	c := it.content
	if v, _ := dom.Attr(c, markA11y); v == "true" {
		dom.RemoveAttr(c, "role")
		dom.RemoveAttr(c, "aria-hidden")
		if v, _ := dom.Attr(c, markLabelledBy); v == "true" {
			dom.RemoveAttr(c, "aria-labelledby")
			dom.RemoveAttr(c, markLabelledBy)
		}
		dom.RemoveAttr(c, markA11y)
	}
	revertGenerated(c)
	dom.SetAttr(it.node, stateAttr, closed)
}

func revertGenerated(n *html.Node) {
	if v, _ := dom.Attr(n, markGeneratedID); v == "true" {
		dom.RemoveAttr(n, "id")
		dom.RemoveAttr(n, markGeneratedID)
	}
}
