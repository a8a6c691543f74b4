// Package pages provides page sources: markup held in memory or declared in a site
// file, and pages fetched from a running origin.
package pages

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/threshold/pkg/config"
	"github.com/aretw0/threshold/pkg/dom"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/ports"
)

var (
	_ ports.PageSource = (*Static)(nil)
	_ ports.PageSource = (*Remote)(nil)
)

// Entry is the raw form of a page.
type Entry struct {
	URL    string
	Markup string
}

// Static serves pages from markup kept in memory. Each call parses a new tree.
type Static struct {
	mu    sync.RWMutex
	pages map[string]Entry
}

// NewStatic creates a source from namespace to markup.
func NewStatic(markup map[string]string) *Static {
	s := &Static{pages: make(map[string]Entry, len(markup))}
	for ns, m := range markup {
		s.pages[ns] = Entry{URL: "/" + ns, Markup: m}
	}
	return s
}

// FromSite loads every page declared in site, reading page files eagerly.
func FromSite(site *config.Site) (*Static, error) {
	s := &Static{pages: make(map[string]Entry, len(site.Pages))}
	for _, ns := range site.Namespaces() {
		page, markup, err := site.Markup(ns)
		if err != nil {
			return nil, err
		}
		url := page.URL
		if url == "" {
			url = "/" + ns
		}
		s.pages[ns] = Entry{URL: url, Markup: markup}
	}
	return s, nil
}

// Set adds or replaces the markup of a namespace.
func (s *Static) Set(namespace string, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[namespace] = entry
}

// Namespaces returns the namespaces served, sorted.
func (s *Static) Namespaces() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.pages))
	for ns := range s.pages {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Page parses the markup of namespace.
func (s *Static) Page(_ context.Context, namespace string) (*domain.Page, error) {
	s.mu.RLock()
	entry, ok := s.pages[namespace]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPageNotFound, namespace)
	}
	page, err := dom.LoadPage(namespace, entry.URL, entry.Markup)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", namespace, err)
	}
	return page, nil
}
