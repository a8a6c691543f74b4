// Package dom provides the small subset of DOM operations behavior modules need
// on top of golang.org/x/net/html trees.
//
// Hooks of one phase run concurrently and may share a container, so every read or
// write of a tree that can be mutated must happen inside Mutate.
package dom

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/threshold/pkg/domain"
	"golang.org/x/net/html"
)

var mu sync.Mutex

// Mutate runs fn while holding the document lock.
func Mutate(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	fn()
}

// Parse parses a full HTML document.
func Parse(markup string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

// Render serializes n and its subtree.
func Render(n *html.Node) (string, error) {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Container returns the page container of doc: the element marked with
// data-barba="container", else <body>, else doc itself.
func Container(doc *html.Node) *html.Node {
	if c := First(doc, AttrEquals(domain.AttrContainer, domain.ContainerValue)); c != nil {
		return c
	}
	if body := First(doc, Tag("body")); body != nil {
		return body
	}
	return doc
}

// Namespace returns the namespace declared on container, if any.
func Namespace(container *html.Node) string {
	ns, _ := Attr(container, domain.AttrNamespace)
	return ns
}

// LoadPage parses markup into a Page. An explicit namespace wins over the one
// declared in the markup.
func LoadPage(namespace, url, markup string) (*domain.Page, error) {
	doc, err := Parse(markup)
	if err != nil {
		return nil, err
	}
	container := Container(doc)
	if namespace == "" {
		namespace = Namespace(container)
	}
	return &domain.Page{
		Namespace: namespace,
		URL:       url,
		HTML:      markup,
		Container: container,
	}, nil
}
