package accordion_test

import (
	"context"
	"testing"

	"github.com/aretw0/threshold/pkg/cleanup"
	"github.com/aretw0/threshold/pkg/dom"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/modules/accordion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const markup = `<html><body><main data-barba="container" data-barba-namespace="faq">
<div data-accordion-component>
  <div data-accordion-item>
    <div data-accordion-trigger>Q1</div>
    <div data-accordion-content>A1</div>
  </div>
  <div data-accordion-item>
    <button data-accordion-trigger id="q2">Q2</button>
    <div data-accordion-content id="a2">A2</div>
  </div>
</div>
<div data-accordion-item>
  <div data-accordion-trigger>Standalone</div>
  <div data-accordion-content>Body</div>
</div>
<div data-accordion-item><div data-accordion-trigger>No content</div></div>
</main></body></html>`

func load(t *testing.T) *html.Node {
	t.Helper()
	p, err := dom.LoadPage("", "/faq", markup)
	require.NoError(t, err)
	return p.Container
}

func byAttr(t *testing.T, root *html.Node, key, val string) *html.Node {
	t.Helper()
	n := dom.First(root, dom.AttrEquals(key, val))
	require.NotNil(t, n, "%s=%s", key, val)
	return n
}

func TestInit_WiresAria(t *testing.T) {
	container := load(t)
	set := accordion.Init(container, accordion.Options{})
	require.Equal(t, 3, set.Len(), "the item without content is skipped")

	trigger := byAttr(t, container, "id", "accordion-trigger-2")
	content := byAttr(t, container, "id", "accordion-content-1")
	v, _ := dom.Attr(trigger, "aria-controls")
	assert.Equal(t, "accordion-content-1", v)
	v, _ = dom.Attr(trigger, "role")
	assert.Equal(t, "button", v)
	v, _ = dom.Attr(content, "aria-labelledby")
	assert.Equal(t, "accordion-trigger-2", v)

	button := byAttr(t, container, "id", "q2")
	assert.False(t, dom.HasAttr(button, "role"), "native buttons keep their semantics")
	v, _ = dom.Attr(button, "aria-controls")
	assert.Equal(t, "a2", v)
}

func TestToggle_SingleOpenWithinComponent(t *testing.T) {
	set := accordion.Init(load(t), accordion.Options{})

	set.Toggle(0)
	assert.True(t, set.IsOpen(0))
	set.Toggle(1)
	assert.False(t, set.IsOpen(0))
	assert.True(t, set.IsOpen(1))

	set.Toggle(2)
	assert.True(t, set.IsOpen(1), "standalone items do not close component items")
	assert.True(t, set.IsOpen(2))

	set.Toggle(2)
	assert.False(t, set.IsOpen(2))
}

func TestDestroy_RevertsAttributes(t *testing.T) {
	container := load(t)
	before, err := dom.Render(container)
	require.NoError(t, err)

	set := accordion.Init(container, accordion.Options{})
	set.Toggle(0)
	set.Destroy()

	for _, n := range dom.FindAll(container, dom.WithAttr("data-accordion-trigger")) {
		assert.False(t, dom.HasAttr(n, "aria-expanded"))
		assert.False(t, dom.HasAttr(n, "data-accordion-a11y"))
	}
	assert.Nil(t, dom.First(container, dom.AttrEquals("id", "accordion-content-1")))
	assert.NotNil(t, dom.First(container, dom.AttrEquals("id", "a2")), "author ids survive")

	after, err := dom.Render(container)
	require.NoError(t, err)
	assert.NotEqual(t, before, after, "items keep their closed state marker")
	assert.Equal(t, 0, set.Len())
}

func TestModule_CleanupIsDestroyer(t *testing.T) {
	container := load(t)
	mod := accordion.New("accordion", nil, accordion.DefaultOptions())
	require.True(t, mod.IsGlobal())

	result, err := mod.BeforeEnter(context.Background(), domain.NavigationContext{Container: container})
	require.NoError(t, err)
	_, ok := result.(domain.Destroyer)
	require.True(t, ok)

	stack := cleanup.NewStack()
	require.True(t, stack.PushResult(mod.Name, result))
	res := stack.Drain()
	assert.Equal(t, 1, res.Ran)
	assert.Nil(t, dom.First(container, dom.WithAttr("data-accordion-a11y")))
}

func TestModule_NoContainer(t *testing.T) {
	mod := accordion.New("accordion", domain.NS("faq"), accordion.Options{})
	result, err := mod.BeforeEnter(context.Background(), domain.NavigationContext{})
	assert.NoError(t, err)
	assert.Nil(t, result)
}
