package dom_test

import (
	"testing"

	"github.com/aretw0/threshold/pkg/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html data-wf-page="abc123">
<body>
  <header><a href="/">Home</a></header>
  <main data-barba="container" data-barba-namespace="home">
    <section id="one" data-animate="true"></section>
    <section id="two"><p data-animate="false"></p></section>
  </main>
</body>
</html>`

func TestLoadPage(t *testing.T) {
	p, err := dom.LoadPage("", "/", page)
	require.NoError(t, err)

	assert.Equal(t, "home", p.Namespace)
	assert.Equal(t, "main", p.Container.Data)
	assert.Equal(t, page, p.HTML)

	p, err = dom.LoadPage("override", "/", page)
	require.NoError(t, err)
	assert.Equal(t, "override", p.Namespace)
}

func TestContainer_FallsBackToBody(t *testing.T) {
	doc, err := dom.Parse(`<html><body><p>plain</p></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "body", dom.Container(doc).Data)
	assert.Empty(t, dom.Namespace(dom.Container(doc)))
}

func TestQueries(t *testing.T) {
	doc, err := dom.Parse(page)
	require.NoError(t, err)
	container := dom.Container(doc)

	animated := dom.FindAll(container, dom.WithAttr("data-animate"))
	require.Len(t, animated, 2)
	assert.Equal(t, "section", animated[0].Data)
	assert.Equal(t, "p", animated[1].Data)

	enabled := dom.FindAll(container, dom.AttrEquals("data-animate", "true"))
	require.Len(t, enabled, 1)

	two := dom.First(container, dom.AttrEquals("id", "two"))
	require.NotNil(t, two)
	assert.Same(t, two, dom.Closest(animated[1], dom.Tag("section")))
	assert.Nil(t, dom.Closest(animated[1], dom.Tag("table")))
	assert.Nil(t, dom.First(container, dom.Tag("header")), "queries stay inside the container")
}

func TestCompile(t *testing.T) {
	doc, err := dom.Parse(`<html><body>
  <nav><a href="/about" class="nav w--current">About</a><a href='/say "hi"'>Quote</a></nav>
  <div href="/about"></div>
</body></html>`)
	require.NoError(t, err)

	q, err := dom.Compile(`nav > a[href="/about"]`)
	require.NoError(t, err)
	require.Len(t, q.All(doc), 1)
	assert.True(t, q.Match(q.First(doc)))

	_, err = dom.Compile(`a[href=`)
	assert.Error(t, err)
	assert.Panics(t, func() { dom.MustCompile("[") })

	assert.Len(t, dom.AttrEquals("href", "/about").All(doc), 2)
	assert.Len(t, dom.TagAttrEquals("a", "href", "/about").All(doc), 1)
	assert.Len(t, dom.TagAttrEquals("a", "href", `/say "hi"`).All(doc), 1, "values are quoted")
	assert.Len(t, dom.WithClass("w--current").All(doc), 1)
	assert.Empty(t, dom.WithClass("current").All(doc))
	assert.Empty(t, dom.WithAttr("9lives").All(doc), "keys are escaped")
	assert.Nil(t, dom.Query{}.First(doc))
}

func TestAttributes(t *testing.T) {
	doc, err := dom.Parse(page)
	require.NoError(t, err)
	n := dom.First(doc, dom.AttrEquals("id", "one"))
	require.NotNil(t, n)

	dom.SetAttr(n, "aria-hidden", "true")
	dom.SetAttr(n, "aria-hidden", "false")
	v, ok := dom.Attr(n, "aria-hidden")
	assert.True(t, ok)
	assert.Equal(t, "false", v)

	dom.RemoveAttr(n, "aria-hidden")
	assert.False(t, dom.HasAttr(n, "aria-hidden"))
	assert.True(t, dom.HasAttr(n, "data-animate"))

	out, err := dom.Render(n)
	require.NoError(t, err)
	assert.Equal(t, `<section id="one" data-animate="true"></section>`, out)
}

func TestClasses(t *testing.T) {
	doc, err := dom.Parse(`<html><body><a class="nav  w--current" href="/">x</a></body></html>`)
	require.NoError(t, err)
	a := dom.First(doc, dom.Tag("a"))
	require.NotNil(t, a)

	assert.True(t, dom.HasClass(a, "w--current"))
	dom.RemoveClass(a, "w--current")
	v, _ := dom.Attr(a, "class")
	assert.Equal(t, "nav", v)

	dom.AddClass(a, "active")
	dom.AddClass(a, "active")
	v, _ = dom.Attr(a, "class")
	assert.Equal(t, "nav active", v)

	dom.RemoveClass(a, "nav")
	dom.RemoveClass(a, "active")
	assert.False(t, dom.HasAttr(a, "class"))
}
