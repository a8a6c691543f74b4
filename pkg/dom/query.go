package dom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Query is a compiled CSS selector.
type Query struct {
	sel cascadia.Sel
}

// Compile parses a CSS selector such as `a[href="/about"]` or `[data-accordion-item]`.
func Compile(selector string) (Query, error) {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return Query{}, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return Query{sel: sel}, nil
}

// MustCompile is like Compile but panics on an invalid selector.
func MustCompile(selector string) Query {
	q, err := Compile(selector)
	if err != nil {
		panic(err)
	}
	return q
}

// Tag matches elements by tag name.
func Tag(name string) Query {
	return MustCompile(escapeIdent(name))
}

// WithAttr matches elements carrying key, whatever its value.
func WithAttr(key string) Query {
	return MustCompile("[" + escapeIdent(key) + "]")
}

// AttrEquals matches elements where key has exactly val.
func AttrEquals(key, val string) Query {
	return MustCompile("[" + escapeIdent(key) + "=" + quote(val) + "]")
}

// TagAttrEquals matches name elements where key has exactly val, as in a[href="/about"].
func TagAttrEquals(name, key, val string) Query {
	return MustCompile(escapeIdent(name) + "[" + escapeIdent(key) + "=" + quote(val) + "]")
}

// WithClass matches elements listing class in their class attribute.
func WithClass(class string) Query {
	return MustCompile("[class~=" + quote(class) + "]")
}

// Match reports whether n is an element selected by q.
func (q Query) Match(n *html.Node) bool {
	return n != nil && q.sel != nil && q.sel.Match(n)
}

// All returns the element descendants of root selected by q, in document order.
func (q Query) All(root *html.Node) []*html.Node {
	if root == nil || q.sel == nil {
		return nil
	}
	return cascadia.QueryAll(root, q.sel)
}

// First returns the first element descendant of root selected by q, or nil.
func (q Query) First(root *html.Node) *html.Node {
	if root == nil || q.sel == nil {
		return nil
	}
	return cascadia.Query(root, q.sel)
}

// FindAll returns the element descendants of root matching q. root itself is not considered.
func FindAll(root *html.Node, q Query) []*html.Node {
	return q.All(root)
}

// First returns the first element descendant of root matching q, or nil.
func First(root *html.Node, q Query) *html.Node {
	return q.First(root)
}

// Closest returns n or its nearest element ancestor matching q, or nil.
func Closest(n *html.Node, q Query) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && q.Match(n) {
			return n
		}
	}
	return nil
}

// escapeIdent hex-escapes every rune that cannot appear at its position in a CSS identifier.
func escapeIdent(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r >= 0x80:
			b.WriteRune(r)
		case i > 0 && (r == '-' || (r >= '0' && r <= '9')):
			b.WriteRune(r)
		default:
			fmt.Fprintf(&b, "\\%x ", r)
		}
	}
	return b.String()
}

// quote renders s as a double-quoted CSS string.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, "\\%x ", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
