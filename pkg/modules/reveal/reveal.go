// Package reveal registers scroll-triggered reveal animations declared with data-animate
// attributes. Registrations are headless: they record what a browser animator would play
// and mark elements with their state so the result can be inspected.
package reveal

import (
	"context"
	"strconv"
	"strings"

	"github.com/aretw0/threshold/pkg/dom"
	"github.com/aretw0/threshold/pkg/domain"
	"golang.org/x/net/html"
)

const (
	attrKinds          = "data-animation-type"
	attrPreventFlicker = "data-prevent-flicker"
	attrState          = "data-reveal-state"
	attrHidden         = "data-reveal-hidden"

	statePending = "pending"
	statePlayed  = "played"
)

var animated = dom.MustCompile(`[data-animate="true"]`)

// Kind is an animation flavor.
type Kind string

const (
	TextWords Kind = "text-words"
	TextLines Kind = "text-lines"
	TextChars Kind = "text-chars"
	FadeIn    Kind = "fade-in"
	SlideIn   Kind = "slide-in"
	ScaleIn   Kind = "scale-in"
	ScaleOut  Kind = "scale-out"
)

// Timing holds the per-element animation parameters.
type Timing struct {
	Duration float64 `json:"duration"`
	Delay    float64 `json:"delay"`
	Stagger  float64 `json:"stagger"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Once     bool    `json:"once"`
	Ease     string  `json:"ease"`
}

// Options configures the module.
type Options struct {
	// Kinds restricts the supported animation kinds. Empty means text-words and fade-in.
	Kinds    []string `mapstructure:"kinds"`
	Duration float64  `mapstructure:"duration"`
	Stagger  float64  `mapstructure:"stagger"`
	Ease     string   `mapstructure:"ease"`
}

// DefaultOptions mirrors the stock text animation.
func DefaultOptions() Options {
	return Options{
		Kinds:    []string{string(TextWords), string(FadeIn)},
		Duration: 0.8,
		Stagger:  0.04,
		Ease:     "power2.out",
	}
}

// Registration is one element scheduled for a reveal.
type Registration struct {
	Node   *html.Node
	Kind   Kind
	Timing Timing
	hidden bool
}

// Controller owns the registrations made for one container.
type Controller struct {
	regs []*Registration
}

// New returns the reveal module. A nil namespaces set makes it global.
func New(name string, namespaces domain.Namespaces, opts Options) domain.Module {
	return domain.Module{
		Name:       name,
		Namespaces: namespaces,
		BeforeEnter: func(_ context.Context, nav domain.NavigationContext) (domain.Cleanup, error) {
			if nav.Container == nil {
				return nil, nil
			}
			c := Scan(nav.Container, opts)
			if c.Len() == 0 {
				return nil, nil
			}
			return c.Destroy, nil
		},
	}
}

// Scan registers every enabled element in container.
func Scan(container *html.Node, opts Options) *Controller {
	def := DefaultOptions()
	if len(opts.Kinds) == 0 {
		opts.Kinds = def.Kinds
	}
	if opts.Duration <= 0 {
		opts.Duration = def.Duration
	}
	if opts.Stagger <= 0 {
		opts.Stagger = def.Stagger
	}
	if opts.Ease == "" {
		opts.Ease = def.Ease
	}
	supported := make(map[Kind]bool, len(opts.Kinds))
	for _, k := range opts.Kinds {
		supported[Kind(k)] = true
	}

	c := &Controller{}
	dom.Mutate(func() {
		for _, n := range animated.All(container) {
			kind, ok := pick(ParseKinds(attrOf(n, attrKinds)), supported)
			if !ok {
				continue
			}
			reg := &Registration{
				Node: n,
				Kind: kind,
				Timing: Timing{
					Duration: readNumber(n, "data-duration", opts.Duration),
					Delay:    readNumber(n, "data-delay", 0),
					Stagger:  readNumber(n, "data-stagger", opts.Stagger),
					Start:    attrOr(n, "data-start", "top 85%"),
					End:      attrOr(n, "data-end", "bottom top"),
					Once:     readBool(n, "data-once", true),
					Ease:     attrOr(n, "data-ease", opts.Ease),
				},
			}
			if attrOf(n, attrPreventFlicker) == "true" {
				dom.SetAttr(n, attrHidden, "true")
				reg.hidden = true
			}
			dom.SetAttr(n, attrState, statePending)
			c.regs = append(c.regs, reg)
		}
	})
	return c
}

// Len returns the number of registrations.
func (c *Controller) Len() int {
	return len(c.regs)
}

// Registrations returns the registrations in document order.
func (c *Controller) Registrations() []*Registration {
	return c.regs
}

// Play marks the i-th registration as played and restores its visibility.
func (c *Controller) Play(i int) {
	if i < 0 || i >= len(c.regs) {
		return
	}
	dom.Mutate(func() {
		reg := c.regs[i]
		dom.SetAttr(reg.Node, attrState, statePlayed)
		if reg.hidden {
			dom.RemoveAttr(reg.Node, attrHidden)
		}
	})
}

// Destroy removes every mark left by Scan and Play.
func (c *Controller) Destroy() {
	dom.Mutate(func() {
		for _, reg := range c.regs {
			dom.RemoveAttr(reg.Node, attrState)
			dom.RemoveAttr(reg.Node, attrHidden)
		}
	})
	c.regs = nil
}

// ParseKinds splits a comma separated kind list.
func ParseKinds(raw string) []Kind {
	var kinds []Kind
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			kinds = append(kinds, Kind(part))
		}
	}
	return kinds
}

// pick returns the first supported kind in declaration order.
func pick(kinds []Kind, supported map[Kind]bool) (Kind, bool) {
	for _, k := range kinds {
		if supported[k] {
			return k, true
		}
	}
	return "", false
}

func attrOf(n *html.Node, key string) string {
	v, _ := dom.Attr(n, key)
	return v
}

func attrOr(n *html.Node, key, fallback string) string {
	if v, ok := dom.Attr(n, key); ok {
		return v
	}
	return fallback
}

func readNumber(n *html.Node, key string, fallback float64) float64 {
	raw, ok := dom.Attr(n, key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return f
}

func readBool(n *html.Node, key string, fallback bool) bool {
	raw, ok := dom.Attr(n, key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(raw) {
	case "", "true":
		return true
	case "false":
		return false
	}
	return fallback
}
