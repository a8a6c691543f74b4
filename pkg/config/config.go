// Package config loads site definitions: which modules run, on which namespaces,
// with which collaborators, and the pages used by simulated navigations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/aretw0/threshold/pkg/modules"
	"gopkg.in/yaml.v3"
)

// Collaborator and store kinds.
const (
	EffectNone  = "none"
	EffectFade  = "fade"
	ScrollNone  = "none"
	ScrollTrack = "tracker"

	JournalNone   = "none"
	JournalMemory = "memory"
	JournalRedis  = "redis"
	JournalFile   = "file"
)

// Site is the root of a site file.
type Site struct {
	Name        string          `yaml:"name" toml:"name"`
	LogLevel    string          `yaml:"log_level" toml:"log_level"`
	Queue       bool            `yaml:"queue" toml:"queue"`
	HookTimeout time.Duration   `yaml:"hook_timeout" toml:"hook_timeout"`
	Effect      Effect          `yaml:"effect" toml:"effect"`
	Scroll      Scroll          `yaml:"scroll" toml:"scroll"`
	Journal     Journal         `yaml:"journal" toml:"journal"`
	Modules     []Module        `yaml:"modules" toml:"modules"`
	Pages       map[string]Page `yaml:"pages" toml:"pages"`

	// dir is the directory page files are resolved against.
	dir string
}

// Effect selects the transition effect.
type Effect struct {
	Kind  string        `yaml:"kind" toml:"kind"`
	Leave time.Duration `yaml:"leave" toml:"leave"`
	Enter time.Duration `yaml:"enter" toml:"enter"`
}

// Scroll selects the scroll-sync collaborator.
type Scroll struct {
	Kind string `yaml:"kind" toml:"kind"`
}

// Journal selects where cycle reports are kept.
type Journal struct {
	Kind       string        `yaml:"kind" toml:"kind"`
	Addr       string        `yaml:"addr" toml:"addr"`
	Key        string        `yaml:"key" toml:"key"`
	Path       string        `yaml:"path" toml:"path"`
	MaxEntries int           `yaml:"max_entries" toml:"max_entries"`
	TTL        time.Duration `yaml:"ttl" toml:"ttl"`
}

// Module declares one module instance.
type Module struct {
	Name       string         `yaml:"name" toml:"name"`
	Kind       string         `yaml:"kind" toml:"kind"`
	Namespaces *Namespaces    `yaml:"namespaces" toml:"namespaces"`
	Options    map[string]any `yaml:"options" toml:"options"`
}

// Page declares the markup served for a namespace, inline or from a file.
type Page struct {
	URL  string `yaml:"url" toml:"url"`
	HTML string `yaml:"html" toml:"html"`
	File string `yaml:"file" toml:"file"`
}

// Default returns a site with every collaborator set to its default.
func Default() *Site {
	return &Site{
		Name:     "site",
		LogLevel: "info",
		Effect:   Effect{Kind: EffectNone},
		Scroll:   Scroll{Kind: ScrollTrack},
		Journal:  Journal{Kind: JournalMemory, MaxEntries: 256},
		Pages:    map[string]Page{},
	}
}

// Load reads a site file. The format follows the extension: .yaml, .yml or .toml.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site file: %w", err)
	}
	site, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	site.dir = filepath.Dir(path)
	return site, nil
}

// Parse decodes data in the given format on top of Default.
func Parse(data []byte, format string) (*Site, error) {
	site := Default()
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, site); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
	case "toml":
		if _, err := toml.Decode(string(data), site); err != nil {
			return nil, fmt.Errorf("invalid toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported site format %q", format)
	}
	if site.Pages == nil {
		site.Pages = map[string]Page{}
	}
	return site, nil
}

// Dir returns the directory page files are resolved against.
func (s *Site) Dir() string {
	if s.dir == "" {
		return "."
	}
	return s.dir
}

// Markup returns the markup of the page declared for namespace.
func (s *Site) Markup(namespace string) (Page, string, error) {
	p, ok := s.Pages[namespace]
	if !ok {
		return Page{}, "", fmt.Errorf("no page declared for namespace %q", namespace)
	}
	if p.File == "" {
		return p, p.HTML, nil
	}
	path := p.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir(), path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Page{}, "", fmt.Errorf("page %s: %w", namespace, err)
	}
	return p, string(data), nil
}

// Namespaces returns the declared page namespaces sorted.
func (s *Site) Namespaces() []string {
	out := make([]string, 0, len(s.Pages))
	for ns := range s.Pages {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// ModuleSpecs converts the module declarations into catalog specs.
func (s *Site) ModuleSpecs() []modules.Spec {
	specs := make([]modules.Spec, 0, len(s.Modules))
	for _, m := range s.Modules {
		specs = append(specs, modules.Spec{
			Name:       m.Name,
			Kind:       m.Kind,
			Namespaces: m.Namespaces.Set(),
			Options:    m.Options,
		})
	}
	return specs
}
