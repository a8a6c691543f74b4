package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Validate reports every problem found in the site, joined. kinds lists the module
// kinds the caller can build; an empty list skips the kind check.
func (s *Site) Validate(kinds ...string) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(s.Name) == "" {
		add("name is required")
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if s.HookTimeout < 0 {
		add("hook_timeout must not be negative")
	}

	switch s.Effect.Kind {
	case "", EffectNone, EffectFade:
	default:
		add("effect: unknown kind %q", s.Effect.Kind)
	}
	if s.Effect.Leave < 0 || s.Effect.Enter < 0 {
		add("effect: durations must not be negative")
	}

	switch s.Scroll.Kind {
	case "", ScrollNone, ScrollTrack:
	default:
		add("scroll: unknown kind %q", s.Scroll.Kind)
	}

	switch s.Journal.Kind {
	case "", JournalNone, JournalMemory:
	case JournalRedis:
		if s.Journal.Addr == "" {
			add("journal: redis requires addr")
		}
	case JournalFile:
		if s.Journal.Path == "" {
			add("journal: file requires path")
		}
	default:
		add("journal: unknown kind %q", s.Journal.Kind)
	}

	seen := make(map[string]bool, len(s.Modules))
	for i, m := range s.Modules {
		name := m.Name
		if name == "" {
			name = m.Kind
		}
		where := fmt.Sprintf("modules[%d]", i)
		if name != "" {
			where = fmt.Sprintf("modules[%d] (%s)", i, name)
		}
		if m.Kind == "" {
			add("%s: kind is required", where)
		} else if len(kinds) > 0 && !slices.Contains(kinds, m.Kind) {
			add("%s: unknown kind %q", where, m.Kind)
		}
		if name != "" {
			if seen[name] {
				add("%s: duplicate module name", where)
			}
			seen[name] = true
		}
		if m.Namespaces != nil && len(m.Namespaces.Set()) == 0 {
			add("%s: namespaces is empty; omit it to make the module global", where)
		}
	}

	for ns, p := range s.Pages {
		if ns == "" {
			add("pages: empty namespace")
		}
		if p.HTML != "" && p.File != "" {
			add("pages.%s: html and file are mutually exclusive", ns)
		}
		if p.HTML == "" && p.File == "" {
			add("pages.%s: html or file is required", ns)
		}
	}

	return errors.Join(errs...)
}

// ParseLevel maps a log level name to its slog level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}
