package registry_test

import (
	"context"
	"testing"

	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx context.Context, nav domain.NavigationContext) error { return nil }

func names(mods []domain.Module) []string {
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		out = append(out, m.Name)
	}
	return out
}

func TestRegistry_Resolve(t *testing.T) {
	reg := registry.NewRegistry()
	reg.MustRegister(
		domain.Module{Name: "scroll-reveal", AfterEnter: noop},
		domain.Module{Name: "landing", Namespaces: domain.NS("home", "about"), AfterEnter: noop},
		domain.Module{Name: "contact-form", Namespaces: domain.NS("contact"), AfterEnter: noop},
		domain.Module{Name: "accordion", AfterEnter: noop},
	)

	tests := []struct {
		namespace string
		matched   []string
	}{
		{"home", []string{"landing"}},
		{"about", []string{"landing"}},
		{"contact", []string{"contact-form"}},
		{"blog", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			res := reg.Resolve(tt.namespace)
			assert.Equal(t, []string{"scroll-reveal", "accordion"}, names(res.Global))
			assert.Equal(t, tt.matched, names(res.Matched))
			assert.Len(t, res.All(), 2+len(tt.matched))
		})
	}
}

func TestRegistry_OverlappingNamespacesAllRun(t *testing.T) {
	reg := registry.NewRegistry()
	reg.MustRegister(
		domain.Module{Name: "a", Namespaces: domain.NS("home"), AfterEnter: noop},
		domain.Module{Name: "b", Namespaces: domain.NS("home", "blog"), AfterEnter: noop},
	)
	assert.Equal(t, []string{"a", "b"}, names(reg.Resolve("home").Matched))
}

func TestRegistry_RegisterValidation(t *testing.T) {
	reg := registry.NewRegistry()

	err := reg.Register(domain.Module{AfterEnter: noop})
	assert.ErrorIs(t, err, domain.ErrInvalidModule)

	err = reg.Register(domain.Module{Name: "empty"})
	assert.ErrorIs(t, err, domain.ErrInvalidModule)

	err = reg.Register(domain.Module{Name: "nowhere", Namespaces: domain.NS(), AfterEnter: noop})
	assert.ErrorIs(t, err, domain.ErrInvalidModule)

	require.NoError(t, reg.Register(domain.Module{Name: "ok", AfterEnter: noop}))
	err = reg.Register(domain.Module{Name: "ok", AfterLeave: noop})
	assert.ErrorIs(t, err, domain.ErrModuleExists)
	assert.Equal(t, 1, reg.Len())
}
