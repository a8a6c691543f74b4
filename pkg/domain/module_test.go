package domain_test

import (
	"context"
	"testing"

	"github.com/aretw0/threshold/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestNamespaces(t *testing.T) {
	single := domain.NS("home")
	list := domain.NS("about", "home", "", "about")

	assert.True(t, single.Contains("home"))
	assert.False(t, single.Contains("about"))
	assert.Equal(t, []string{"about", "home"}, list.List())
	assert.Empty(t, domain.NS().List())
}

func TestModule_Handles(t *testing.T) {
	global := domain.Module{Name: "global"}
	scoped := domain.Module{Name: "scoped", Namespaces: domain.NS("home", "about")}

	for _, ns := range []string{"home", "about", "contact"} {
		assert.True(t, global.Handles(ns), ns)
	}
	assert.True(t, scoped.Handles("home"))
	assert.True(t, scoped.Handles("about"))
	assert.False(t, scoped.Handles("contact"))
	assert.True(t, global.IsGlobal())
	assert.False(t, scoped.IsGlobal())
}

func TestModule_HasHooks(t *testing.T) {
	assert.False(t, domain.Module{Name: "empty"}.HasHooks())
	assert.True(t, domain.Module{
		Name:     "data",
		OnceData: func(context.Context, domain.NavigationEvent) error { return nil },
	}.HasHooks())
}

func TestNavigationEvent_Namespaces(t *testing.T) {
	home := &domain.Page{Namespace: "home"}
	about := &domain.Page{Namespace: "about"}
	blank := &domain.Page{}

	tests := []struct {
		name  string
		event domain.NavigationEvent
		enter string
		leave string
	}{
		{"first load", domain.NavigationEvent{Next: home}, "home", "home"},
		{"transition", domain.NavigationEvent{Current: home, Next: about}, "about", "home"},
		{"blank next", domain.NavigationEvent{Current: home, Next: blank}, "home", "home"},
		{"blank current", domain.NavigationEvent{Current: blank, Next: about}, "about", "about"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.enter, tt.event.EnterNamespace())
			assert.Equal(t, tt.leave, tt.event.LeaveNamespace())
		})
	}

	assert.Nil(t, domain.RouteOf(nil))
	assert.Equal(t, "about", domain.RouteOf(about).Namespace)
}

func TestResolution_All(t *testing.T) {
	r := domain.Resolution{
		Global:  []domain.Module{{Name: "g1"}, {Name: "g2"}},
		Matched: []domain.Module{{Name: "m1"}},
	}
	var names []string
	for _, m := range r.All() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"g1", "g2", "m1"}, names)
}
