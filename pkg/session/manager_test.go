package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/threshold/internal/runtime"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/ports"
	"github.com/aretw0/threshold/pkg/registry"
	"github.com/aretw0/threshold/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"golang.org/x/net/html"
)

// fixture builds orchestrators sharing one module that counts setups and teardowns.
type fixture struct {
	created   atomic.Int32
	setups    atomic.Int32
	teardowns atomic.Int32
	reg       *registry.Registry
}

func newFixture() *fixture {
	f := &fixture{reg: registry.NewRegistry()}
	f.reg.MustRegister(domain.Module{
		Name: "counter",
		BeforeEnter: func(context.Context, domain.NavigationContext) (domain.Cleanup, error) {
			f.setups.Inc()
			return func() { f.teardowns.Inc() }, nil
		},
	})
	return f
}

func (f *fixture) factory(string) (ports.Navigator, error) {
	f.created.Inc()
	return runtime.NewOrchestrator(f.reg), nil
}

func next(ns string) domain.NavigationEvent {
	return domain.NavigationEvent{Next: &domain.Page{
		Namespace: ns,
		Container: &html.Node{Type: html.ElementNode, Data: "main"},
	}}
}

func TestManager_LoadOrStartCreatesOnce(t *testing.T) {
	f := newFixture()
	mgr := session.NewManager(f.factory)
	ctx := context.Background()

	var wg sync.WaitGroup
	navs := make([]ports.Navigator, 20)
	for i := range navs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			nav, err := mgr.LoadOrStart(ctx, "visitor")
			assert.NoError(t, err)
			navs[i] = nav
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, f.created.Load())
	for _, nav := range navs {
		assert.Same(t, navs[0], nav)
	}
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	f := newFixture()
	mgr := session.NewManager(f.factory)
	ctx := context.Background()

	first, err := mgr.Navigate(ctx, "a", next("home"))
	require.NoError(t, err)
	assert.Equal(t, domain.CycleFirstLoad, first.Kind)

	_, err = mgr.Navigate(ctx, "a", next("about"))
	require.NoError(t, err)

	other, err := mgr.Navigate(ctx, "b", next("home"))
	require.NoError(t, err)
	assert.Equal(t, domain.CycleFirstLoad, other.Kind, "each visitor gets its own first load")

	snap, err := mgr.Snapshot("a")
	require.NoError(t, err)
	assert.Equal(t, "about", snap.ActiveNamespace)
	assert.Equal(t, 2, snap.Cycles)
	assert.Equal(t, []string{"a", "b"}, mgr.List())
}

func TestManager_DeleteDrainsCleanups(t *testing.T) {
	f := newFixture()
	mgr := session.NewManager(f.factory)
	ctx := context.Background()

	_, err := mgr.Navigate(ctx, "a", next("home"))
	require.NoError(t, err)

	report, err := mgr.Delete(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.CycleClose, report.Kind)
	assert.Equal(t, 1, report.CleanupsRun)
	assert.EqualValues(t, 1, f.teardowns.Load())

	_, err = mgr.Snapshot("a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = mgr.Delete(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_MaxSessions(t *testing.T) {
	f := newFixture()
	mgr := session.NewManager(f.factory, session.WithMaxSessions(1))
	ctx := context.Background()

	_, err := mgr.LoadOrStart(ctx, "a")
	require.NoError(t, err)
	_, err = mgr.LoadOrStart(ctx, "b")
	assert.ErrorIs(t, err, session.ErrTooManySessions)

	_, err = mgr.LoadOrStart(ctx, "a")
	assert.NoError(t, err, "existing sessions are still served")
}

func TestManager_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	mgr := session.NewManager(func(string) (ports.Navigator, error) { return nil, boom })

	_, err := mgr.Navigate(context.Background(), "a", next("home"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, mgr.Len())
}

func TestManager_CloseAll(t *testing.T) {
	f := newFixture()
	mgr := session.NewManager(f.factory, session.WithCloseWorkers(3))
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := mgr.Navigate(ctx, fmt.Sprintf("visitor-%02d", i), next("home"))
		require.NoError(t, err)
	}

	require.NoError(t, mgr.CloseAll(ctx))
	assert.Equal(t, 0, mgr.Len())
	assert.EqualValues(t, 25, f.setups.Load())
	assert.EqualValues(t, 25, f.teardowns.Load())
	assert.NoError(t, mgr.CloseAll(ctx), "closing an empty manager is a no-op")
}
