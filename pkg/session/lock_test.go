package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/ports"
)

type stubNavigator struct{}

func (stubNavigator) Navigate(context.Context, domain.NavigationEvent) (*domain.CycleReport, error) {
	return &domain.CycleReport{}, nil
}
func (stubNavigator) Close(context.Context) (*domain.CycleReport, error) {
	return &domain.CycleReport{Kind: domain.CycleClose}, nil
}
func (stubNavigator) Snapshot() domain.Snapshot { return domain.Snapshot{} }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(func(string) (ports.Navigator, error) { return stubNavigator{}, nil })
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_, _ = mgr.LoadOrStart(ctx, sid)
		_, _ = mgr.Delete(ctx, sid)
	}

	if lockCount := len(mgr.locks); lockCount != 0 {
		t.Errorf("memory leak detected: %d locks remaining after Delete", lockCount)
	}
	if mgr.Len() != 0 {
		t.Errorf("expected no sessions, got %d", mgr.Len())
	}
}
