package cleanup_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/threshold/pkg/cleanup"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_MergesCleanups(t *testing.T) {
	var log []string
	feature := func(name string) cleanup.Feature {
		return func(ctx context.Context, nav domain.NavigationContext) (domain.Cleanup, error) {
			log = append(log, "mount "+name)
			return func() { log = append(log, "clean "+name) }, nil
		}
	}
	silent := func(ctx context.Context, nav domain.NavigationContext) (domain.Cleanup, error) {
		return nil, nil
	}

	setup := cleanup.Compose(feature("a"), silent, feature("b"))
	result, err := setup(context.Background(), domain.NavigationContext{Namespace: "home"})
	require.NoError(t, err)

	teardown, ok := cleanup.Normalize(result)
	require.True(t, ok)
	require.NotNil(t, teardown)
	require.NoError(t, teardown())

	assert.Equal(t, []string{"mount a", "mount b", "clean a", "clean b"}, log)
}

func TestCompose_NothingToClean(t *testing.T) {
	setup := cleanup.Compose()
	result, err := setup(context.Background(), domain.NavigationContext{})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCompose_FailureKeepsPartialCleanup(t *testing.T) {
	cleaned := false
	boom := errors.New("boom")
	setup := cleanup.Compose(
		func(ctx context.Context, nav domain.NavigationContext) (domain.Cleanup, error) {
			return func() { cleaned = true }, nil
		},
		func(ctx context.Context, nav domain.NavigationContext) (domain.Cleanup, error) {
			return nil, boom
		},
	)

	result, err := setup(context.Background(), domain.NavigationContext{})
	assert.ErrorIs(t, err, boom)
	teardown, ok := cleanup.Normalize(result)
	require.True(t, ok)
	require.NoError(t, teardown())
	assert.True(t, cleaned)
}
