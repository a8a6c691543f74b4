package cleanup_test

import (
	"errors"
	"testing"

	"github.com/aretw0/threshold/pkg/cleanup"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type destroyer struct{ calls *int }

func (d *destroyer) Destroy() { *d.calls++ }

type errDestroyer struct{ err error }

func (d errDestroyer) Destroy() error { return d.err }

type closer struct{ closed bool }

func (c *closer) Close() error {
	c.closed = true
	return nil
}

func TestNormalize_Nil(t *testing.T) {
	teardown, ok := cleanup.Normalize(nil)
	assert.True(t, ok)
	assert.Nil(t, teardown)

	var typedNil *destroyer
	teardown, ok = cleanup.Normalize(typedNil)
	assert.True(t, ok)
	assert.Nil(t, teardown)

	var nilFunc func()
	teardown, ok = cleanup.Normalize(nilFunc)
	assert.True(t, ok)
	assert.Nil(t, teardown)
}

func TestNormalize_Shapes(t *testing.T) {
	count := 0

	cases := map[string]domain.Cleanup{
		"plain func":  func() { count++ },
		"error func":  func() error { count++; return nil },
		"teardown":    domain.Teardown(func() error { count++; return nil }),
		"destroy obj": &destroyer{calls: &count},
	}

	for name, shape := range cases {
		teardown, ok := cleanup.Normalize(shape)
		require.True(t, ok, name)
		require.NotNil(t, teardown, name)
		require.NoError(t, teardown(), name)
	}
	assert.Equal(t, len(cases), count)
}

func TestNormalize_ErrDestroyerAndCloser(t *testing.T) {
	boom := errors.New("boom")
	teardown, ok := cleanup.Normalize(errDestroyer{err: boom})
	require.True(t, ok)
	assert.ErrorIs(t, teardown(), boom)

	c := &closer{}
	teardown, ok = cleanup.Normalize(c)
	require.True(t, ok)
	require.NoError(t, teardown())
	assert.True(t, c.closed)
}

func TestNormalize_MalformedIsDiscarded(t *testing.T) {
	for _, shape := range []domain.Cleanup{42, "destroy", struct{ Destroy int }{1}, map[string]any{"destroy": 1}} {
		assert.NotPanics(t, func() {
			teardown, ok := cleanup.Normalize(shape)
			assert.False(t, ok)
			assert.Nil(t, teardown)
		})
	}
}
