package vccache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhaig/vcgen/internal/vcgen"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLookupMissReturnsFalseNotError(t *testing.T) {
	c := openTestCache(t)
	o, ok, err := c.Lookup("no such fingerprint")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, o)
}

func TestStoreThenLookupRoundTrips(t *testing.T) {
	c := openTestCache(t)
	want := &vcgen.Outcome{Name: "bump", Status: vcgen.Verified}
	require.NoError(t, c.Store("fp-1", want))

	got, ok, err := c.Lookup("fp-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Status, got.Status)
}

func TestStoreOverwritesSameFingerprint(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.Store("fp-1", &vcgen.Outcome{Name: "bump", Status: vcgen.Failed, Model: "x = 3"}))
	require.NoError(t, c.Store("fp-1", &vcgen.Outcome{Name: "bump", Status: vcgen.Verified}))

	got, ok, err := c.Lookup("fp-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, vcgen.Verified, got.Status)
	assert.Empty(t, got.Model, "the stale model from the superseded entry must not survive the overwrite")
}

func TestDistinctFingerprintsAreDistinctKeys(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.Store("fp-a", &vcgen.Outcome{Name: "a", Status: vcgen.Verified}))
	require.NoError(t, c.Store("fp-b", &vcgen.Outcome{Name: "b", Status: vcgen.Failed}))

	a, ok, err := c.Lookup("fp-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, vcgen.Verified, a.Status)

	b, ok, err := c.Lookup("fp-b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, vcgen.Failed, b.Status)
}

func TestCacheSatisfiesOutcomeCacheInterface(t *testing.T) {
	var _ vcgen.OutcomeCache = (*Cache)(nil)
}
