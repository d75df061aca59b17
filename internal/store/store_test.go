package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimirplan/mimir/internal/store"
)

type record struct {
	Schema  int      `json:"schema"`
	Binding []int32  `json:"binding"`
	Cost    float64  `json:"cost"`
	Tags    []string `json:"tags"`
}

func TestPutGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	want := record{Schema: 2, Binding: []int32{0, 1}, Cost: 3.5, Tags: []string{"a", "b"}}
	require.NoError(t, s.Put(store.KindGroundAction, "hash-1", want))

	var got record
	ok, err := s.Get(store.KindGroundAction, "hash-1", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestGetMissReturnsFalseNoError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	var got record
	ok, err := s.Get(store.KindGroundAxiom, "absent", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutOverwritesExistingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(store.KindGroundAction, "k", record{Cost: 1}))
	require.NoError(t, s.Put(store.KindGroundAction, "k", record{Cost: 2}))

	var got record
	ok, err := s.Get(store.KindGroundAction, "k", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.0, got.Cost)
}

func TestNamespaceIsSessionScoped(t *testing.T) {
	a := store.NewSession("blocksworld", "p1")
	b := store.NewSession("blocksworld", "p1")
	assert.NotEqual(t, a.Namespace("h"), b.Namespace("h"), "two sessions must not collide on the same structural hash")
}
