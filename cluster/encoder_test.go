package cluster

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedingFromFirstBatch(t *testing.T) {
	e := NewEncoder(2, 2)
	ids, err := e.Encode([]float64{0, 0, 10, 10})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1}, ids)
	assert.Equal(t, [][]float64{{0, 0}, {10, 10}}, e.Centroids())
	assert.Equal(t, []uint64{1, 1}, e.Counts())
}

func TestAssignsNearestAndMoves(t *testing.T) {
	e := NewEncoder(2, 2)
	_, err := e.Encode([]float64{0, 0, 10, 10})
	require.NoError(t, err)

	ids, err := e.Encode([]float64{9, 9, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 0}, ids)
	assert.Equal(t, []uint64{2, 2}, e.Counts())
	assert.Equal(t, [][]float64{{0.5, 0.5}, {9.5, 9.5}}, e.Centroids())
}

func TestStateMutatesOnEveryCall(t *testing.T) {
	e := NewEncoder(2, 1)
	_, err := e.Encode([]float64{0, 10})
	require.NoError(t, err)
	before := e.Centroids()
	_, err = e.Encode([]float64{4, 6})
	require.NoError(t, err)
	assert.NotEqual(t, before, e.Centroids())
}

func TestPartialSeeding(t *testing.T) {
	e := NewEncoder(3, 1)
	ids, err := e.Encode([]float64{5})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, ids)
	ids, err = e.Encode([]float64{7, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 2}, ids)
	assert.Len(t, e.Centroids(), 3)
}

func TestEncodeRejectsPartialBlocks(t *testing.T) {
	_, err := NewEncoder(2, 3).Encode([]float64{1, 2})
	assert.True(t, errors.Is(err, ErrInvalidInputLength))
}

func TestRestore(t *testing.T) {
	e := NewEncoder(2, 2)
	_, err := e.Encode([]float64{0, 0, 10, 10})
	require.NoError(t, err)
	r, err := Restore(2, 2, e.Centroids(), e.Counts())
	require.NoError(t, err)
	a, err := e.Encode([]float64{1, 1, 8, 8})
	require.NoError(t, err)
	b, err := r.Encode([]float64{1, 1, 8, 8})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, e.Centroids(), r.Centroids())

	_, err = Restore(1, 2, [][]float64{{0, 0}, {1, 1}}, []uint64{1, 1})
	assert.True(t, errors.Is(err, ErrInvalidState))
	_, err = Restore(2, 2, [][]float64{{0}}, []uint64{1})
	assert.True(t, errors.Is(err, ErrInvalidState))
}
