// Package cluster implements an experimental block encoder backed by online
// mini-batch k-means.
//
// Every call to Encode both updates the centroids and assigns cluster ids, on
// classification as well as on training. Centroids therefore drift and the
// id of a given block is not stable across calls. Use the rank encoder where
// reproducible addresses matter.
package cluster

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidInputLength reports a vector that does not split into whole blocks
	ErrInvalidInputLength = errors.New("invalid input length")

	// ErrInvalidState reports centroids or counts that do not fit the encoder geometry
	ErrInvalidState = errors.New("invalid cluster state")
)

// Encoder is an online k-means model over blocks of dim values
type Encoder struct {
	k         int
	dim       int
	centroids [][]float64
	counts    []uint64
}

// NewEncoder creates a model with k clusters over points of dim values
func NewEncoder(k, dim int) *Encoder {
	return &Encoder{k: k, dim: dim}
}

// Restore rebuilds a model from saved centroids and their update counts
func Restore(k, dim int, centroids [][]float64, counts []uint64) (*Encoder, error) {
	if len(centroids) > k || len(centroids) != len(counts) {
		return nil, errors.Wrapf(ErrInvalidState, "%d centroids, %d counts, k=%d", len(centroids), len(counts), k)
	}
	e := NewEncoder(k, dim)
	for i, c := range centroids {
		if len(c) != dim {
			return nil, errors.Wrapf(ErrInvalidState, "centroid %d has %d values, want %d", i, len(c), dim)
		}
		e.centroids = append(e.centroids, append([]float64(nil), c...))
	}
	e.counts = append([]uint64(nil), counts...)
	return e, nil
}

// K is the number of clusters
func (e *Encoder) K() int {
	return e.k
}

// Dim is the number of values per block
func (e *Encoder) Dim() int {
	return e.dim
}

// Centroids returns a copy of the seeded centroids
func (e *Encoder) Centroids() [][]float64 {
	out := make([][]float64, len(e.centroids))
	for i, c := range e.centroids {
		out[i] = append([]float64(nil), c...)
	}
	return out
}

// Counts returns how many points each centroid has absorbed
func (e *Encoder) Counts() []uint64 {
	return append([]uint64(nil), e.counts...)
}

// Encode fits the model on the blocks of permuted and returns the cluster id of every block
func (e *Encoder) Encode(permuted []float64) ([]uint32, error) {
	if e.dim <= 0 || e.k <= 0 || len(permuted)%e.dim != 0 {
		return nil, errors.Wrapf(ErrInvalidInputLength, "%d features do not split into blocks of %d", len(permuted), e.dim)
	}
	n := len(permuted) / e.dim
	labels := make([]uint32, n)
	assigned := make([]bool, n)

	// seeding: the first points ever seen become centroids
	for i := 0; i < n && len(e.centroids) < e.k; i++ {
		labels[i] = uint32(len(e.centroids))
		assigned[i] = true
		e.centroids = append(e.centroids, append([]float64(nil), e.block(permuted, i)...))
		e.counts = append(e.counts, 1)
	}

	// assignment uses the centroids as they are before this batch moves them
	for i := 0; i < n; i++ {
		if !assigned[i] {
			labels[i] = e.nearest(e.block(permuted, i))
		}
	}

	// mini-batch update with per centroid learning rate 1/count
	for i := 0; i < n; i++ {
		if assigned[i] {
			continue
		}
		c := labels[i]
		e.counts[c]++
		eta := 1 / float64(e.counts[c])
		for d, v := range e.block(permuted, i) {
			e.centroids[c][d] += eta * (v - e.centroids[c][d])
		}
	}
	return labels, nil
}

func (e *Encoder) block(permuted []float64, i int) []float64 {
	return permuted[i*e.dim : (i+1)*e.dim]
}

// nearest returns the closest centroid by squared euclidean distance, ties to the lowest index
func (e *Encoder) nearest(point []float64) (best uint32) {
	var bestDist float64
	for c, centroid := range e.centroids {
		var dist float64
		for d, v := range point {
			diff := v - centroid[d]
			dist += diff * diff
		}
		if c == 0 || dist < bestDist {
			best, bestDist = uint32(c), dist
		}
	}
	return
}
