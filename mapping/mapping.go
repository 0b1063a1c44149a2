// Package mapping implements the fixed feature permutation applied to every input vector before encoding
package mapping

import (
	crypto_rand "crypto/rand"
	"encoding/binary"

	"github.com/cockroachdb/errors"

	"github.com/neurlang/wisard/hash"
)

var (
	// ErrInvalidInputLength reports a feature vector whose length does not match the mapping
	ErrInvalidInputLength = errors.New("invalid input length")

	// ErrNotPermutation reports a mapping which is not a bijection over its indices
	ErrNotPermutation = errors.New("mapping is not a permutation")
)

// Mapping is a permutation of feature indices. Position i of the permuted
// vector takes the feature at index Mapping[i].
type Mapping []int

// Identity returns the mapping which leaves a vector of length n unchanged
func Identity(n int) Mapping {
	m := make(Mapping, n)
	for i := range m {
		m[i] = i
	}
	return m
}

// Shuffled returns a permutation of n indices, reproducible from seed
func Shuffled(n int, seed uint32) Mapping {
	m := Identity(n)
	s := hash.NewStream(seed)
	for i := n - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		m[i], m[j] = m[j], m[i]
	}
	return m
}

// Random returns a permutation of n indices seeded from the system's true rng
func Random(n int) Mapping {
	return Shuffled(n, Seed())
}

// Seed reads a fresh seed from the system's true rng
func Seed() uint32 {
	var b [4]byte
	if _, err := crypto_rand.Read(b[:]); err != nil {
		panic(err.Error())
	}
	return binary.LittleEndian.Uint32(b[:])
}

// Len is the number of features the mapping permutes
func (m Mapping) Len() int {
	return len(m)
}

// Validate reports whether m is a permutation of 0 to len(m)-1
func (m Mapping) Validate() error {
	seen := make([]bool, len(m))
	for i, v := range m {
		if v < 0 || v >= len(m) {
			return errors.Wrapf(ErrNotPermutation, "index %d maps to %d, out of range [0, %d)", i, v, len(m))
		}
		if seen[v] {
			return errors.Wrapf(ErrNotPermutation, "index %d repeats target %d", i, v)
		}
		seen[v] = true
	}
	return nil
}

// Clone returns a copy of m
func (m Mapping) Clone() Mapping {
	return append(Mapping(nil), m...)
}

// Apply permutes vector into a new slice. The input is not modified.
func (m Mapping) Apply(vector []float64) ([]float64, error) {
	if len(vector) != len(m) {
		return nil, errors.Wrapf(ErrInvalidInputLength, "got %d features, want %d", len(vector), len(m))
	}
	out := make([]float64, len(m))
	for i, v := range m {
		out[i] = vector[v]
	}
	return out, nil
}
