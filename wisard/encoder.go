package wisard

import (
	"github.com/cockroachdb/errors"

	"github.com/neurlang/wisard/cluster"
	"github.com/neurlang/wisard/rank"
)

// Encoder turns a permuted feature vector into one address per table.
// Implementations may keep state which changes on every call.
type Encoder interface {
	Encode(permuted []float64) ([]uint32, error)
}

// EncoderKind selects how blocks are turned into addresses
type EncoderKind string

const (
	// EncoderRanks encodes each block by the relative ordering of its values
	EncoderRanks EncoderKind = "ranks"

	// EncoderKMeans encodes each block by its nearest online k-means cluster.
	// The model refits on every call, so addresses are not stable. Experimental.
	EncoderKMeans EncoderKind = "kmeans"
)

// ParseEncoderKind validates an encoder name
func ParseEncoderKind(s string) (EncoderKind, error) {
	switch k := EncoderKind(s); k {
	case EncoderRanks, EncoderKMeans:
		return k, nil
	}
	return "", errors.Wrapf(ErrInvalidConfig, "unknown encoder %q", s)
}

func newEncoder(kind EncoderKind, tables, blockSize int, ranks *rank.Table) (Encoder, error) {
	switch kind {
	case EncoderRanks:
		return rank.NewEncoder(ranks, blockSize), nil
	case EncoderKMeans:
		return cluster.NewEncoder(tables, blockSize), nil
	}
	return nil, errors.Wrapf(ErrInvalidConfig, "unknown encoder %q", kind)
}
