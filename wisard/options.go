package wisard

import (
	"go.uber.org/zap"

	"github.com/neurlang/wisard/mapping"
)

// Option configures an Ensemble
type Option func(*options)

type options struct {
	mapping mapping.Mapping
	seed    *uint32
	encoder EncoderKind
	log     *zap.Logger
}

// WithMapping supplies the feature permutation instead of drawing a random one
func WithMapping(m mapping.Mapping) Option {
	return func(o *options) {
		o.mapping = m.Clone()
	}
}

// WithSeed draws the feature permutation reproducibly from seed
func WithSeed(seed uint32) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithEncoder selects the block encoder
func WithEncoder(kind EncoderKind) Option {
	return func(o *options) {
		o.encoder = kind
	}
}

// WithLogger sets the logger, nil means no logging
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func buildOptions(opts []Option) options {
	o := options{encoder: EncoderRanks}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}
