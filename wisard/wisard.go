// Package wisard implements a WiSARD weightless neural network classifier.
//
// Each label owns a discriminator with one RAM per block of the permuted input.
// Training memorizes the block addresses of a sample, classification counts in
// how many RAMs each label recognizes the addresses of the input.
//
// Memory is not bounded: the rank vocabulary and the RAMs grow with every
// previously unseen pattern, and classification grows the vocabulary too.
package wisard

import (
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/neurlang/wisard/cluster"
	"github.com/neurlang/wisard/discriminator"
	"github.com/neurlang/wisard/mapping"
	"github.com/neurlang/wisard/rank"
)

var (
	// ErrInvalidInputLength reports a feature vector of the wrong length
	ErrInvalidInputLength = mapping.ErrInvalidInputLength

	// ErrUnknownLabel reports a label that was never trained
	ErrUnknownLabel = errors.New("unknown label")

	// ErrNoLabels reports classification before any training
	ErrNoLabels = errors.New("no labels trained")

	// ErrInvalidConfig reports unusable construction parameters
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Ensemble is a WiSARD classifier. It is safe for concurrent use; calls are serialized.
type Ensemble struct {
	mu sync.Mutex

	tables    int
	blockSize int
	mapping   mapping.Mapping
	kind      EncoderKind
	ranks     *rank.Table
	encoder   Encoder

	// labels in the order they were first trained, used for tie-breaking
	labels []string
	discs  map[string]*discriminator.Discriminator

	log *zap.Logger
}

// New creates an untrained ensemble of tables RAMs per label, each addressed
// by a block of blockSize features.
func New(tables, blockSize int, opts ...Option) (*Ensemble, error) {
	if tables <= 0 || blockSize <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "tables=%d block size=%d must be positive", tables, blockSize)
	}
	if blockSize > 1<<16 {
		return nil, errors.Wrapf(ErrInvalidConfig, "block size %d is too large", blockSize)
	}
	o := buildOptions(opts)
	n := tables * blockSize

	m := o.mapping
	switch {
	case m != nil:
		if m.Len() != n {
			return nil, errors.Wrapf(ErrInvalidConfig, "mapping has %d indices, want %d", m.Len(), n)
		}
		if err := m.Validate(); err != nil {
			return nil, errors.Wrap(err, "supplied mapping")
		}
	case o.seed != nil:
		m = mapping.Shuffled(n, *o.seed)
	default:
		m = mapping.Random(n)
	}

	ranks := rank.NewTable()
	enc, err := newEncoder(o.encoder, tables, blockSize, ranks)
	if err != nil {
		return nil, err
	}
	return &Ensemble{
		tables:    tables,
		blockSize: blockSize,
		mapping:   m,
		kind:      o.encoder,
		ranks:     ranks,
		encoder:   enc,
		discs:     make(map[string]*discriminator.Discriminator),
		log:       o.log,
	}, nil
}

// Tables is the number of RAMs per discriminator
func (e *Ensemble) Tables() int {
	return e.tables
}

// BlockSize is the number of features addressing one RAM
func (e *Ensemble) BlockSize() int {
	return e.blockSize
}

// InputLength is the required feature vector length
func (e *Ensemble) InputLength() int {
	return e.tables * e.blockSize
}

// Encoder reports which block encoder is in use
func (e *Ensemble) Encoder() EncoderKind {
	return e.kind
}

// Mapping returns a copy of the feature permutation
func (e *Ensemble) Mapping() mapping.Mapping {
	return e.mapping.Clone()
}

// VocabularySize is the number of distinct block orderings seen so far
func (e *Ensemble) VocabularySize() int {
	return e.ranks.Len()
}

// Labels returns the trained labels in the order they were first trained
func (e *Ensemble) Labels() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.labels)
}

// TimesTrained returns how many samples were trained for label
func (e *Ensemble) TimesTrained(label string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, ok := e.discs[label]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownLabel, "%q", label)
	}
	return d.TimesTrained(), nil
}

// addresses permutes and encodes vector. The caller holds e.mu.
func (e *Ensemble) addresses(vector []float64) ([]uint32, error) {
	permuted, err := e.mapping.Apply(vector)
	if err != nil {
		return nil, err
	}
	return e.encode(permuted)
}

// encode turns a permuted vector into one address per table. The caller holds e.mu.
func (e *Ensemble) encode(permuted []float64) ([]uint32, error) {
	before := e.ranks.Len()
	addrs, err := e.encoder.Encode(permuted)
	if err != nil {
		return nil, errors.Wrap(err, "encode")
	}
	if len(addrs) != e.tables {
		return nil, errors.AssertionFailedf("encoder returned %d addresses for %d tables", len(addrs), e.tables)
	}
	if grown := e.ranks.Len() - before; grown > 0 {
		e.log.Debug("vocabulary grew", zap.Int("new", grown), zap.Int("size", e.ranks.Len()))
	}
	return addrs, nil
}

// Train memorizes vector as an example of label
func (e *Ensemble) Train(vector []float64, label string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// encoding must succeed before any discriminator changes
	addrs, err := e.addresses(vector)
	if err != nil {
		return errors.Wrapf(err, "train %q", label)
	}
	d, ok := e.discs[label]
	if !ok {
		d = discriminator.New(e.tables)
		e.discs[label] = d
		e.labels = append(e.labels, label)
		e.log.Debug("new label", zap.String("label", label), zap.Int("labels", len(e.labels)))
	}
	d.Train(addrs)
	return nil
}

// Vote is the result of one discriminator for one input
type Vote struct {
	Label        string
	Votes        int
	TimesTrained uint64
}

// Result is the outcome of a classification
type Result struct {
	// Label with the most votes, ties go to the label trained first
	Label string

	// Score is the fraction of RAMs voting for Label
	Score float64

	// Confidence is the gap between the two best vote counts relative to the best
	Confidence float64

	// Votes per label, in the order labels were first trained
	Votes []Vote
}

// Classify returns the label whose discriminator recognizes vector best
func (e *Ensemble) Classify(vector []float64) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// a malformed input is reported even when nothing was trained
	permuted, err := e.mapping.Apply(vector)
	if err != nil {
		return Result{}, errors.Wrap(err, "classify")
	}
	if len(e.labels) == 0 {
		return Result{}, ErrNoLabels
	}
	addrs, err := e.encode(permuted)
	if err != nil {
		return Result{}, errors.Wrap(err, "classify")
	}

	var res = Result{Votes: make([]Vote, len(e.labels))}
	var best = -1
	for i, label := range e.labels {
		votes, trained := e.discs[label].Classify(addrs)
		res.Votes[i] = Vote{Label: label, Votes: votes, TimesTrained: trained}
		// strict comparison keeps the earliest label on ties
		if votes > best {
			best = votes
			res.Label = label
		}
	}

	counts := make([]int, len(res.Votes))
	for i, v := range res.Votes {
		counts[i] = v.Votes
	}
	slices.Sort(counts)
	top := counts[len(counts)-1]
	second := 0
	if len(counts) > 1 {
		second = counts[len(counts)-2]
	}

	res.Score = float64(top) / float64(e.tables)
	if top > 0 {
		res.Confidence = float64(top-second) / float64(top)
	}
	return res, nil
}

// MentalAddresses returns the memorized addresses of label, one list per RAM
func (e *Ensemble) MentalAddresses(label string) ([][]discriminator.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, ok := e.discs[label]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownLabel, "%q", label)
	}
	return d.MentalImage(), nil
}

// clusterEncoder returns the k-means encoder when one is in use
func (e *Ensemble) clusterEncoder() *cluster.Encoder {
	c, _ := e.encoder.(*cluster.Encoder)
	return c
}
