package wisard

import (
	"github.com/cockroachdb/errors"

	"github.com/neurlang/wisard/cluster"
	"github.com/neurlang/wisard/discriminator"
	"github.com/neurlang/wisard/mapping"
	"github.com/neurlang/wisard/rank"
)

// ErrCorruptModel reports a snapshot that does not describe a consistent ensemble
var ErrCorruptModel = errors.New("corrupt model")

// Snapshot is the complete state of an ensemble, split into the two parts
// that are persisted separately.
type Snapshot struct {
	Model   Model
	Mapping mapping.Mapping
}

// Model is everything except the mapping
type Model struct {
	Tables         int                  `json:"tables"`
	BlockSize      int                  `json:"block_size"`
	Encoder        EncoderKind          `json:"encoder"`
	Vocabulary     []rank.Signature     `json:"vocabulary"`
	Clusters       *ClusterState        `json:"clusters,omitempty"`
	Discriminators []DiscriminatorState `json:"discriminators"`
}

// ClusterState is the k-means encoder state
type ClusterState struct {
	Centroids [][]float64 `json:"centroids"`
	Counts    []uint64    `json:"counts"`
}

// DiscriminatorState is one label's memory
type DiscriminatorState struct {
	Label        string                  `json:"label"`
	TimesTrained uint64                  `json:"times_trained"`
	RAMs         [][]discriminator.Entry `json:"rams"`
}

// Snapshot copies the state of the ensemble
func (e *Ensemble) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		Mapping: e.mapping.Clone(),
		Model: Model{
			Tables:         e.tables,
			BlockSize:      e.blockSize,
			Encoder:        e.kind,
			Vocabulary:     e.ranks.Signatures(),
			Discriminators: make([]DiscriminatorState, 0, len(e.labels)),
		},
	}
	if c := e.clusterEncoder(); c != nil {
		s.Model.Clusters = &ClusterState{Centroids: c.Centroids(), Counts: c.Counts()}
	}
	for _, label := range e.labels {
		d := e.discs[label]
		s.Model.Discriminators = append(s.Model.Discriminators, DiscriminatorState{
			Label:        label,
			TimesTrained: d.TimesTrained(),
			RAMs:         d.MentalImage(),
		})
	}
	return s
}

// Restore builds an ensemble from a snapshot. Options other than the logger
// are ignored, the snapshot determines mapping and encoder.
func Restore(s Snapshot, opts ...Option) (*Ensemble, error) {
	m := s.Model
	if s.Mapping == nil {
		return nil, errors.Wrap(ErrCorruptModel, "missing mapping")
	}
	e, err := New(m.Tables, m.BlockSize, append(opts, WithMapping(s.Mapping), WithEncoder(m.Encoder))...)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "restore"), ErrCorruptModel)
	}

	ranks, err := rank.FromSignatures(m.Vocabulary)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "restore vocabulary"), ErrCorruptModel)
	}
	e.ranks = ranks
	// addresses are rank ids or cluster indices
	var bound = uint32(len(m.Vocabulary))
	switch m.Encoder {
	case EncoderKMeans:
		bound = uint32(m.Tables)
		var centroids [][]float64
		var counts []uint64
		if m.Clusters != nil {
			centroids, counts = m.Clusters.Centroids, m.Clusters.Counts
		}
		c, err := cluster.Restore(m.Tables, m.BlockSize, centroids, counts)
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "restore clusters"), ErrCorruptModel)
		}
		e.encoder = c
	default:
		for i, sig := range m.Vocabulary {
			if err := sig.Validate(m.BlockSize); err != nil {
				return nil, errors.Mark(errors.Wrapf(err, "restore vocabulary entry %d", i), ErrCorruptModel)
			}
		}
		e.encoder = rank.NewEncoder(ranks, m.BlockSize)
	}

	for _, ds := range m.Discriminators {
		if _, dup := e.discs[ds.Label]; dup {
			return nil, errors.Wrapf(ErrCorruptModel, "label %q stored twice", ds.Label)
		}
		if len(ds.RAMs) != m.Tables {
			return nil, errors.Wrapf(ErrCorruptModel, "label %q has %d rams, want %d", ds.Label, len(ds.RAMs), m.Tables)
		}
		for n, ram := range ds.RAMs {
			for _, entry := range ram {
				if entry.Address >= bound {
					return nil, errors.Wrapf(ErrCorruptModel, "label %q table %d address %d out of range %d", ds.Label, n, entry.Address, bound)
				}
			}
		}
		d, err := discriminator.FromMentalImage(ds.RAMs, ds.TimesTrained)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "restore label %q", ds.Label), ErrCorruptModel)
		}
		e.discs[ds.Label] = d
		e.labels = append(e.labels, ds.Label)
	}
	return e, nil
}
