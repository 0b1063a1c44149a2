package trainer

import (
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/neurlang/wisard/datasets"
	"github.com/neurlang/wisard/wisard"
)

// Progress controls how often Fit and Evaluate log
const Progress = 10000

// Fit trains every sample of d into e, in dataset order
func Fit(e *wisard.Ensemble, d datasets.Dataset, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()
	for i, s := range d {
		if err := e.Train(s.Features, s.Label); err != nil {
			return errors.Wrapf(err, "sample %d", i)
		}
		if (i+1)%Progress == 0 {
			log.Info("training",
				zap.Int("done", i+1),
				zap.Int("total", len(d)),
				zap.Int("vocabulary", e.VocabularySize()))
		}
	}
	log.Info("trained",
		zap.Int("samples", len(d)),
		zap.Strings("labels", e.Labels()),
		zap.Int("vocabulary", e.VocabularySize()),
		zap.Duration("took", time.Since(start)))
	return nil
}
