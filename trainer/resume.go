package trainer

import (
	"go.uber.org/zap"

	"github.com/neurlang/wisard/store"
	"github.com/neurlang/wisard/wisard"
)

// Resume loads the model saved in dir when resume is set and a model exists,
// otherwise it builds a fresh ensemble with fresh.
func Resume(resume bool, dir string, fresh func() (*wisard.Ensemble, error), log *zap.Logger) (*wisard.Ensemble, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if resume && dir != "" && store.Exists(dir) {
		e, err := store.Load(dir, wisard.WithLogger(log))
		if err != nil {
			return nil, err
		}
		log.Info("resumed", zap.String("model", dir), zap.Strings("labels", e.Labels()))
		return e, nil
	}
	return fresh()
}
