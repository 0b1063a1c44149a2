package trainer

import (
	"math"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/neurlang/wisard/datasets"
	"github.com/neurlang/wisard/wisard"
)

// sampleSize calculates the statistically sufficient sample size
// for a given dataset size N and significance level (0–100).
func sampleSize(N int, significance byte) int {
	if significance >= 100 || N <= 1 {
		return N
	}

	// Convert significance level to Z-score
	z := zScoreFromAlpha(100 - significance)

	// Assume worst-case proportion p = 0.5 for max variability
	p := 0.5
	e := float64(100-significance) * 0.01

	numerator := math.Pow(z, 2) * p * (1 - p)
	denominator := math.Pow(e, 2)

	// Initial sample size without population correction
	ss := numerator / denominator

	// Apply finite population correction
	correctedSS := ss * float64(N) / (float64(N) - 1 + ss)

	if int(correctedSS) > N {
		return N
	}
	if correctedSS < 1 {
		return 1
	}

	return int(correctedSS)
}

// zScoreFromAlpha returns the Z-score for a given alpha level
// Common: 90% => 1.645, 95% => 1.96, 99% => 2.576
func zScoreFromAlpha(alpha byte) float64 {
	switch {
	case alpha <= 1:
		return 2.576 // 99% confidence
	case alpha <= 5:
		return 1.96 // 95% confidence
	case alpha <= 10:
		return 1.645 // 90% confidence
	default:
		return 1.96 // default fallback
	}
}

// Report summarizes an evaluation
type Report struct {
	Samples        int
	Correct        int
	Accuracy       float64
	MeanScore      float64
	MeanConfidence float64
}

// Evaluate classifies samples of d and compares with their labels. With a
// significance below 100 only the leading statistically sufficient portion of
// d is used, so shuffle d beforehand. Classification grows the vocabulary of e.
func Evaluate(e *wisard.Ensemble, d datasets.Dataset, significance byte, log *zap.Logger) (Report, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var r Report
	r.Samples = sampleSize(len(d), significance)
	for i, s := range d[:r.Samples] {
		res, err := e.Classify(s.Features)
		if err != nil {
			return Report{}, errors.Wrapf(err, "sample %d", i)
		}
		if res.Label == s.Label {
			r.Correct++
		}
		r.MeanScore += res.Score
		r.MeanConfidence += res.Confidence
		if (i+1)%Progress == 0 {
			log.Info("evaluating", zap.Int("done", i+1), zap.Int("total", r.Samples))
		}
	}
	if r.Samples > 0 {
		r.Accuracy = float64(r.Correct) / float64(r.Samples)
		r.MeanScore /= float64(r.Samples)
		r.MeanConfidence /= float64(r.Samples)
	}
	log.Info("evaluated",
		zap.Int("samples", r.Samples),
		zap.Float64("accuracy", r.Accuracy),
		zap.Float64("mean_score", r.MeanScore),
		zap.Float64("mean_confidence", r.MeanConfidence))
	return r, nil
}
