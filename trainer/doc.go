// Package trainer provides high-level training orchestration for WiSARD ensembles.
// It feeds datasets through an ensemble, evaluates accuracy on a statistically
// sufficient sample and resumes training from saved models.
package trainer
