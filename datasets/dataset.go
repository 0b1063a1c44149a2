// Package datasets implements labelled feature vector datasets
package datasets

import "math/rand"

// Sample is one feature vector and its class label
type Sample struct {
	Features []float64
	Label    string
}

// Dataset is an ordered collection of samples
type Dataset []Sample

// Len is the number of samples
func (d Dataset) Len() int {
	return len(d)
}

// Shuffle shuffles the dataset in place
func (d Dataset) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d), func(i, j int) { d[i], d[j] = d[j], d[i] })
}

// Split splits the dataset into a head holding ratio of the samples and the rest.
// The halves share the backing array with d.
func (d Dataset) Split(ratio float64) (head, tail Dataset) {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	n := int(ratio * float64(len(d)))
	return d[:n:n], d[n:]
}

// Labels returns the distinct labels in the order they first appear
func (d Dataset) Labels() (o []string) {
	seen := make(map[string]struct{})
	for _, s := range d {
		if _, ok := seen[s.Label]; !ok {
			seen[s.Label] = struct{}{}
			o = append(o, s.Label)
		}
	}
	return
}

// Width reports the common feature count, or -1 if samples differ
func (d Dataset) Width() int {
	if len(d) == 0 {
		return 0
	}
	w := len(d[0].Features)
	for _, s := range d[1:] {
		if len(s.Features) != w {
			return -1
		}
	}
	return w
}
