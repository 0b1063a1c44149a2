// Package store saves and loads ensembles. A model directory holds two
// artifacts: the discriminators (with the vocabulary and encoder state they
// depend on) and the feature mapping.
package store

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/neurlang/wisard/mapping"
	"github.com/neurlang/wisard/wisard"
)

const (
	// ModelFile is the base name of the discriminators artifact
	ModelFile = "discriminators.json"

	// MappingFile is the base name of the mapping artifact
	MappingFile = "mapping.json"
)

// ErrPathNotFound reports a model directory or artifact that does not exist
var ErrPathNotFound = errors.New("path not found")

// Option configures Save
type Option func(*saveOptions)

type saveOptions struct {
	codec Codec
}

// WithCodec selects the compression of saved artifacts
func WithCodec(c Codec) Option {
	return func(o *saveOptions) {
		o.codec = c
	}
}

// Save writes the ensemble into dir, creating it if absent. Artifacts saved
// earlier with another codec are removed so Load finds only this save.
func Save(dir string, e *wisard.Ensemble, opts ...Option) error {
	o := saveOptions{codec: CodecZstd}
	for _, opt := range opts {
		opt(&o)
	}
	if _, err := ParseCodec(string(o.codec)); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create model directory %s", dir)
	}
	s := e.Snapshot()
	if err := writeArtifact(dir, ModelFile, o.codec, s.Model); err != nil {
		return err
	}
	if err := writeArtifact(dir, MappingFile, o.codec, []int(s.Mapping)); err != nil {
		return err
	}
	for _, c := range codecs {
		if c == o.codec {
			continue
		}
		for _, name := range []string{ModelFile, MappingFile} {
			if err := os.Remove(filepath.Join(dir, name+c.extension())); err != nil && !os.IsNotExist(err) {
				return errors.Wrap(err, "remove stale artifact")
			}
		}
	}
	return nil
}

// Load reads an ensemble saved by Save. Options are passed to the restored ensemble.
func Load(dir string, opts ...wisard.Option) (*wisard.Ensemble, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrPathNotFound, "model directory %s", dir)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Wrapf(ErrPathNotFound, "%s is not a directory", dir)
	}

	var s wisard.Snapshot
	if err := readArtifact(dir, ModelFile, &s.Model); err != nil {
		return nil, err
	}
	var m []int
	if err := readArtifact(dir, MappingFile, &m); err != nil {
		return nil, err
	}
	s.Mapping = mapping.Mapping(m)
	return wisard.Restore(s, opts...)
}

// Exists reports whether dir holds a saved model
func Exists(dir string) bool {
	_, _, err := findArtifact(dir, ModelFile)
	return err == nil
}

func writeArtifact(dir, name string, c Codec, v any) (err error) {
	tmp, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create %s", name)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	cw, err := c.writer(tmp)
	if err != nil {
		return err
	}
	if err = json.NewEncoder(cw).Encode(v); err != nil {
		return errors.Wrapf(err, "encode %s", name)
	}
	if err = cw.Close(); err != nil {
		return errors.Wrapf(err, "compress %s", name)
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrapf(err, "sync %s", name)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", name)
	}
	if err = os.Rename(tmp.Name(), filepath.Join(dir, name+c.extension())); err != nil {
		return errors.Wrapf(err, "rename %s", name)
	}
	return nil
}

func findArtifact(dir, name string) (string, Codec, error) {
	for _, c := range codecs {
		path := filepath.Join(dir, name+c.extension())
		if _, err := os.Stat(path); err == nil {
			return path, c, nil
		}
	}
	return "", "", errors.Wrapf(ErrPathNotFound, "%s in %s", name, dir)
}

func readArtifact(dir, name string, v any) error {
	path, c, err := findArtifact(dir, name)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	r, err := c.reader(f)
	if err != nil {
		return errors.Wrapf(err, "decompress %s", path)
	}
	defer r.Close()
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return errors.Mark(errors.Wrapf(err, "decode %s", path), wisard.ErrCorruptModel)
	}
	// trailing data means the artifact was not written by Save
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.Wrapf(wisard.ErrCorruptModel, "trailing data in %s", path)
	}
	return nil
}
