package store

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/wisard/wisard"
)

func trained(t *testing.T, opts ...wisard.Option) *wisard.Ensemble {
	t.Helper()
	e, err := wisard.New(4, 4, append([]wisard.Option{wisard.WithSeed(3)}, opts...)...)
	require.NoError(t, err)
	for i := 0; i < 30; i++ {
		v := make([]float64, e.InputLength())
		for j := range v {
			v[j] = float64((i*31 + j*17) % 23)
		}
		require.NoError(t, e.Train(v, fmt.Sprint("c", i%4)))
	}
	return e
}

func probes(n int) [][]float64 {
	out := make([][]float64, 10)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = float64((i*13 + j*7) % 19)
		}
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []Codec{CodecZstd, CodecLZ4, CodecNone} {
		t.Run(string(c), func(t *testing.T) {
			e := trained(t)
			dir := filepath.Join(t.TempDir(), "model", "nested")
			require.NoError(t, Save(dir, e, WithCodec(c)))
			assert.FileExists(t, filepath.Join(dir, ModelFile+c.extension()))
			assert.FileExists(t, filepath.Join(dir, MappingFile+c.extension()))
			assert.True(t, Exists(dir))

			r, err := Load(dir)
			require.NoError(t, err)
			assert.Equal(t, e.Snapshot(), r.Snapshot())
			for _, p := range probes(e.InputLength()) {
				a, err := e.Classify(p)
				require.NoError(t, err)
				b, err := r.Classify(p)
				require.NoError(t, err)
				assert.Equal(t, a, b)
			}
		})
	}
}

func TestRoundTripKMeans(t *testing.T) {
	e := trained(t, wisard.WithEncoder(wisard.EncoderKMeans))
	dir := t.TempDir()
	require.NoError(t, Save(dir, e))
	r, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, wisard.EncoderKMeans, r.Encoder())
	p := probes(e.InputLength())[0]
	a, err := e.Classify(p)
	require.NoError(t, err)
	b, err := r.Classify(p)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSaveReplacesOtherCodec(t *testing.T) {
	e := trained(t)
	dir := t.TempDir()
	require.NoError(t, Save(dir, e, WithCodec(CodecNone)))
	require.NoError(t, Save(dir, e, WithCodec(CodecLZ4)))
	assert.NoFileExists(t, filepath.Join(dir, ModelFile))
	assert.NoFileExists(t, filepath.Join(dir, MappingFile))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent"))
	assert.True(t, errors.Is(err, ErrPathNotFound), "%v", err)
	assert.False(t, Exists(filepath.Join(t.TempDir(), "absent")))
}

func TestLoadMissingArtifact(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, trained(t)))
	require.NoError(t, os.Remove(filepath.Join(dir, MappingFile+CodecZstd.extension())))
	_, err := Load(dir)
	assert.True(t, errors.Is(err, ErrPathNotFound), "%v", err)
}

func TestLoadCorruptArtifact(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, trained(t), WithCodec(CodecNone)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ModelFile), []byte(`{"tables": 4,`), 0o644))
	_, err := Load(dir)
	assert.True(t, errors.Is(err, wisard.ErrCorruptModel), "%v", err)
}

func TestLoadTrailingData(t *testing.T) {
	for _, c := range codecs {
		t.Run(string(c), func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, Save(dir, trained(t), WithCodec(c)))

			f, err := os.Create(filepath.Join(dir, ModelFile+c.extension()))
			require.NoError(t, err)
			w, err := c.writer(f)
			require.NoError(t, err)
			_, err = w.Write([]byte(`{"tables": 4} {}`))
			require.NoError(t, err)
			require.NoError(t, w.Close())
			require.NoError(t, f.Close())

			_, err = Load(dir)
			assert.True(t, errors.Is(err, wisard.ErrCorruptModel), "%v", err)
			assert.Contains(t, err.Error(), "trailing data")
		})
	}
}

func TestLoadFileInsteadOfDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrPathNotFound), "%v", err)
}

func TestParseCodec(t *testing.T) {
	c, err := ParseCodec("")
	require.NoError(t, err)
	assert.Equal(t, CodecZstd, c)
	c, err = ParseCodec("lz4")
	require.NoError(t, err)
	assert.Equal(t, CodecLZ4, c)
	_, err = ParseCodec("gzip")
	assert.True(t, errors.Is(err, ErrUnknownCodec))
	assert.True(t, errors.Is(Save(t.TempDir(), trained(t), WithCodec("bz2")), ErrUnknownCodec))
}
