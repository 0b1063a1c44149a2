package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/wisard/datasets/mnist"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(args...)
	require.NoError(t, err, "wisard %v", args)
	return out
}

// execute runs the command line and restores every flag to its default
// afterwards, flags of the shared command tree would leak into later runs
func execute(args ...string) (string, error) {
	defer resetFlags(rootCmd)
	var out, stderr bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestTrainClassifyInspect(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "ramps.csv")
	model := filepath.Join(dir, "model")
	require.NoError(t, os.WriteFile(data, []byte(`a,b,c,d,label
1,2,3,4,up
4,3,2,1,down
10,20,30,40,up
8,6,4,2,down
`), 0o644))

	run(t, "train", "--data", data, "--model", model, "--tables", "2", "--block-size", "2", "--seed", "1", "--codec", "lz4", "--log-level", "error")
	assert.FileExists(t, filepath.Join(model, "discriminators.json.lz4"))

	out := run(t, "classify", "--data", data, "--model", model, "--evaluate", "--log-level", "error")
	assert.Contains(t, out, "samples=4 correct=4 accuracy=1.0000")

	out = run(t, "inspect", "--model", model, "--log-level", "error")
	assert.Contains(t, out, "tables=2 block_size=2 encoder=ranks")
	assert.Contains(t, out, "up\t2\n")
	assert.Contains(t, out, "down\t2\n")

	out = run(t, "inspect", "--model", model, "--label", "up", "--log-level", "error")
	assert.Contains(t, out, "table 0:")
	assert.Contains(t, out, "table 1:")
}

func TestBench(t *testing.T) {
	out := run(t, "bench", "--samples", "20", "--tables", "4", "--block-size", "4", "--log-level", "error")
	assert.Contains(t, out, "train: 20 samples")
	assert.Contains(t, out, "cpu:")
}

func TestBenchNegativeSamples(t *testing.T) {
	_, err := execute("bench", "--samples", "-1", "--tables", "2", "--block-size", "2", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--samples=-1")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "wisard.toml")
	require.NoError(t, os.WriteFile(conf, []byte(`
[model]
tables = 3
block_size = 2

[log]
level = "error"
`), 0o644))

	out := run(t, "bench", "--config", conf, "--samples", "5")
	assert.Contains(t, out, "model: tables=3 block_size=2 encoder=ranks")

	// flags win over the file
	out = run(t, "bench", "--config", conf, "--samples", "5", "--tables", "2")
	assert.Contains(t, out, "model: tables=2 block_size=2")

	_, err := execute("bench", "--config", filepath.Join(dir, "absent.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestMnistMissingDataset(t *testing.T) {
	_, err := execute("mnist", "--dir", t.TempDir(), "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mnist dataset not found")
}

func TestMnistChecksum(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"train-images-idx3-ubyte.gz",
		"train-labels-idx1-ubyte.gz",
		"t10k-images-idx3-ubyte.gz",
		"t10k-labels-idx1-ubyte.gz",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("not the published file"), 0o644))
	}
	_, err := execute("mnist", "--dir", dir, "--model", filepath.Join(dir, "model"), "--log-level", "error")
	assert.True(t, errors.Is(err, mnist.ErrChecksum), "%v", err)
	assert.NoDirExists(t, filepath.Join(dir, "model"))
}
