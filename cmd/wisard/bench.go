package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/cpuid/v2"
	"github.com/spf13/cobra"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure training and classification throughput on random data",
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, _ := cmd.Flags().GetInt("samples")
		labels, _ := cmd.Flags().GetInt("labels")
		if samples < 0 {
			return errors.WithHint(errors.Newf("--samples=%d is negative", samples), "pass 0 or more samples")
		}
		if labels < 1 {
			labels = 1
		}

		e, err := cfg.NewEnsemble(log)
		if err != nil {
			return err
		}
		rng := rand.New(rand.NewSource(1))
		data := make([][]float64, samples)
		for i := range data {
			data[i] = make([]float64, e.InputLength())
			for j := range data[i] {
				data[i][j] = rng.Float64()
			}
		}

		start := time.Now()
		for i, v := range data {
			if err := e.Train(v, fmt.Sprint(i%labels)); err != nil {
				return err
			}
		}
		trained := time.Since(start)

		start = time.Now()
		for _, v := range data {
			if _, err := e.Classify(v); err != nil {
				return err
			}
		}
		classified := time.Since(start)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "cpu: %s (%d physical cores, avx2=%t avx512=%t)\n",
			cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores,
			cpuid.CPU.Supports(cpuid.AVX2), cpuid.CPU.Supports(cpuid.AVX512F))
		fmt.Fprintf(out, "model: tables=%d block_size=%d encoder=%s\n", e.Tables(), e.BlockSize(), e.Encoder())
		fmt.Fprintf(out, "train: %d samples in %v (%.0f/s)\n", samples, trained, float64(samples)/trained.Seconds())
		fmt.Fprintf(out, "classify: %d samples in %v (%.0f/s)\n", samples, classified, float64(samples)/classified.Seconds())
		fmt.Fprintf(out, "vocabulary: %d signatures\n", e.VocabularySize())
		return nil
	},
}

func init() {
	modelFlags(benchCmd)
	benchCmd.Flags().Int("samples", 1000, "number of random samples")
	benchCmd.Flags().Int("labels", 10, "number of labels")
}
