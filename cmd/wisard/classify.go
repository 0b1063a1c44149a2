package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neurlang/wisard/datasets"
	"github.com/neurlang/wisard/store"
	"github.com/neurlang/wisard/trainer"
	"github.com/neurlang/wisard/wisard"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a CSV dataset with a saved model",
	Long: `Classify prints the winning label, score and confidence of every record.
With --evaluate it instead compares predictions with the label column and prints
accuracy over a statistically sufficient sample.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, _ := cmd.Flags().GetString("data")
		labelColumn, _ := cmd.Flags().GetInt("label-column")
		evaluate, _ := cmd.Flags().GetBool("evaluate")
		significance, _ := cmd.Flags().GetUint8("significance")

		e, err := store.Load(cfg.Store.Dir, wisard.WithLogger(log))
		if err != nil {
			return err
		}
		d, err := datasets.ReadCSVFile(data, labelColumn)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if evaluate {
			r, err := trainer.Evaluate(e, d, significance, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "samples=%d correct=%d accuracy=%.4f score=%.4f confidence=%.4f\n",
				r.Samples, r.Correct, r.Accuracy, r.MeanScore, r.MeanConfidence)
			return nil
		}
		for i, s := range d {
			res, err := e.Classify(s.Features)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d\t%s\t%.4f\t%.4f\n", i, res.Label, res.Score, res.Confidence)
		}
		log.Debug("classified", zap.Int("samples", d.Len()), zap.Int("vocabulary", e.VocabularySize()))
		return nil
	},
}

func init() {
	f := classifyCmd.Flags()
	f.String("data", "", "CSV dataset")
	f.Int("label-column", -1, "label column, negative counts from the end")
	f.Bool("evaluate", false, "report accuracy against the label column")
	f.Uint8("significance", 100, "evaluate on a sample sufficient at this significance, 100 uses every record")
	_ = classifyCmd.MarkFlagRequired("data")
}
