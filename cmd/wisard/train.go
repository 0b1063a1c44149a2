package main

import (
	"math/rand"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neurlang/wisard/datasets"
	"github.com/neurlang/wisard/logger"
	"github.com/neurlang/wisard/store"
	"github.com/neurlang/wisard/trainer"
	"github.com/neurlang/wisard/wisard"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a model from a CSV dataset",
	Long: `Train reads one sample per CSV record and trains it into the model.
With --resume an existing model in --model is extended, otherwise a new one is
created. The model is saved to --model when training finishes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, _ := cmd.Flags().GetString("data")
		labelColumn, _ := cmd.Flags().GetInt("label-column")
		resume, _ := cmd.Flags().GetBool("resume")
		shuffle, _ := cmd.Flags().GetBool("shuffle")

		d, err := datasets.ReadCSVFile(data, labelColumn)
		if err != nil {
			return err
		}
		if shuffle {
			d.Shuffle(rand.New(rand.NewSource(rand.Int63())))
		}
		log.Info("dataset loaded", zap.String(logger.FieldDataset, data), zap.Int(logger.FieldCount, d.Len()))

		e, err := trainer.Resume(resume, cfg.Store.Dir, func() (*wisard.Ensemble, error) {
			return cfg.NewEnsemble(log)
		}, log)
		if err != nil {
			return err
		}
		if err := trainer.Fit(e, d, log); err != nil {
			return err
		}
		if err := store.Save(cfg.Store.Dir, e, store.WithCodec(cfg.Codec())); err != nil {
			return err
		}
		log.Info("model saved", zap.String(logger.FieldModel, cfg.Store.Dir))
		return nil
	},
}

func init() {
	modelFlags(trainCmd)
	f := trainCmd.Flags()
	f.String("data", "", "CSV dataset")
	f.Int("label-column", -1, "label column, negative counts from the end")
	f.Bool("resume", false, "extend the model in --model if it exists")
	f.Bool("shuffle", false, "shuffle samples before training")
	_ = trainCmd.MarkFlagRequired("data")
}
