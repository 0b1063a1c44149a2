package main

import (
	"math/rand"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neurlang/wisard/datasets/mnist"
	"github.com/neurlang/wisard/store"
	"github.com/neurlang/wisard/trainer"
	"github.com/neurlang/wisard/wisard"
)

var mnistCmd = &cobra.Command{
	Use:   "mnist",
	Short: "Train and evaluate on the MNIST digits",
	Long: `Mnist trains a 28x28 ensemble on the MNIST train set, evaluates it on the
test set and saves the model. The four *-ubyte.gz files are looked up in --dir
or in the default locations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		resume, _ := cmd.Flags().GetBool("resume")
		significance, _ := cmd.Flags().GetUint8("significance")

		var dirs []string
		if dir != "" {
			dirs = []string{dir}
		}
		found, err := mnist.Find(dirs...)
		if err != nil {
			return err
		}
		train, test, err := mnist.Load(found)
		if err != nil {
			return err
		}
		log.Info("mnist loaded", zap.String("dir", found), zap.Int("train", train.Len()), zap.Int("test", test.Len()))

		e, err := trainer.Resume(resume, cfg.Store.Dir, func() (*wisard.Ensemble, error) {
			return wisard.New(mnist.ImgSize, mnist.ImgSize, cfg.EnsembleOptions(log)...)
		}, log)
		if err != nil {
			return err
		}
		if err := trainer.Fit(e, train, log); err != nil {
			return err
		}
		test.Shuffle(rand.New(rand.NewSource(rand.Int63())))
		if _, err := trainer.Evaluate(e, test, significance, log); err != nil {
			return err
		}
		return store.Save(cfg.Store.Dir, e, store.WithCodec(cfg.Codec()))
	},
}

func init() {
	f := mnistCmd.Flags()
	f.String("dir", "", "directory holding the MNIST files")
	f.Bool("resume", false, "extend the model in --model if it exists")
	f.Uint8("significance", 100, "evaluate on a sample sufficient at this significance, 100 uses the whole test set")
	f.String("encoder", "ranks", "block encoder: ranks or kmeans (experimental)")
	f.Uint32("seed", 0, "mapping seed, 0 draws a random mapping")
	f.String("codec", "zst", "model compression: zst, lz4 or none")
}
