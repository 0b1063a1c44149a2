package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neurlang/wisard/config"
	"github.com/neurlang/wisard/logger"
)

var (
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wisard",
	Short: "WiSARD weightless neural network classifier",
	Long: `wisard trains weightless neural network classifiers.

Each class is remembered by a set of RAM lookup tables addressed by the rank
order of feature blocks; classification counts how many tables recognize an
input. Configuration comes from --config (TOML, YAML or JSON), WISARD_*
environment variables and flags, in increasing precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		v, err := config.Open(path)
		if err != nil {
			return err
		}
		for flag, key := range map[string]string{
			"tables":     "model.tables",
			"block-size": "model.block_size",
			"encoder":    "model.encoder",
			"seed":       "model.seed",
			"model":      "store.dir",
			"codec":      "store.codec",
			"log-level":  "log.level",
		} {
			if f := cmd.Flags().Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return errors.Wrapf(err, "bind --%s", flag)
				}
			}
		}
		c, err := config.LoadWithViper(v)
		if err != nil {
			return err
		}
		if verbose, _ := cmd.Flags().GetCount("verbose"); verbose > 0 {
			c.Log.Level = "debug"
			c.Log.Development = true
		}
		l, err := logger.New(c.Log.Level, c.Log.Development)
		if err != nil {
			return err
		}
		cfg, log = c, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (TOML, YAML or JSON)")
	pf.CountP("verbose", "v", "debug logging with human readable output")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("model", "model", "model directory")

	rootCmd.AddCommand(trainCmd, classifyCmd, inspectCmd, mnistCmd, benchCmd)
}

// modelFlags adds the ensemble construction flags to cmd
func modelFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("tables", 28, "number of RAM tables per label")
	f.Int("block-size", 28, "number of features addressing one table")
	f.String("encoder", "ranks", "block encoder: ranks or kmeans (experimental)")
	f.Uint32("seed", 0, "mapping seed, 0 draws a random mapping")
	f.String("codec", "zst", "model compression: zst, lz4 or none")
}
