// Package config loads the wisard configuration with viper.
//
// Sources in increasing precedence: built-in defaults, an optional config file
// (TOML, YAML or JSON by extension) and WISARD_ prefixed environment variables
// such as WISARD_MODEL_TABLES.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/neurlang/wisard/store"
	"github.com/neurlang/wisard/wisard"
)

// Config is the complete configuration
type Config struct {
	Model ModelConfig `mapstructure:"model"`
	Store StoreConfig `mapstructure:"store"`
	Log   LogConfig   `mapstructure:"log"`
}

// ModelConfig holds the ensemble construction parameters
type ModelConfig struct {
	Tables    int    `mapstructure:"tables"`
	BlockSize int    `mapstructure:"block_size"`
	Encoder   string `mapstructure:"encoder"`
	// Seed draws a reproducible mapping, 0 draws a random one
	Seed uint32 `mapstructure:"seed"`
}

// StoreConfig holds persistence settings
type StoreConfig struct {
	Dir   string `mapstructure:"dir"`
	Codec string `mapstructure:"codec"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("model.tables", 28)
	v.SetDefault("model.block_size", 28)
	v.SetDefault("model.encoder", string(wisard.EncoderRanks))
	v.SetDefault("model.seed", 0)

	v.SetDefault("store.dir", "model")
	v.SetDefault("store.codec", string(store.CodecZstd))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// New creates a viper instance with defaults and environment binding
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("WISARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the configuration, from path when it is not empty
func Load(path string) (*Config, error) {
	v, err := Open(path)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// Open returns a viper instance with defaults, environment binding and the
// contents of the config file at path when it is not empty. Callers may bind
// further sources such as flags before passing it to LoadWithViper.
func Open(path string) (*viper.Viper, error) {
	v := New()
	if path == "" {
		return v, nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WithHint(errors.Wrapf(err, "read config file %s", path),
			"the file must exist and end in .toml, .yaml or .json")
	}
	return v, nil
}

// LoadWithViper unmarshals and validates the configuration held by v
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the configuration for unusable values
func (c *Config) Validate() error {
	if c.Model.Tables <= 0 || c.Model.BlockSize <= 0 {
		return errors.WithHint(
			errors.Wrapf(wisard.ErrInvalidConfig, "model.tables=%d model.block_size=%d", c.Model.Tables, c.Model.BlockSize),
			"both must be positive and their product must equal the feature count")
	}
	if _, err := wisard.ParseEncoderKind(c.Model.Encoder); err != nil {
		return errors.WithHint(err, "model.encoder is ranks or kmeans")
	}
	if _, err := store.ParseCodec(c.Store.Codec); err != nil {
		return errors.WithHint(err, "store.codec is zst, lz4 or none")
	}
	return nil
}

// EnsembleOptions turns the model configuration into ensemble options
func (c *Config) EnsembleOptions(log *zap.Logger) []wisard.Option {
	kind, _ := wisard.ParseEncoderKind(c.Model.Encoder)
	opts := []wisard.Option{wisard.WithEncoder(kind), wisard.WithLogger(log)}
	if c.Model.Seed != 0 {
		opts = append(opts, wisard.WithSeed(c.Model.Seed))
	}
	return opts
}

// NewEnsemble builds an untrained ensemble from the configuration
func (c *Config) NewEnsemble(log *zap.Logger) (*wisard.Ensemble, error) {
	return wisard.New(c.Model.Tables, c.Model.BlockSize, c.EnsembleOptions(log)...)
}

// Codec returns the configured store codec
func (c *Config) Codec() store.Codec {
	codec, _ := store.ParseCodec(c.Store.Codec)
	return codec
}
