// Package config loads settings for the xrc command from flags, the environment, and an optional config file.
package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/saylorsolutions/xorcryptor/internal/logging"
	"github.com/saylorsolutions/xorcryptor/pkg/container"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to setting names when they're read from the environment, as in XRC_KEY.
	EnvPrefix = "XRC"
	// FileName is the name of the config file searched for, without extension.
	FileName = "xrc"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Encrypt   bool   `mapstructure:"encrypt"`
	Decrypt   bool   `mapstructure:"decrypt"`
	Preserve  bool   `mapstructure:"preserve"`
	Recursive bool   `mapstructure:"recursive"`
	Lite      bool   `mapstructure:"lite"`
	Jobs      int    `mapstructure:"jobs"`
	Compress  string `mapstructure:"compress"`
	ChunkSize int    `mapstructure:"chunk_size"`
	Key       string `mapstructure:"key"`
	LogFile   string `mapstructure:"log_file"`
	LogLevel  string `mapstructure:"log_level"`
}

// flagKeys maps flag names to their setting names.
var flagKeys = map[string]string{
	"encrypt":    "encrypt",
	"decrypt":    "decrypt",
	"preserve":   "preserve",
	"recursive":  "recursive",
	"lite":       "lite",
	"jobs":       "jobs",
	"compress":   "compress",
	"chunk-size": "chunk_size",
	"key":        "key",
	"log-file":   "log_file",
	"log-level":  "log_level",
}

// setDefaults registers every setting, which viper needs in order to unmarshal values that only come from the environment.
func setDefaults(v *viper.Viper) {
	v.SetDefault("encrypt", false)
	v.SetDefault("decrypt", false)
	v.SetDefault("preserve", false)
	v.SetDefault("recursive", false)
	v.SetDefault("lite", false)
	v.SetDefault("key", "")
	v.SetDefault("log_file", logging.DefaultLogFile)
	v.SetDefault("jobs", runtime.NumCPU())
	v.SetDefault("compress", container.CompressionNone.String())
	v.SetDefault("chunk_size", container.DefaultChunkSize)
	v.SetDefault("log_level", "info")
}

// Load reads configuration in order of increasing precedence: defaults, config file, environment, then flags that were set.
// If configFile is empty, xrc.yaml is searched for in the working directory and $HOME/.xrc, and it's not an error if none is found.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.xrc")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag '%s': %w", name, err)
			}
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that can be checked without any input files.
func (c *Config) Validate() error {
	if c.Encrypt && c.Decrypt {
		return fmt.Errorf("%w: encrypt and decrypt are mutually exclusive", ErrInvalidConfig)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("%w: jobs must be at least 1, got %d", ErrInvalidConfig, c.Jobs)
	}
	if _, err := container.ParseCompression(c.Compress); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := container.ValidateChunkSize(int64(c.ChunkSize)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Mode returns the container mode selected by the Lite setting.
func (c *Config) Mode() container.Mode {
	if c.Lite {
		return container.ModeLite
	}
	return container.ModeTable
}

// Compression returns the parsed compression setting.
func (c *Config) Compression() container.Compression {
	comp, _ := container.ParseCompression(c.Compress)
	return comp
}
