package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	defaultChunkSize = 4096
	defaultMaxLength = 1 << 20
)

type config struct {
	ChunkSize int
	MaxLength int
	Verbose   bool
}

// loadConfig merges, from highest precedence: flags set on cmd, SRCNAME_*
// environment variables, the --config file, and built-in defaults.
func loadConfig(cmd *cobra.Command) (*config, error) {
	v := viper.New()
	v.SetDefault("chunk-size", defaultChunkSize)
	v.SetDefault("max-length", defaultMaxLength)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("srcname")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	c := &config{
		ChunkSize: v.GetInt("chunk-size"),
		MaxLength: v.GetInt("max-length"),
		Verbose:   v.GetBool("verbose"),
	}
	if c.ChunkSize <= 0 {
		return nil, fmt.Errorf("invalid chunk-size %d", c.ChunkSize)
	}
	if c.MaxLength <= 0 {
		return nil, fmt.Errorf("invalid max-length %d", c.MaxLength)
	}
	return c, nil
}
