package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type BaseConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`

	Log       LogConfig       `mapstructure:"log"       yaml:"log"`
	Database  DatabaseConfig  `mapstructure:"database"  yaml:"database"`
	Workspace WorkspaceConfig `mapstructure:"workspace" yaml:"workspace"`
}

func LoadConfig() (*BaseConfig, error) {
	cfg := &BaseConfig{}

	setDefaults()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}
