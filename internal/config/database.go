package config

import (
	"strings"

	"gorm.io/gorm/logger"
)

// DatabaseConfig holds SQLite store configuration
type DatabaseConfig struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// GormLogLevel maps the configured level onto gorm's logger levels, silent when unknown
func (c DatabaseConfig) GormLogLevel() logger.LogLevel {
	switch strings.ToLower(c.LogLevel) {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}

// WorkspaceConfig holds the settings written to the marker file of new management systems
type WorkspaceConfig struct {
	Delimiter    string `mapstructure:"delimiter"     yaml:"delimiter"`
	FilenameTags bool   `mapstructure:"filename_tags" yaml:"filename_tags"`
}
