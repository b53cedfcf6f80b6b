package tagster

import (
	"fmt"
	"strings"
)

const (
	// MarkerFileName marks a directory as managed and stores its settings
	MarkerFileName = ".tagster"
	// DatabaseFileName is the SQLite database next to the marker
	DatabaseFileName = "database.db"
	// DefaultDelimiter separates tags inside the tag block of a file name
	DefaultDelimiter = "&"

	settingsVersion = 1
)

// Settings are persisted in the marker file of a management system
type Settings struct {
	ID           string `json:"id"            mapstructure:"id"`
	Version      int    `json:"version"       mapstructure:"version"`
	Delimiter    string `json:"delimiter"     mapstructure:"delimiter"`
	FilenameTags bool   `json:"filename_tags" mapstructure:"filename_tags"`
}

// Validate checks that the delimiter can be used inside a file name
func (s Settings) Validate() error {
	if s.Delimiter == "" {
		return fmt.Errorf("delimiter must not be empty")
	}
	if strings.ContainsAny(s.Delimiter, `./\`) {
		return fmt.Errorf("delimiter %q must not contain a period or path separator", s.Delimiter)
	}
	return nil
}
