package tagster

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

func markerPath(root string) string {
	return filepath.Join(root, MarkerFileName)
}

func databasePath(root string) string {
	return filepath.Join(root, DatabaseFileName)
}

// readSettings loads the marker file of root
func readSettings(fs afero.Fs, root string) (Settings, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(markerPath(root))
	v.SetConfigType("json")

	v.SetDefault("version", settingsVersion)
	v.SetDefault("delimiter", DefaultDelimiter)
	v.SetDefault("filename_tags", true)

	if err := v.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("%w: failed to read %s: %v", ErrMalformedConfig, markerPath(root), err)
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("%w: failed to decode %s: %v", ErrMalformedConfig, markerPath(root), err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}

	return settings, nil
}

// writeSettings stores settings as the marker file of root
func writeSettings(fs afero.Fs, root string, settings Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := afero.WriteFile(fs, markerPath(root), append(data, '\n'), 0o644); err != nil {
		return &FilesystemError{Op: "write", Path: markerPath(root), Err: err}
	}
	return nil
}
