package tagster

import (
	"time"

	"github.com/spf13/afero"
)

// fileTimes reads the creation and modification time of path.
// Creation time falls back to the modification time where the platform does not report it.
func fileTimes(fs afero.Fs, path string) (created, modified time.Time, err error) {
	info, err := fs.Stat(path)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	modified = info.ModTime()
	created = modified

	if _, ok := fs.(*afero.OsFs); ok {
		if birth, ok := birthTime(path, info); ok {
			created = birth
		}
	}

	return created, modified, nil
}
