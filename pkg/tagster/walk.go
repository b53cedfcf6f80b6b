package tagster

import (
	"errors"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var errStopWalk = errors.New("stop walk")

// Discover walks root depth-first in lexical order and yields every regular file.
// The marker and database files of root are skipped. Unreadable entries are
// yielded as *FilesystemError and the walk carries on.
func Discover(fs afero.Fs, root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		_ = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				if !yield(path, &FilesystemError{Op: "walk", Path: path, Err: err}) {
					return errStopWalk
				}
				return nil
			}

			if info.IsDir() || !info.Mode().IsRegular() || isManagementFile(root, path) {
				return nil
			}

			if !yield(path, nil) {
				return errStopWalk
			}
			return nil
		})
	}
}

func isManagementFile(root, path string) bool {
	if filepath.Dir(path) != filepath.Clean(root) {
		return false
	}

	name := filepath.Base(path)
	return name == MarkerFileName || strings.HasPrefix(name, DatabaseFileName)
}
