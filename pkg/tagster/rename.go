package tagster

import (
	"errors"
	"os"

	"github.com/spf13/afero"
)

type renameStep struct {
	from string
	to   string
}

// renameJournal performs renames and remembers them so a failed
// transaction can move every file back to where it was.
type renameJournal struct {
	fs   afero.Fs
	done []renameStep
}

func newRenameJournal(fs afero.Fs) *renameJournal {
	return &renameJournal{fs: fs}
}

// rename moves from to to, refusing to replace a different existing file
func (j *renameJournal) rename(from, to string) error {
	if from == to {
		return nil
	}

	source, err := j.fs.Stat(from)
	if err != nil {
		return &FilesystemError{Op: "rename", Path: from, Target: to, Err: err}
	}

	// A case-only rename on a case-insensitive filesystem reports the target as existing
	if target, err := j.fs.Stat(to); err == nil && !os.SameFile(source, target) {
		return &FilesystemError{Op: "rename", Path: from, Target: to, Err: os.ErrExist}
	}

	if err := j.fs.Rename(from, to); err != nil {
		return &FilesystemError{Op: "rename", Path: from, Target: to, Err: err}
	}

	j.done = append(j.done, renameStep{from: from, to: to})
	return nil
}

// revert undoes all recorded renames, newest first
func (j *renameJournal) revert() error {
	var errs []error
	for i := len(j.done) - 1; i >= 0; i-- {
		step := j.done[i]
		if err := j.fs.Rename(step.to, step.from); err != nil {
			errs = append(errs, &FilesystemError{Op: "revert rename", Path: step.to, Target: step.from, Err: err})
		}
	}

	j.done = nil
	return errors.Join(errs...)
}
