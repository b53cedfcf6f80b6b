package tagster

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("already exists")
	ErrAlreadyInitialised    = errors.New("directory is already initialised")
	ErrUninitialisedDatabase = errors.New("database is not initialised")
	ErrMalformedConfig       = errors.New("malformed configuration")
	ErrInvalidName           = errors.New("invalid name")
	ErrOutsideRoot           = errors.New("path is outside the managed directory")
)

var (
	ErrTagNotFound   = fmt.Errorf("tag %w", ErrNotFound)
	ErrFileNotFound  = fmt.Errorf("file %w", ErrNotFound)
	ErrPathNotFound  = fmt.Errorf("path %w", ErrNotFound)
	ErrMissingMarker = fmt.Errorf("marker file %w", ErrNotFound)

	ErrDuplicateTag  = fmt.Errorf("tag name %w", ErrConflict)
	ErrDuplicateFile = fmt.Errorf("file path %w", ErrConflict)
	ErrDuplicateLink = fmt.Errorf("file tag link %w", ErrConflict)
)

// FilesystemError reports a failed filesystem operation. It is kept apart from
// database errors so callers can retry the filesystem step or give up on the relation change.
type FilesystemError struct {
	Op     string
	Path   string
	Target string
	Err    error
}

func (e *FilesystemError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Path, e.Target, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
