package tagster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwantia/tagster/pkg/db/models"
	"github.com/mwantia/tagster/pkg/db/store"
	"github.com/samber/lo"
)

// RelationEngine owns every read and write spanning files and tags, and keeps
// tag-encoded file names in line with the stored relation.
type RelationEngine struct {
	s *session
}

// TagsForFile returns the tags attached to a file in link insertion order
func (r *RelationEngine) TagsForFile(ctx context.Context, fileID uint) ([]Tag, error) {
	rows, err := r.s.store.GetFileTags(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags for file %d: %w", fileID, err)
	}

	return lo.Map(rows, toTag), nil
}

// FilesForTag returns the files carrying a tag in link insertion order
func (r *RelationEngine) FilesForTag(ctx context.Context, tagID uint) ([]File, error) {
	rows, err := r.s.store.GetTagFiles(ctx, tagID)
	if err != nil {
		return nil, fmt.Errorf("failed to get files for tag %d: %w", tagID, err)
	}

	return r.s.files().hydrateAll(ctx, rows)
}

// AttachTag links tag to file. With filename tagging enabled the file is renamed
// to carry the tag and the new path is stored. Attaching an existing pair fails
// with ErrDuplicateLink; a failed rename returns a *FilesystemError and leaves
// both the database and the file name untouched.
func (r *RelationEngine) AttachTag(ctx context.Context, file *File, tag *Tag) (*File, error) {
	var attached *File
	err := r.s.transaction(ctx, func(tx *session) error {
		model, current, err := tx.relations().load(ctx, file, tag)
		if err != nil {
			return err
		}

		if tx.settings.FilenameTags {
			if err := tx.tags().validateName(current.Name); err != nil {
				return err
			}
		}

		if err := tx.store.CreateFileTag(ctx, model.ID, current.ID); err != nil {
			return linkError(err, model.ID, current.ID)
		}

		if tx.settings.FilenameTags {
			if err := tx.relations().rewrite(ctx, model, func(n Name) Name {
				return n.WithTag(current.Name)
			}); err != nil {
				return err
			}
		}

		attached, err = tx.files().GetByID(ctx, model.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return attached, nil
}

// DetachTag removes the link between file and tag. A missing link is not an
// error and leaves the file untouched. With filename tagging enabled the tag is
// removed from the file name.
func (r *RelationEngine) DetachTag(ctx context.Context, file *File, tag *Tag) (*File, error) {
	var detached *File
	err := r.s.transaction(ctx, func(tx *session) error {
		model, current, err := tx.relations().load(ctx, file, tag)
		if err != nil {
			return err
		}

		linked, err := tx.store.HasFileTag(ctx, model.ID, current.ID)
		if err != nil {
			return fmt.Errorf("failed to look up tag %d of file %d: %w", current.ID, model.ID, err)
		}
		if !linked {
			detached, err = tx.files().GetByID(ctx, model.ID)
			return err
		}

		if err := tx.store.DeleteFileTag(ctx, model.ID, current.ID); err != nil {
			return fmt.Errorf("failed to detach tag %d from file %d: %w", current.ID, model.ID, err)
		}

		if tx.settings.FilenameTags {
			if err := tx.relations().rewrite(ctx, model, func(n Name) Name {
				return n.WithoutTag(current.Name)
			}); err != nil {
				return err
			}
		}

		detached, err = tx.files().GetByID(ctx, model.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return detached, nil
}

// load re-reads both endpoints so stale snapshots never drive a rename
func (r *RelationEngine) load(ctx context.Context, file *File, tag *Tag) (*models.File, *models.Tag, error) {
	if file == nil || tag == nil {
		return nil, nil, fmt.Errorf("%w: file and tag are required", ErrNotFound)
	}

	model, err := r.s.store.GetFile(ctx, file.ID)
	if err != nil {
		return nil, nil, fileError(err, fmt.Sprintf("id %d", file.ID))
	}

	current, err := r.s.store.GetTag(ctx, tag.ID)
	if err != nil {
		return nil, nil, tagError(err, fmt.Sprintf("id %d", tag.ID))
	}

	return model, current, nil
}

// rewrite applies change to the parsed file name, renames the file on disk and
// stores the new path. Must run inside a transaction so the rename is journaled.
func (r *RelationEngine) rewrite(ctx context.Context, model *models.File, change func(Name) Name) error {
	if r.s.journal == nil {
		return r.s.transaction(ctx, func(tx *session) error {
			return tx.relations().rewrite(ctx, model, change)
		})
	}

	dir, base := filepath.Split(model.Path)
	next := change(ParseName(base, r.s.settings.Delimiter)).Format(r.s.settings.Delimiter)
	if next == base {
		return nil
	}

	target := filepath.Join(dir, next)
	if err := r.s.journal.rename(model.Path, target); err != nil {
		return err
	}

	if _, err := r.s.files().Edit(ctx, FileUpdate{ID: model.ID, Path: target}); err != nil {
		return err
	}

	model.Path = target
	return nil
}

// rewriteAll applies change to every file carrying the tag. Files missing on
// disk keep their stored path.
func (r *RelationEngine) rewriteAll(ctx context.Context, tagID uint, change func(Name) Name) error {
	rows, err := r.s.store.GetTagFiles(ctx, tagID)
	if err != nil {
		return fmt.Errorf("failed to get files for tag %d: %w", tagID, err)
	}

	for i := range rows {
		if _, err := r.s.fs.Stat(rows[i].Path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := r.rewrite(ctx, &rows[i], change); err != nil {
			return err
		}
	}
	return nil
}

func linkError(err error, fileID, tagID uint) error {
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%w: file %d, tag %d", ErrDuplicateLink, fileID, tagID)
	case errors.Is(err, store.ErrMissingReference):
		return fmt.Errorf("%w: file %d, tag %d", ErrNotFound, fileID, tagID)
	}
	return fmt.Errorf("failed to attach tag %d to file %d: %w", tagID, fileID, err)
}
