package tagster

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mwantia/tagster/pkg/db/models"
	"github.com/mwantia/tagster/pkg/db/store"
	"github.com/samber/lo"
)

// FileCatalog manages file entities
type FileCatalog struct {
	s *session
}

// GetByID returns the file with its tags and filesystem timestamps or ErrFileNotFound
func (c *FileCatalog) GetByID(ctx context.Context, id uint) (*File, error) {
	model, err := c.s.store.GetFile(ctx, id)
	if err != nil {
		return nil, fileError(err, fmt.Sprintf("id %d", id))
	}

	return c.hydrate(ctx, model)
}

// GetByPath returns the file registered for path or ErrFileNotFound.
// Relative paths are resolved against the managed root.
func (c *FileCatalog) GetByPath(ctx context.Context, path string) (*File, error) {
	abs := c.s.abs(path)

	model, err := c.s.store.GetFileByPath(ctx, abs)
	if err != nil {
		return nil, fileError(err, fmt.Sprintf("path %q", abs))
	}

	return c.hydrate(ctx, model)
}

// List returns all files ordered by path
func (c *FileCatalog) List(ctx context.Context) ([]File, error) {
	rows, err := c.s.store.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return c.hydrateAll(ctx, rows)
}

// Count returns the number of files
func (c *FileCatalog) Count(ctx context.Context) (int64, error) {
	count, err := c.s.store.CountFiles(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count files: %w", err)
	}
	return count, nil
}

// Add registers an existing regular file below the managed root and attaches
// the given tags one by one. With filename tagging enabled the tags embedded in
// the name are attached first, creating missing tags. Nothing is written when
// path is not an existing file.
func (c *FileCatalog) Add(ctx context.Context, path string, tags ...*Tag) (*File, error) {
	abs := c.s.abs(path)
	if err := c.s.within(abs); err != nil {
		return nil, err
	}
	if isManagementFile(c.s.root, abs) {
		return nil, fmt.Errorf("%w: %q is managed by tagster", ErrInvalidName, abs)
	}

	info, err := c.s.fs.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %q is not an existing file", ErrPathNotFound, abs)
	}

	var added *File
	err = c.s.transaction(ctx, func(tx *session) error {
		embedded, err := tx.files().embeddedTags(ctx, abs)
		if err != nil {
			return err
		}

		model := &models.File{
			Path: abs,
		}
		if err := tx.store.CreateFile(ctx, model); err != nil {
			return fileError(err, fmt.Sprintf("path %q", abs))
		}

		added, err = tx.files().hydrate(ctx, model)
		if err != nil {
			return err
		}

		all := lo.UniqBy(append(embedded, tags...), func(tag *Tag) uint {
			if tag == nil {
				return 0
			}
			return tag.ID
		})
		for _, tag := range all {
			if added, err = tx.relations().AttachTag(ctx, added, tag); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return added, nil
}

// embeddedTags returns the tags written into the name of path, creating missing ones
func (c *FileCatalog) embeddedTags(ctx context.Context, path string) ([]*Tag, error) {
	if !c.s.settings.FilenameTags {
		return nil, nil
	}

	var tags []*Tag
	for _, name := range ParseName(filepath.Base(path), c.s.settings.Delimiter).Tags() {
		tag, err := c.s.tags().GetOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// Edit updates the stored path of a file. The file itself is not moved.
func (c *FileCatalog) Edit(ctx context.Context, update FileUpdate) (*File, error) {
	abs := c.s.abs(update.Path)
	if err := c.s.within(abs); err != nil {
		return nil, err
	}

	if err := c.s.store.UpdateFilePath(ctx, update.ID, abs); err != nil {
		return nil, fileError(err, fmt.Sprintf("id %d", update.ID))
	}

	return c.GetByID(ctx, update.ID)
}

// Remove deletes the file entity and its tag links, leaving the file on disk untouched
func (c *FileCatalog) Remove(ctx context.Context, id uint) error {
	if err := c.s.store.DeleteFile(ctx, id); err != nil {
		return fmt.Errorf("failed to remove file %d: %w", id, err)
	}
	return nil
}

func (c *FileCatalog) hydrate(ctx context.Context, model *models.File) (*File, error) {
	tags, err := c.s.relations().TagsForFile(ctx, model.ID)
	if err != nil {
		return nil, err
	}

	file := &File{
		ID:        model.ID,
		Path:      model.Path,
		CreatedAt: model.CreatedAt,
		Tags:      tags,
	}

	// A file moved away behind our back keeps zero timestamps
	if created, modified, err := fileTimes(c.s.fs, model.Path); err == nil {
		file.Created = created
		file.Modified = modified
	}

	return file, nil
}

func (c *FileCatalog) hydrateAll(ctx context.Context, rows []models.File) ([]File, error) {
	files := make([]File, 0, len(rows))
	for i := range rows {
		file, err := c.hydrate(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		files = append(files, *file)
	}
	return files, nil
}

func fileError(err error, what string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrFileNotFound, what)
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrDuplicateFile, what)
	}
	return fmt.Errorf("failed to access file %s: %w", what, err)
}
