package tagster

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mwantia/tagster/pkg/db/models"
	"github.com/mwantia/tagster/pkg/db/store"
	"github.com/samber/lo"
)

// TagCatalog manages tag entities
type TagCatalog struct {
	s *session
}

// GetByID returns the tag with the given id or ErrTagNotFound
func (c *TagCatalog) GetByID(ctx context.Context, id uint) (*Tag, error) {
	model, err := c.s.store.GetTag(ctx, id)
	if err != nil {
		return nil, tagError(err, fmt.Sprintf("id %d", id))
	}

	tag := toTag(*model, 0)
	return &tag, nil
}

// GetByName returns the tag with exactly the given name or ErrTagNotFound
func (c *TagCatalog) GetByName(ctx context.Context, name string) (*Tag, error) {
	model, err := c.s.store.GetTagByName(ctx, name)
	if err != nil {
		return nil, tagError(err, fmt.Sprintf("name %q", name))
	}

	tag := toTag(*model, 0)
	return &tag, nil
}

// FindSimilar returns all tags whose name contains substring.
// Matching follows the LIKE semantics of the database (ASCII case-insensitive for SQLite).
func (c *TagCatalog) FindSimilar(ctx context.Context, substring string) ([]Tag, error) {
	rows, err := c.s.store.FindTags(ctx, substring)
	if err != nil {
		return nil, fmt.Errorf("failed to search tags: %w", err)
	}

	return lo.Map(rows, toTag), nil
}

// List returns all tags ordered by name
func (c *TagCatalog) List(ctx context.Context) ([]Tag, error) {
	rows, err := c.s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	return lo.Map(rows, toTag), nil
}

// Count returns the number of tags
func (c *TagCatalog) Count(ctx context.Context) (int64, error) {
	count, err := c.s.store.CountTags(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count tags: %w", err)
	}
	return count, nil
}

// Create inserts a new tag. It fails with ErrDuplicateTag if the name is taken.
func (c *TagCatalog) Create(ctx context.Context, name, colour string) (*Tag, error) {
	if err := c.validateName(name); err != nil {
		return nil, err
	}

	model := &models.Tag{
		Name:   name,
		Colour: colour,
	}
	if err := c.s.store.CreateTag(ctx, model); err != nil {
		return nil, tagError(err, fmt.Sprintf("name %q", name))
	}

	return c.GetByID(ctx, model.ID)
}

// GetOrCreate returns the tag with the given name, creating it without colour if needed
func (c *TagCatalog) GetOrCreate(ctx context.Context, name string) (*Tag, error) {
	tag, err := c.GetByName(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return c.Create(ctx, name, "")
	}
	return tag, err
}

// Edit updates name and colour of an existing tag. When filename tagging is
// enabled and the name changes, every file carrying the tag is renamed as well.
func (c *TagCatalog) Edit(ctx context.Context, update TagUpdate) (*Tag, error) {
	if err := c.validateName(update.Name); err != nil {
		return nil, err
	}

	var edited *Tag
	err := c.s.transaction(ctx, func(tx *session) error {
		current, err := tx.tags().GetByID(ctx, update.ID)
		if err != nil {
			return err
		}

		model := &models.Tag{
			ID:     update.ID,
			Name:   update.Name,
			Colour: update.Colour,
		}
		if err := tx.store.UpdateTag(ctx, model); err != nil {
			return tagError(err, fmt.Sprintf("name %q", update.Name))
		}

		if tx.settings.FilenameTags && current.Name != update.Name {
			if err := tx.relations().rewriteAll(ctx, current.ID, func(n Name) Name {
				return n.RenameTag(current.Name, update.Name)
			}); err != nil {
				return err
			}
		}

		edited, err = tx.tags().GetByID(ctx, update.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return edited, nil
}

// Delete removes the tag and all of its file links. Unknown ids are ignored.
// When filename tagging is enabled the tag is stripped from every carrying file
// name first; files missing on disk only lose the link.
func (c *TagCatalog) Delete(ctx context.Context, id uint) error {
	return c.s.transaction(ctx, func(tx *session) error {
		if tx.settings.FilenameTags {
			tag, err := tx.tags().GetByID(ctx, id)
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}

			if err := tx.relations().rewriteAll(ctx, tag.ID, func(n Name) Name {
				return n.WithoutTag(tag.Name)
			}); err != nil {
				return err
			}
		}

		if err := tx.store.DeleteTag(ctx, id); err != nil {
			return fmt.Errorf("failed to delete tag %d: %w", id, err)
		}
		return nil
	})
}

// validateName rejects names that cannot round trip through a file name
func (c *TagCatalog) validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: tag name must not be empty", ErrInvalidName)
	}
	if !c.s.settings.FilenameTags {
		return nil
	}

	if strings.Contains(name, c.s.settings.Delimiter) {
		return fmt.Errorf("%w: tag name %q contains the delimiter %q", ErrInvalidName, name, c.s.settings.Delimiter)
	}
	if strings.ContainsAny(name, "/"+string(filepath.Separator)) {
		return fmt.Errorf("%w: tag name %q contains a path separator", ErrInvalidName, name)
	}
	// A trailing period would merge into the period closing the tag block
	if strings.HasSuffix(name, ".") {
		return fmt.Errorf("%w: tag name %q ends with a period", ErrInvalidName, name)
	}
	return nil
}

func tagError(err error, what string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrTagNotFound, what)
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrDuplicateTag, what)
	}
	return fmt.Errorf("failed to access tag %s: %w", what, err)
}
