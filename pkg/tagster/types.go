package tagster

import (
	"path/filepath"
	"time"

	"github.com/mwantia/tagster/pkg/db/models"
	"github.com/samber/lo"
)

// Tag is a read-only snapshot of a tag row
type Tag struct {
	ID        uint
	Name      string
	Colour    string
	CreatedAt time.Time
}

// Update returns an update request prefilled with the current values
func (t Tag) Update() TagUpdate {
	return TagUpdate{
		ID:     t.ID,
		Name:   t.Name,
		Colour: t.Colour,
	}
}

// TagUpdate carries the new name and colour for an existing tag
type TagUpdate struct {
	ID     uint
	Name   string
	Colour string
}

// File is a file row hydrated with its tags and the timestamps reported by the filesystem
type File struct {
	ID        uint
	Path      string
	CreatedAt time.Time
	Tags      []Tag

	// Read from the filesystem on every lookup, zero if the file is gone
	Created  time.Time
	Modified time.Time
}

// Name returns the base name of the file
func (f *File) Name() string {
	return filepath.Base(f.Path)
}

// TagNames returns the names of all tags in relation order
func (f *File) TagNames() []string {
	return lo.Map(f.Tags, func(t Tag, _ int) string {
		return t.Name
	})
}

// HasTag reports whether a tag with the given name is attached
func (f *File) HasTag(name string) bool {
	return lo.ContainsBy(f.Tags, func(t Tag) bool {
		return t.Name == name
	})
}

// FileUpdate carries the new path for an existing file
type FileUpdate struct {
	ID   uint
	Path string
}

func toTag(model models.Tag, _ int) Tag {
	return Tag{
		ID:        model.ID,
		Name:      model.Name,
		Colour:    model.Colour,
		CreatedAt: model.CreatedAt,
	}
}
