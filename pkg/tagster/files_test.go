package tagster

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileAddRejectsMissingPath(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, nil)

	_, err := m.Files().Add(ctx, filepath.Join(m.Root(), "missing.txt"))
	assert.ErrorIs(t, err, ErrPathNotFound)

	require.NoError(t, os.Mkdir(filepath.Join(m.Root(), "folder"), 0o755))
	_, err = m.Files().Add(ctx, filepath.Join(m.Root(), "folder"))
	assert.ErrorIs(t, err, ErrPathNotFound)

	count, err := m.Files().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFileAddDuplicate(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, []string{"report.txt"})

	_, err := m.Files().Add(ctx, filepath.Join(m.Root(), "report.txt"))
	assert.ErrorIs(t, err, ErrDuplicateFile)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestFileAddWithTags(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, nil)

	writeFiles(t, m.Root(), "notes.md")
	urgent := mustTag(t, m, "Urgent")
	paid := mustTag(t, m, "Paid")

	file, err := m.Files().Add(ctx, filepath.Join(m.Root(), "notes.md"), urgent, paid)
	require.NoError(t, err)
	assert.Equal(t, "notes.Urgent&Paid.md", file.Name())
	assert.Equal(t, []string{"Urgent", "Paid"}, file.TagNames())
	assert.True(t, file.HasTag("Paid"))
	assert.True(t, exists(file.Path))
}

func TestFileAddRollsBackOnFailedAttach(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, nil)

	writeFiles(t, m.Root(), "notes.md")
	urgent := mustTag(t, m, "Urgent")

	_, err := m.Files().Add(ctx, filepath.Join(m.Root(), "notes.md"), urgent, &Tag{ID: urgent.ID + 100})
	assert.ErrorIs(t, err, ErrTagNotFound)

	assert.True(t, exists(filepath.Join(m.Root(), "notes.md")))
	assert.False(t, exists(filepath.Join(m.Root(), "notes.Urgent.md")))

	count, err := m.Files().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFileLookupAndRemove(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, []string{"b.txt", "a.X.txt"})

	file := mustFile(t, m, "a.X.txt")
	assert.False(t, file.Modified.IsZero())
	assert.False(t, file.Created.IsZero())
	assert.False(t, file.CreatedAt.IsZero())

	byID, err := m.Files().GetByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, file.Path, byID.Path)

	files, err := m.Files().List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.X.txt", files[0].Name())
	assert.Equal(t, "b.txt", files[1].Name())

	require.NoError(t, m.Files().Remove(ctx, file.ID))

	_, err = m.Files().GetByID(ctx, file.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.True(t, exists(file.Path))

	x, err := m.Tags().GetByName(ctx, "X")
	require.NoError(t, err)
	carriers, err := m.Relations().FilesForTag(ctx, x.ID)
	require.NoError(t, err)
	assert.Empty(t, carriers)
}

func TestFileEditPath(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, []string{"a.txt"})

	file := mustFile(t, m, "a.txt")
	moved := filepath.Join(m.Root(), "moved.txt")
	require.NoError(t, os.Rename(file.Path, moved))

	edited, err := m.Files().Edit(ctx, FileUpdate{ID: file.ID, Path: moved})
	require.NoError(t, err)
	assert.Equal(t, moved, edited.Path)

	_, err = m.Files().Edit(ctx, FileUpdate{ID: file.ID + 100, Path: moved})
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestFileAddResolvesAgainstRoot(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, nil)

	writeFiles(t, m.Root(), "nested/notes.md")

	file, err := m.Files().Add(ctx, filepath.Join("nested", "notes.md"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.Root(), "nested", "notes.md"), file.Path)

	found, err := m.Files().GetByPath(ctx, filepath.Join("nested", "notes.md"))
	require.NoError(t, err)
	assert.Equal(t, file.ID, found.ID)
}

func TestFileAddRejectsPathsOutsideRoot(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, nil)

	outside := t.TempDir()
	writeFiles(t, outside, "elsewhere.txt")

	_, err := m.Files().Add(ctx, filepath.Join(outside, "elsewhere.txt"))
	assert.ErrorIs(t, err, ErrOutsideRoot)

	_, err = m.Files().Add(ctx, filepath.Join("..", filepath.Base(outside), "elsewhere.txt"))
	assert.ErrorIs(t, err, ErrOutsideRoot)

	_, err = m.Files().Add(ctx, MarkerFileName)
	assert.ErrorIs(t, err, ErrInvalidName)

	count, err := m.Files().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFileAddReadsEmbeddedTags(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, nil)

	writeFiles(t, m.Root(), "a.X.txt", "b.Y.txt")

	file, err := m.Files().Add(ctx, "a.X.txt")
	require.NoError(t, err)
	assert.Equal(t, "a.X.txt", file.Name())
	assert.Equal(t, []string{"X"}, file.TagNames())

	y := mustTag(t, m, "Y")
	extra := mustTag(t, m, "Extra")

	file, err = m.Files().Add(ctx, "b.Y.txt", y, extra)
	require.NoError(t, err)
	assert.Equal(t, "b.Y&Extra.txt", file.Name())
	assert.Equal(t, []string{"Y", "Extra"}, file.TagNames())
}

func TestFileAddIgnoresEmbeddedTagsWhenDisabled(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, nil, WithFilenameTags(false))

	writeFiles(t, m.Root(), "a.X.txt")

	file, err := m.Files().Add(ctx, "a.X.txt")
	require.NoError(t, err)
	assert.Empty(t, file.Tags)
}
