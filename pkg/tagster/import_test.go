package tagster

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportReadsFilenameTags(t *testing.T) {
	ctx := context.Background()
	m, report := newTestManager(t, []string{"invoice.Urgent&Paid.pdf"})

	require.Len(t, report.Imported, 1)
	imported := report.Imported[0]
	assert.Equal(t, filepath.Join(m.Root(), "invoice.Urgent&Paid.pdf"), imported.Path)
	assert.Equal(t, []string{"Urgent", "Paid"}, imported.TagNames())
	assert.True(t, exists(imported.Path))

	urgent, err := m.Tags().GetByName(ctx, "Urgent")
	require.NoError(t, err)
	assert.Empty(t, urgent.Colour)
}

func TestImportSkipsKnownFiles(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, []string{"a.txt"})

	writeFiles(t, m.Root(), "b.Tag.txt")

	report, err := m.Import(ctx)
	require.NoError(t, err)
	require.NoError(t, report.Err())
	assert.Equal(t, []string{filepath.Join(m.Root(), "a.txt")}, report.Skipped)
	require.Len(t, report.Imported, 1)
	assert.Equal(t, "b.Tag.txt", report.Imported[0].Name())

	count, err := m.Files().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestImportWithoutFilenameTags(t *testing.T) {
	ctx := context.Background()
	m, report := newTestManager(t, []string{"invoice.Urgent&Paid.pdf"}, WithFilenameTags(false))

	require.Len(t, report.Imported, 1)
	assert.Empty(t, report.Imported[0].Tags)

	count, err := m.Tags().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestImportKeepsIrregularTagBlocks(t *testing.T) {
	ctx := context.Background()
	names := []string{"a.X&X.txt", "b.&Y.txt", "c.Y&&Z.txt"}
	m, report := newTestManager(t, names)

	require.NoError(t, report.Err())
	require.Len(t, report.Imported, 3)

	for _, name := range names {
		assert.True(t, exists(filepath.Join(m.Root(), name)), name)
	}

	a := mustFile(t, m, "a.X&X.txt")
	assert.Equal(t, []string{"X"}, a.TagNames())

	c := mustFile(t, m, "c.Y&&Z.txt")
	assert.Equal(t, []string{"Y", "Z"}, c.TagNames())

	y, err := m.Tags().GetByName(ctx, "Y")
	require.NoError(t, err)
	files, err := m.Relations().FilesForTag(ctx, y.ID)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
