package tagster

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialiseNew(t *testing.T) {
	ctx := context.Background()
	m, report := newTestManager(t, []string{"report.txt", "invoice.Urgent&Paid.pdf", "nested/photo.Holiday.jpg"})

	require.NoError(t, report.Err())
	assert.Len(t, report.Imported, 3)
	assert.True(t, exists(filepath.Join(m.Root(), MarkerFileName)))
	assert.True(t, exists(filepath.Join(m.Root(), DatabaseFileName)))

	settings := m.Settings()
	assert.NotEmpty(t, settings.ID)
	assert.Equal(t, DefaultDelimiter, settings.Delimiter)
	assert.True(t, settings.FilenameTags)

	status, err := m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), status.Files)
	assert.Equal(t, int64(3), status.Tags)
	require.NotEmpty(t, status.Migrations)
	for _, migration := range status.Migrations {
		assert.True(t, migration.Applied)
	}

	_, _, err = InitialiseNew(ctx, m.Root())
	assert.ErrorIs(t, err, ErrAlreadyInitialised)
}

func TestInitialiseNewRejectsInvalidDelimiter(t *testing.T) {
	dir := t.TempDir()

	_, _, err := InitialiseNew(context.Background(), dir, WithDelimiter("."))
	assert.ErrorIs(t, err, ErrMalformedConfig)
	assert.False(t, exists(filepath.Join(dir, MarkerFileName)))
}

func TestInitialiseNewMissingDirectory(t *testing.T) {
	_, _, err := InitialiseNew(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestConnect(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFiles(t, dir, "a.X.txt")

	m, _, err := InitialiseNew(ctx, dir, WithDelimiter("+"))
	require.NoError(t, err)
	id := m.Settings().ID
	require.NoError(t, m.Close())

	m, err = Connect(ctx, dir)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = m.Close()
	})

	assert.Equal(t, id, m.Settings().ID)
	assert.Equal(t, "+", m.Settings().Delimiter)

	file := mustFile(t, m, "a.X.txt")
	assert.Equal(t, []string{"X"}, file.TagNames())
}

func TestConnectFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing marker", func(t *testing.T) {
		_, err := Connect(ctx, t.TempDir())
		assert.ErrorIs(t, err, ErrMissingMarker)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing database", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, writeSettings(afero.NewOsFs(), dir, Settings{ID: "id", Version: 1, Delimiter: "&"}))

		_, err := Connect(ctx, dir)
		assert.ErrorIs(t, err, ErrUninitialisedDatabase)
	})

	t.Run("malformed marker", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFileName), []byte("{not json"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, DatabaseFileName), nil, 0o644))

		_, err := Connect(ctx, dir)
		assert.ErrorIs(t, err, ErrMalformedConfig)
	})

	t.Run("invalid delimiter", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFileName), []byte(`{"delimiter": "."}`), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, DatabaseFileName), nil, 0o644))

		_, err := Connect(ctx, dir)
		assert.ErrorIs(t, err, ErrMalformedConfig)
	})
}

func TestReadSettingsDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/root/"+MarkerFileName, []byte(`{"id": "abc"}`), 0o644))

	settings, err := readSettings(fs, "/root")
	require.NoError(t, err)
	assert.Equal(t, Settings{
		ID:           "abc",
		Version:      settingsVersion,
		Delimiter:    DefaultDelimiter,
		FilenameTags: true,
	}, settings)
}

func TestInitialiseExisting(t *testing.T) {
	ctx := context.Background()

	t.Run("creates marker", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "a.X&Y.txt", "b.txt")

		m, report, err := InitialiseExisting(ctx, dir)
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = m.Close()
		})

		require.NoError(t, report.Err())
		assert.Len(t, report.Imported, 2)
		assert.True(t, exists(filepath.Join(dir, MarkerFileName)))

		file := mustFile(t, m, "a.X&Y.txt")
		assert.Equal(t, []string{"X", "Y"}, file.TagNames())

		_, _, err = InitialiseExisting(ctx, dir)
		assert.ErrorIs(t, err, ErrAlreadyInitialised)
	})

	t.Run("keeps marker settings", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "a.X+Y.txt")
		settings := Settings{ID: "kept", Version: 1, Delimiter: "+", FilenameTags: true}
		require.NoError(t, writeSettings(afero.NewOsFs(), dir, settings))

		m, _, err := InitialiseExisting(ctx, dir, WithDelimiter("&"))
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = m.Close()
		})

		assert.Equal(t, settings, m.Settings())

		file := mustFile(t, m, "a.X+Y.txt")
		assert.Equal(t, []string{"X", "Y"}, file.TagNames())
	})
}
