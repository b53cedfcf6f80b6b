package tagster

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFiles creates empty files below dir, creating parent directories as needed
func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()

	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	}
}

// newTestManager initialises a management system over a fresh directory holding names
func newTestManager(t *testing.T, names []string, opts ...Option) (*Manager, *ImportReport) {
	t.Helper()

	dir := t.TempDir()
	writeFiles(t, dir, names...)

	m, report, err := InitialiseNew(context.Background(), dir, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = m.Close()
	})

	return m, report
}

func mustFile(t *testing.T, m *Manager, name string) *File {
	t.Helper()

	file, err := m.Files().GetByPath(context.Background(), filepath.Join(m.Root(), name))
	require.NoError(t, err)
	return file
}

func mustTag(t *testing.T, m *Manager, name string) *Tag {
	t.Helper()

	tag, err := m.Tags().GetOrCreate(context.Background(), name)
	require.NoError(t, err)
	return tag
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
