package tagster

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mwantia/tagster/pkg/db/store"
	"github.com/spf13/afero"
)

// session is the shared context every catalog is built on. All three catalogs
// of one session see the same store, so inside a transaction they all read and
// write through the same database transaction.
type session struct {
	store    store.MetadataStore
	fs       afero.Fs
	root     string
	settings Settings

	// Set while running inside a transaction
	journal *renameJournal
}

func newSession(st store.MetadataStore, fs afero.Fs, root string, settings Settings) *session {
	return &session{
		store:    st,
		fs:       fs,
		root:     root,
		settings: settings,
	}
}

// abs resolves path against the managed root
func (s *session) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.root, path)
}

// within fails with ErrOutsideRoot unless path lies below the managed root
func (s *session) within(path string) error {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return nil
}

func (s *session) tags() *TagCatalog {
	return &TagCatalog{s: s}
}

func (s *session) files() *FileCatalog {
	return &FileCatalog{s: s}
}

func (s *session) relations() *RelationEngine {
	return &RelationEngine{s: s}
}

// transaction runs fn in a database transaction. When fn fails or the commit
// fails, every rename performed through the session journal is reverted.
// Nested calls join the outer transaction.
func (s *session) transaction(ctx context.Context, fn func(tx *session) error) error {
	if s.journal != nil {
		return fn(s)
	}

	journal := newRenameJournal(s.fs)
	err := s.store.Transaction(ctx, func(st store.MetadataStore) error {
		return fn(&session{
			store:    st,
			fs:       s.fs,
			root:     s.root,
			settings: s.settings,
			journal:  journal,
		})
	})
	if err != nil {
		if rerr := journal.revert(); rerr != nil {
			return errors.Join(err, rerr)
		}
	}

	return err
}
