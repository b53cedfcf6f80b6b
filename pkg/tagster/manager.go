package tagster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mwantia/tagster/pkg/db/migrations"
	"github.com/mwantia/tagster/pkg/db/store"
	"github.com/spf13/afero"
	"gorm.io/gorm/logger"
)

// Manager governs one root directory: its marker file, its database and the
// catalogs operating on both.
type Manager struct {
	root     string
	fs       afero.Fs
	store    *store.SQLiteStore
	session  *session
	settings Settings
}

type options struct {
	delimiter    string
	filenameTags bool
	logLevel     logger.LogLevel
}

// Option configures how a management system is initialised or opened
type Option func(*options)

// WithDelimiter sets the tag delimiter written to a new marker file
func WithDelimiter(delimiter string) Option {
	return func(o *options) {
		o.delimiter = delimiter
	}
}

// WithFilenameTags toggles tag encoding in file names for a new marker file
func WithFilenameTags(enabled bool) Option {
	return func(o *options) {
		o.filenameTags = enabled
	}
}

// WithDatabaseLogLevel sets the gorm log level, silent by default
func WithDatabaseLogLevel(level logger.LogLevel) Option {
	return func(o *options) {
		o.logLevel = level
	}
}

func newOptions(opts []Option) options {
	o := options{
		delimiter:    DefaultDelimiter,
		filenameTags: true,
		logLevel:     logger.Silent,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// InitialiseNew turns root into a management system and imports every file below it,
// reading tags embedded in file names. It fails with ErrAlreadyInitialised if root
// already carries a marker file.
func InitialiseNew(ctx context.Context, root string, opts ...Option) (*Manager, *ImportReport, error) {
	fs := afero.NewOsFs()
	o := newOptions(opts)

	root, err := resolveRoot(fs, root)
	if err != nil {
		return nil, nil, err
	}

	if exists, _ := afero.Exists(fs, markerPath(root)); exists {
		return nil, nil, fmt.Errorf("%w: %s", ErrAlreadyInitialised, root)
	}

	settings := Settings{
		ID:           uuid.NewString(),
		Version:      settingsVersion,
		Delimiter:    o.delimiter,
		FilenameTags: o.filenameTags,
	}
	if err := settings.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}

	if err := writeSettings(fs, root, settings); err != nil {
		return nil, nil, err
	}

	m, report, err := initialise(ctx, fs, root, settings, o)
	if err != nil {
		_ = fs.Remove(markerPath(root))
		return nil, nil, err
	}
	return m, report, nil
}

// InitialiseExisting rebuilds the database of a directory whose file names already
// carry tags. An existing marker file is kept and its settings win over opts; an
// existing database fails with ErrAlreadyInitialised.
func InitialiseExisting(ctx context.Context, root string, opts ...Option) (*Manager, *ImportReport, error) {
	fs := afero.NewOsFs()
	o := newOptions(opts)

	root, err := resolveRoot(fs, root)
	if err != nil {
		return nil, nil, err
	}

	if exists, _ := afero.Exists(fs, databasePath(root)); exists {
		return nil, nil, fmt.Errorf("%w: %s already exists", ErrAlreadyInitialised, databasePath(root))
	}

	created := false
	var settings Settings
	if exists, _ := afero.Exists(fs, markerPath(root)); exists {
		if settings, err = readSettings(fs, root); err != nil {
			return nil, nil, err
		}
	} else {
		settings = Settings{
			ID:           uuid.NewString(),
			Version:      settingsVersion,
			Delimiter:    o.delimiter,
			FilenameTags: o.filenameTags,
		}
		if err := settings.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
		}
		if err := writeSettings(fs, root, settings); err != nil {
			return nil, nil, err
		}
		created = true
	}

	m, report, err := initialise(ctx, fs, root, settings, o)
	if err != nil && created {
		_ = fs.Remove(markerPath(root))
	}
	return m, report, err
}

// Connect opens an initialised management system
func Connect(ctx context.Context, root string, opts ...Option) (*Manager, error) {
	fs := afero.NewOsFs()
	o := newOptions(opts)

	root, err := resolveRoot(fs, root)
	if err != nil {
		return nil, err
	}

	if exists, _ := afero.Exists(fs, markerPath(root)); !exists {
		return nil, fmt.Errorf("%w: %s", ErrMissingMarker, markerPath(root))
	}
	if exists, _ := afero.Exists(fs, databasePath(root)); !exists {
		return nil, fmt.Errorf("%w: %s does not exist", ErrUninitialisedDatabase, databasePath(root))
	}

	settings, err := readSettings(fs, root)
	if err != nil {
		return nil, err
	}

	return open(ctx, fs, root, settings, o)
}

func initialise(ctx context.Context, fs afero.Fs, root string, settings Settings, o options) (*Manager, *ImportReport, error) {
	m, err := open(ctx, fs, root, settings, o)
	if err != nil {
		_ = fs.Remove(databasePath(root))
		return nil, nil, err
	}

	if err := m.store.Migrate(ctx); err != nil {
		_ = m.Close()
		_ = fs.Remove(databasePath(root))
		return nil, nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	report, err := m.Import(ctx)
	if err != nil {
		_ = m.Close()
		return nil, nil, err
	}

	return m, report, nil
}

func open(ctx context.Context, fs afero.Fs, root string, settings Settings, o options) (*Manager, error) {
	st, err := store.NewSQLiteStore(store.SQLiteConfig{
		Path:     databasePath(root),
		LogLevel: o.logLevel,
	})
	if err != nil {
		return nil, err
	}

	if err := st.Connect(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Manager{
		root:     root,
		fs:       fs,
		store:    st,
		session:  newSession(st, fs, root, settings),
		settings: settings,
	}, nil
}

func resolveRoot(fs afero.Fs, root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory %q: %w", root, err)
	}

	info, err := fs.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: directory %s", ErrPathNotFound, abs)
		}
		return "", &FilesystemError{Op: "stat", Path: abs, Err: err}
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrPathNotFound, abs)
	}

	return abs, nil
}

// Close releases the database connection
func (m *Manager) Close() error {
	return m.store.Close()
}

// Root returns the absolute root directory
func (m *Manager) Root() string {
	return m.root
}

// Settings returns the settings read from the marker file
func (m *Manager) Settings() Settings {
	return m.settings
}

// Tags returns the tag catalog
func (m *Manager) Tags() *TagCatalog {
	return m.session.tags()
}

// Files returns the file catalog
func (m *Manager) Files() *FileCatalog {
	return m.session.files()
}

// Relations returns the relation engine
func (m *Manager) Relations() *RelationEngine {
	return m.session.relations()
}

// Status summarises the management system
type Status struct {
	Root       string
	Database   string
	Settings   Settings
	Files      int64
	Tags       int64
	Migrations []migrations.MigrationStatus
}

// Status reports counts and schema state
func (m *Manager) Status(ctx context.Context) (*Status, error) {
	if err := m.store.Health(ctx); err != nil {
		return nil, fmt.Errorf("database is not reachable: %w", err)
	}

	files, err := m.Files().Count(ctx)
	if err != nil {
		return nil, err
	}

	tags, err := m.Tags().Count(ctx)
	if err != nil {
		return nil, err
	}

	status, err := m.store.MigrationStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &Status{
		Root:       m.root,
		Database:   m.store.Path(),
		Settings:   m.settings,
		Files:      files,
		Tags:       tags,
		Migrations: status,
	}, nil
}
