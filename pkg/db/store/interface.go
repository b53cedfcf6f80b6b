package store

import (
	"context"
	"errors"

	"github.com/mwantia/tagster/pkg/db/migrations"
	"github.com/mwantia/tagster/pkg/db/models"
)

var (
	// ErrNotFound is returned when a lookup or update matches no row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint is violated
	ErrDuplicate = errors.New("duplicate record")
	// ErrMissingReference is returned when a foreign key points at a missing row
	ErrMissingReference = errors.New("referenced record does not exist")
)

// MetadataStore defines the interface for database operations
type MetadataStore interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error
	MigrationStatus(ctx context.Context) ([]migrations.MigrationStatus, error)
	Health(ctx context.Context) error

	// Transaction runs fn against a store bound to a single transaction.
	// The transaction is rolled back when fn returns an error.
	Transaction(ctx context.Context, fn func(MetadataStore) error) error

	// Tag operations
	CreateTag(ctx context.Context, tag *models.Tag) error
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	GetTagByName(ctx context.Context, name string) (*models.Tag, error)
	FindTags(ctx context.Context, substring string) ([]models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	UpdateTag(ctx context.Context, tag *models.Tag) error
	DeleteTag(ctx context.Context, id uint) error
	CountTags(ctx context.Context) (int64, error)

	// File operations
	CreateFile(ctx context.Context, file *models.File) error
	GetFile(ctx context.Context, id uint) (*models.File, error)
	GetFileByPath(ctx context.Context, path string) (*models.File, error)
	ListFiles(ctx context.Context) ([]models.File, error)
	UpdateFilePath(ctx context.Context, id uint, path string) error
	DeleteFile(ctx context.Context, id uint) error
	CountFiles(ctx context.Context) (int64, error)

	// File tag operations
	CreateFileTag(ctx context.Context, fileID, tagID uint) error
	DeleteFileTag(ctx context.Context, fileID, tagID uint) error
	HasFileTag(ctx context.Context, fileID, tagID uint) (bool, error)
	GetFileTags(ctx context.Context, fileID uint) ([]models.Tag, error)
	GetTagFiles(ctx context.Context, tagID uint) ([]models.File, error)
}
