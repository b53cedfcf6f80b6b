package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mwantia/tagster/pkg/db/migrations"
	"github.com/mwantia/tagster/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteStore implements MetadataStore using SQLite
type SQLiteStore struct {
	db   *gorm.DB
	path string
}

// Path returns the database file path
func (s *SQLiteStore) Path() string {
	return s.path
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path     string
	LogLevel logger.LogLevel
}

// NewSQLiteStore creates a new SQLite-backed metadata store.
// Foreign keys are switched on for every connection so cascades apply.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	// Default to silent logging
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}

	dsn := cfg.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(cfg.LogLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	return &SQLiteStore{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Connect initializes the database connection
func (s *SQLiteStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// SQLite only supports 1 writer
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Migrate applies the schema
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return migrations.NewMigrator(s.db).Migrate(ctx)
}

// MigrationStatus reports which schema versions are applied
func (s *SQLiteStore) MigrationStatus(ctx context.Context) ([]migrations.MigrationStatus, error) {
	return migrations.NewMigrator(s.db).Status(ctx)
}

// Health checks database connectivity
func (s *SQLiteStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) Transaction(ctx context.Context, fn func(MetadataStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SQLiteStore{db: tx, path: s.path})
	})
}

// Tag operations

func (s *SQLiteStore) CreateTag(ctx context.Context, tag *models.Tag) error {
	return translate(s.db.WithContext(ctx).Create(tag).Error)
}

func (s *SQLiteStore) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

func (s *SQLiteStore) GetTagByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

func (s *SQLiteStore) FindTags(ctx context.Context, substring string) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Where(`name LIKE ? ESCAPE '\'`, "%"+escapeLike(substring)+"%").
		Find(&tags).Error
	return tags, translate(err)
}

func (s *SQLiteStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).Order("name").Find(&tags).Error
	return tags, translate(err)
}

func (s *SQLiteStore) UpdateTag(ctx context.Context, tag *models.Tag) error {
	result := s.db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("id = ?", tag.ID).
		Updates(map[string]any{
			"name":   tag.Name,
			"colour": tag.Colour,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteTag(ctx context.Context, id uint) error {
	return translate(s.db.WithContext(ctx).Delete(&models.Tag{}, id).Error)
}

func (s *SQLiteStore) CountTags(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Tag{}).Count(&count).Error
	return count, translate(err)
}

// File operations

func (s *SQLiteStore) CreateFile(ctx context.Context, file *models.File) error {
	return translate(s.db.WithContext(ctx).Create(file).Error)
}

func (s *SQLiteStore) GetFile(ctx context.Context, id uint) (*models.File, error) {
	var file models.File
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&file).Error; err != nil {
		return nil, translate(err)
	}
	return &file, nil
}

func (s *SQLiteStore) GetFileByPath(ctx context.Context, path string) (*models.File, error) {
	var file models.File
	if err := s.db.WithContext(ctx).Where("path = ?", path).First(&file).Error; err != nil {
		return nil, translate(err)
	}
	return &file, nil
}

func (s *SQLiteStore) ListFiles(ctx context.Context) ([]models.File, error) {
	var files []models.File
	err := s.db.WithContext(ctx).Order("path").Find(&files).Error
	return files, translate(err)
}

func (s *SQLiteStore) UpdateFilePath(ctx context.Context, id uint, path string) error {
	result := s.db.WithContext(ctx).
		Model(&models.File{}).
		Where("id = ?", id).
		Update("path", path)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteFile(ctx context.Context, id uint) error {
	return translate(s.db.WithContext(ctx).Delete(&models.File{}, id).Error)
}

func (s *SQLiteStore) CountFiles(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.File{}).Count(&count).Error
	return count, translate(err)
}

// File tag operations

func (s *SQLiteStore) CreateFileTag(ctx context.Context, fileID, tagID uint) error {
	link := models.FileTag{
		FileID: fileID,
		TagID:  tagID,
	}
	return translate(s.db.WithContext(ctx).Create(&link).Error)
}

func (s *SQLiteStore) DeleteFileTag(ctx context.Context, fileID, tagID uint) error {
	return translate(s.db.WithContext(ctx).
		Where("file_id = ? AND tag_id = ?", fileID, tagID).
		Delete(&models.FileTag{}).Error)
}

func (s *SQLiteStore) HasFileTag(ctx context.Context, fileID, tagID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.FileTag{}).
		Where("file_id = ? AND tag_id = ?", fileID, tagID).
		Count(&count).Error
	return count > 0, translate(err)
}

func (s *SQLiteStore) GetFileTags(ctx context.Context, fileID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Joins("JOIN file_tags ON file_tags.tag_id = tags.id").
		Where("file_tags.file_id = ?", fileID).
		Order("file_tags.rowid").
		Find(&tags).Error
	return tags, translate(err)
}

func (s *SQLiteStore) GetTagFiles(ctx context.Context, tagID uint) ([]models.File, error) {
	var files []models.File
	err := s.db.WithContext(ctx).
		Joins("JOIN file_tags ON file_tags.file_id = files.id").
		Where("file_tags.tag_id = ?", tagID).
		Order("file_tags.rowid").
		Find(&files).Error
	return files, translate(err)
}

// translate maps driver and gorm errors onto the store sentinels
func translate(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", ErrMissingReference, err)
	}
	return err
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
