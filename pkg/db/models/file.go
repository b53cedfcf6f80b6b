package models

import "time"

// File is a row of the files table, pointing at an absolute filesystem path
type File struct {
	ID   uint   `gorm:"primaryKey"`
	Path string `gorm:"type:text;not null;uniqueIndex"`

	CreatedAt time.Time
}
