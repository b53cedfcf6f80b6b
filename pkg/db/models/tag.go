package models

import "time"

// Tag represents a named, optionally coloured label
type Tag struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"type:text;not null;uniqueIndex"`
	Colour string `gorm:"type:text;not null;default:''"`

	CreatedAt time.Time
}
