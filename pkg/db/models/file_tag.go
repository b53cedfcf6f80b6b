package models

// FileTag links a file to a tag. The pair is the primary key, existence alone models the relation.
type FileTag struct {
	FileID uint `gorm:"primaryKey;autoIncrement:false"`
	TagID  uint `gorm:"primaryKey;autoIncrement:false"`
}
