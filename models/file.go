package models

import (
	"time"
)

// File is one uploaded file's metadata row. FilePath is the file's location:
// either a local relative path (/uploads/<generated-name>) served statically,
// or a fully-qualified remote URL. It is set once at creation and never
// mutated; only FileName and Description change via the update endpoint.
type File struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FileName    string    `gorm:"column:filename;size:255;not null" json:"filename"`
	FilePath    string    `gorm:"column:filepath;size:512;not null" json:"filepath"`
	Description string    `gorm:"column:description;size:1024" json:"description"`
	FileType    string    `gorm:"column:filetype;size:128" json:"filetype"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (File) TableName() string { return "files" }
