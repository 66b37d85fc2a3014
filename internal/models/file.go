package models

import (
	"time"
)

// FileRecord describes one uploaded file. Pin and URL never leave the server
// through JSON; they are handed out explicitly by the upload response.
type FileRecord struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	Name      string     `json:"name" gorm:"not null"`
	Size      int64      `json:"size" gorm:"not null"`
	MimeType  string     `json:"mimeType" gorm:"not null"`
	Pin       string     `json:"-" gorm:"not null;size:6;uniqueIndex"`
	URL       string     `json:"-" gorm:"not null"`
	Checksum  string     `json:"-" gorm:"size:64"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty" gorm:"index"`
}

// TableName keeps the table name stable regardless of the struct name
func (FileRecord) TableName() string {
	return "files"
}

// IsExpired reports whether the record is past its retention window at now
func (f *FileRecord) IsExpired(now time.Time) bool {
	return f.ExpiresAt != nil && !now.Before(*f.ExpiresAt)
}
