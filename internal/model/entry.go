package model

import "time"

// Entry is one stored key-value pair of a profile.
type Entry struct {
	ID        uint   `gorm:"primaryKey"`
	Owner     string `gorm:"not null;uniqueIndex:idx_entry_owner_key"`
	Key       string `gorm:"not null;uniqueIndex:idx_entry_owner_key"`
	Value     string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
