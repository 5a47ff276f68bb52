package model

import (
	"fmt"
	"time"
)

// User is someone who owns a routine: a Telegram account, a registered
// email, or both.
type User struct {
	ID           uint    `gorm:"primaryKey"`
	TelegramID   *int64  `gorm:"uniqueIndex"`
	Email        *string `gorm:"uniqueIndex"`
	Name         string
	Username     string
	PasswordHash string `json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileKey is the storage owner for the user's routine data.
func (u User) ProfileKey() string {
	if u.TelegramID != nil {
		return TelegramProfileKey(*u.TelegramID)
	}
	return fmt.Sprintf("user-%d", u.ID)
}

func TelegramProfileKey(telegramID int64) string {
	return fmt.Sprintf("tg-%d", telegramID)
}
