package models

import (
	"context"

	"github.com/acmeops/backlog-alerts/config"
	"github.com/acmeops/backlog-alerts/utils"
)

// UserDirectoryEntry maps a username to its notification address. The
// directory is a read-only reference table; username is the unique key.
type UserDirectoryEntry struct {
	ID       int    `gorm:"primary_key" json:"id"`
	Username string `gorm:"size:100;not null;unique" json:"username"`
	Email    string `gorm:"size:100" json:"email"`
}

func (UserDirectoryEntry) TableName() string {
	return "dim_users"
}

// FetchUserDirectory loads the directory into a lookup map keyed by
// normalized username. Later duplicates (which the unique constraint should
// prevent anyway) win, matching a plain join's last-write behavior.
func FetchUserDirectory(ctx context.Context) (map[string]string, error) {
	var entries []UserDirectoryEntry
	db := config.GetDB()
	if err := db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, err
	}

	directory := make(map[string]string, len(entries))
	for _, entry := range entries {
		key := utils.NormalizeKey(entry.Username)
		if key == "" {
			continue
		}
		directory[key] = entry.Email
	}
	return directory, nil
}
