package models

import (
	"time"

	"gorm.io/gorm"
)

// KVEntry represents kv_entries table: one row per store key.
// Value holds the JSON-encoded payload exactly as written by the store adapter.
type KVEntry struct {
	Key       string    `gorm:"column:kv_key;primaryKey;size:191" json:"key"`
	Value     string    `gorm:"column:payload;type:mediumtext;not null" json:"value"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// AutoMigrate runs auto migration for all portal tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&KVEntry{},
	)
}
