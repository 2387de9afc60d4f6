package models

import (
	"time"
)

// SchemaMigration records an applied migration by its sequence index, append-only.
type SchemaMigration struct {
	ID        uint64    `gorm:"column:id;primary_key;autoIncrement" json:"id"`
	Migration int       `gorm:"column:migration;NOT NULL;uniqueIndex" json:"migration"`
	CreatedAt time.Time `gorm:"column:created_at;DEFAULT:current_timestamp" json:"createdAt"`
}

func (SchemaMigration) TableName() string {
	return "migrations"
}
