package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/certwatch/certwatch/internal/models"
)

// The production statements use postgres-only DDL, so these tests drive the
// runner with sqlite-compatible statements instead.
var testMigrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS widgets (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`,
	},
	{
		`CREATE INDEX IF NOT EXISTS idx_widgets_name ON widgets(name)`,
	},
}

func appliedIndices(t *testing.T, db *gorm.DB) []int {
	t.Helper()
	var applied []int
	require.NoError(t, db.Model(&models.SchemaMigration{}).Order("migration asc").Pluck("migration", &applied).Error)
	return applied
}

func TestApplyMigrations_RecordsEachIndex(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, applyMigrations(db, testMigrations))

	assert.Equal(t, []int{0, 1}, appliedIndices(t, db))
	assert.True(t, db.Migrator().HasTable("widgets"))
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, applyMigrations(db, testMigrations))
	require.NoError(t, applyMigrations(db, testMigrations))

	// Each migration is recorded exactly once
	var count int64
	require.NoError(t, db.Model(&models.SchemaMigration{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestApplyMigrations_AppliesOnlyPending(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, applyMigrations(db, testMigrations[:1]))
	assert.Equal(t, []int{0}, appliedIndices(t, db))

	require.NoError(t, applyMigrations(db, testMigrations))
	assert.Equal(t, []int{0, 1}, appliedIndices(t, db))
}
