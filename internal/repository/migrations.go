package repository

import (
	"gorm.io/gorm"

	"github.com/certwatch/certwatch/internal/models"
)

// Each entry is one migration, identified by its index in this slice. Entries are
// append-only: editing or reordering applied migrations corrupts the version table.
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS domains (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			domain VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			notify_days INTEGER NOT NULL,
			valid_from TIMESTAMP WITH TIME ZONE NOT NULL,
			valid_to TIMESTAMP WITH TIME ZONE NOT NULL,
			issuer VARCHAR(255) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_domains_valid_to ON domains(valid_to)`,
	},
}

// Migrate applies all pending schema migrations in one transaction. Already
// applied indices are skipped, so running it repeatedly is safe.
func Migrate(db *gorm.DB) error {
	return applyMigrations(db, migrations)
}

func applyMigrations(db *gorm.DB, migrations [][]string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(&models.SchemaMigration{}); err != nil {
			return err
		}

		var applied []int
		err := tx.Model(&models.SchemaMigration{}).
			Order("migration asc").
			Pluck("migration", &applied).Error
		if err != nil {
			return err
		}

		appliedSet := make(map[int]bool, len(applied))
		for _, index := range applied {
			appliedSet[index] = true
		}

		for index, statements := range migrations {
			if appliedSet[index] {
				continue
			}
			for _, statement := range statements {
				if err := tx.Exec(statement).Error; err != nil {
					return err
				}
			}
			if err := tx.Create(&models.SchemaMigration{Migration: index}).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
