package repository

import (
	"gorm.io/gorm"
)

type Repositories struct {
	DomainRepository DomainRepository
}

func InitRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DomainRepository: NewDomainRepository(db),
	}
}

func MigrateDB(db *gorm.DB) error {
	return Migrate(db)
}
