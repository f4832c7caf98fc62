package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/cafehub/app/models"
	"github.com/shashiranjanraj/cafehub/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_cafes_table", &CreateCafesTable{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.User{})
}

// -------- 0002: cafes --------

type CreateCafesTable struct{}

func (m *CreateCafesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Cafe{})
}

func (m *CreateCafesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Cafe{})
}
