package database

import (
	"gorm.io/gorm"

	"github.com/amanihq/amani-backend/internal/models"
)

// RunMigrations brings the schema up to date for every persisted entity.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.DrinkType{},
		&models.DrinkTransaction{},
		&models.MealLog{},
		&models.Conversation{},
		&models.ChatMessage{},
	)
}
