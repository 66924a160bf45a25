package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/amanihq/amani-backend/internal/models"
)

// fixedClock pins time for deterministic window and daily-cap tests.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// An in-memory sqlite database exists per connection; keep the pool at
	// one so every query sees the same schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.DrinkType{},
		&models.DrinkTransaction{},
		&models.MealLog{},
		&models.Conversation{},
		&models.ChatMessage{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, user *models.User) *models.User {
	require.NoError(t, db.Create(user).Error)
	return user
}

func createDrink(t *testing.T, db *gorm.DB, name string, quantity int) *models.DrinkType {
	drink := &models.DrinkType{Name: name, AvailableQuantity: quantity}
	require.NoError(t, db.Create(drink).Error)
	return drink
}

func testAllowances() Allowances {
	return Allowances{Lunches: 5, Dinners: 5, Drinks: 15}
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return &user
}
