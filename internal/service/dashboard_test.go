package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanihq/amani-backend/internal/models"
)

func TestDashboardStats(t *testing.T) {
	db := setupDB(t)
	svc := NewDashboardService(db, time.UTC)
	now := time.Date(2026, 8, 21, 15, 0, 0, 0, time.UTC)

	grace := createUser(t, db, &models.User{
		FirstName: "Grace", LastName: "Mwangi", Gender: models.GenderFemale,
	})
	soda := createDrink(t, db, "Soda", 100)
	createDrink(t, db, "Wine", 10)

	transactions := NewTransactionService(db)
	_, err := transactions.Record(db, grace, soda, 2, "Main Bar", now.Add(-time.Hour))
	require.NoError(t, err)

	// One meal today, one yesterday
	require.NoError(t, db.Create(&models.MealLog{
		UserID: grace.ID, MealType: models.MealLunch, ConsumedAt: now.Add(-2 * time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.MealLog{
		UserID: grace.ID, MealType: models.MealDinner, ConsumedAt: now.Add(-26 * time.Hour),
	}).Error)

	stats, err := svc.Stats(now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalUsers)
	assert.EqualValues(t, 2, stats.TotalDrinkTypes)
	assert.EqualValues(t, 1, stats.TotalTransactions)
	assert.EqualValues(t, 1, stats.MealsToday)

	require.Len(t, stats.RecentTransactions, 1)
	assert.Equal(t, "Grace Mwangi", stats.RecentTransactions[0].UserName)

	require.Len(t, stats.LowStockDrinks, 1)
	assert.Equal(t, "Wine", stats.LowStockDrinks[0].Name)
}

func TestRecentMealLogs(t *testing.T) {
	db := setupDB(t)
	svc := NewDashboardService(db, time.UTC)
	now := time.Date(2026, 8, 21, 15, 0, 0, 0, time.UTC)

	grace := createUser(t, db, &models.User{
		FirstName: "Grace", LastName: "Mwangi", Gender: models.GenderFemale,
	})
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.MealLog{
			UserID: grace.ID, MealType: models.MealLunch,
			ConsumedAt: now.Add(-time.Duration(i) * time.Hour),
		}).Error)
	}

	logs, err := svc.RecentMealLogs(2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.True(t, logs[0].ConsumedAt.After(logs[1].ConsumedAt))
	assert.Equal(t, "Grace", logs[0].User.FirstName)
}
