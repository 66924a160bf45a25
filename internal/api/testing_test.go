package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/amanihq/amani-backend/internal/models"
	"github.com/amanihq/amani-backend/internal/service"
)

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time { return c.now }

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	clock  *stubClock
}

func setupTestEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
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

	// Thursday noon
	clock := &stubClock{now: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)}

	ledger := service.NewLedgerService(service.Allowances{Lunches: 5, Dinners: 5, Drinks: 15})
	inventory := service.NewInventoryService(db)
	transactions := service.NewTransactionService(db)
	consumption := service.NewConsumptionService(db, ledger, inventory, transactions, clock, time.UTC)
	dashboard := service.NewDashboardService(db, time.UTC)

	router := gin.New()
	v1 := router.Group("/api/v1")
	NewConsumptionHandler(consumption).RegisterRoutes(v1)
	NewDrinksHandler(inventory, transactions).RegisterRoutes(v1)
	NewAdminHandler(db, dashboard, inventory, ledger, clock).RegisterRoutes(v1)

	return &testEnv{db: db, router: router, clock: clock}
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func (e *testEnv) seedUser(t *testing.T, user *models.User) *models.User {
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) seedDrink(t *testing.T, name string, quantity int) *models.DrinkType {
	drink := &models.DrinkType{Name: name, AvailableQuantity: quantity}
	require.NoError(t, e.db.Create(drink).Error)
	return drink
}

func graceBody() map[string]interface{} {
	return map[string]interface{}{
		"first_name": "Grace",
		"last_name":  "Mwangi",
		"gender":     "F",
	}
}

func seedGrace(t *testing.T, e *testEnv) *models.User {
	return e.seedUser(t, &models.User{
		FirstName: "Grace", LastName: "Mwangi", Gender: models.GenderFemale,
		LunchesRemaining: 5, DinnersRemaining: 5, DrinksRemaining: 15,
	})
}
