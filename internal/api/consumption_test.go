package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanihq/amani-backend/internal/models"
)

func TestConsumeLunchEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	seedGrace(t, env)

	w := env.request(t, http.MethodPost, "/api/v1/lunch", graceBody())
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot models.Snapshot
	decodeBody(t, w, &snapshot)
	assert.Equal(t, 4, snapshot.LunchesRemaining)
	assert.Equal(t, "Grace Mwangi", snapshot.FullName)
}

func TestConsumeLunchTwiceSameDay(t *testing.T) {
	env := setupTestEnv(t)
	seedGrace(t, env)

	w := env.request(t, http.MethodPost, "/api/v1/lunch", graceBody())
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodPost, "/api/v1/lunch", graceBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already")
}

func TestConsumeDinnerEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	seedGrace(t, env)

	w := env.request(t, http.MethodPost, "/api/v1/dinner", graceBody())
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot models.Snapshot
	decodeBody(t, w, &snapshot)
	assert.Equal(t, 4, snapshot.DinnersRemaining)
	assert.Equal(t, 5, snapshot.LunchesRemaining)
}

func TestConsumeMealUnknownUserReturns404(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/lunch", graceBody())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConsumeMealIncompleteIdentity(t *testing.T) {
	env := setupTestEnv(t)
	seedGrace(t, env)

	w := env.request(t, http.MethodPost, "/api/v1/lunch", map[string]interface{}{
		"first_name": "Grace",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConsumeMealExhaustedAllowance(t *testing.T) {
	env := setupTestEnv(t)
	env.seedUser(t, &models.User{
		FirstName: "Grace", LastName: "Mwangi", Gender: models.GenderFemale,
		LunchesRemaining: 0, DinnersRemaining: 5, DrinksRemaining: 15,
	})

	w := env.request(t, http.MethodPost, "/api/v1/lunch", graceBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no allowance remaining")
}

func TestLunchDayRestrictionReturns403(t *testing.T) {
	env := setupTestEnv(t)
	// Clock is Thursday; Friday-only registration must be rejected.
	env.seedUser(t, &models.User{
		FirstName: "David", LastName: "Otieno", Gender: models.GenderMale,
		LunchesRemaining: 5, DinnersRemaining: 5, DrinksRemaining: 15,
		HasFridayLunch: true,
	})

	w := env.request(t, http.MethodPost, "/api/v1/lunch", map[string]interface{}{
		"first_name": "David", "last_name": "Otieno", "gender": "M",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestConsumeDrinkEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	seedGrace(t, env)
	env.seedDrink(t, "Soda", 100)

	body := graceBody()
	body["drink_name"] = "Soda"
	body["quantity"] = 2
	body["serving_point"] = "Main Bar"

	w := env.request(t, http.MethodPost, "/api/v1/drink", body)
	require.Equal(t, http.StatusOK, w.Code)

	var receipt struct {
		User struct {
			DrinksRemaining int `json:"drinks_remaining"`
		} `json:"user"`
		Transaction struct {
			DrinkName    string `json:"drink_name"`
			Quantity     int    `json:"quantity"`
			ServingPoint string `json:"serving_point"`
		} `json:"transaction"`
		StockRemaining int `json:"stock_remaining"`
	}
	decodeBody(t, w, &receipt)
	assert.Equal(t, 13, receipt.User.DrinksRemaining)
	assert.Equal(t, 98, receipt.StockRemaining)
	assert.Equal(t, "Soda", receipt.Transaction.DrinkName)
	assert.Equal(t, "Main Bar", receipt.Transaction.ServingPoint)
}

func TestConsumeDrinkDefaultsQuantityToOne(t *testing.T) {
	env := setupTestEnv(t)
	seedGrace(t, env)
	env.seedDrink(t, "Soda", 100)

	body := graceBody()
	body["drink_name"] = "Soda"
	body["serving_point"] = "Main Bar"

	w := env.request(t, http.MethodPost, "/api/v1/drink", body)
	require.Equal(t, http.StatusOK, w.Code)

	var receipt struct {
		StockRemaining int `json:"stock_remaining"`
	}
	decodeBody(t, w, &receipt)
	assert.Equal(t, 99, receipt.StockRemaining)
}

func TestConsumeDrinkMissingServingPoint(t *testing.T) {
	env := setupTestEnv(t)
	seedGrace(t, env)
	env.seedDrink(t, "Soda", 100)

	body := graceBody()
	body["drink_name"] = "Soda"

	w := env.request(t, http.MethodPost, "/api/v1/drink", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "serving_point")
}

func TestConsumeDrinkUnknownDrinkReturns404(t *testing.T) {
	env := setupTestEnv(t)
	seedGrace(t, env)

	body := graceBody()
	body["drink_name"] = "Kombucha"
	body["serving_point"] = "Main Bar"

	w := env.request(t, http.MethodPost, "/api/v1/drink", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConsumeDrinkInsufficientStock(t *testing.T) {
	env := setupTestEnv(t)
	user := seedGrace(t, env)
	drink := env.seedDrink(t, "Wine", 1)

	body := graceBody()
	body["drink_name"] = "Wine"
	body["quantity"] = 2
	body["serving_point"] = "Main Bar"

	w := env.request(t, http.MethodPost, "/api/v1/drink", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock")

	// Nothing changed
	var storedUser models.User
	require.NoError(t, env.db.First(&storedUser, user.ID).Error)
	assert.Equal(t, 15, storedUser.DrinksRemaining)

	var storedDrink models.DrinkType
	require.NoError(t, env.db.First(&storedDrink, drink.ID).Error)
	assert.Equal(t, 1, storedDrink.AvailableQuantity)
}

func TestGetUserStatusEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	seedGrace(t, env)

	w := env.request(t, http.MethodGet,
		"/api/v1/user?first_name=Grace&last_name=Mwangi&gender=F", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot models.Snapshot
	decodeBody(t, w, &snapshot)
	assert.Equal(t, 5, snapshot.LunchesRemaining)
	assert.Equal(t, 15, snapshot.DrinksRemaining)
}

func TestGetUserStatusMissingParams(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/user?first_name=Grace", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
