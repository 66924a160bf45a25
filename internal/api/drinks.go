package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amanihq/amani-backend/internal/service"
)

// DrinksHandler exposes the inventory listing, restock and transaction-log
// endpoints.
type DrinksHandler struct {
	inventory    *service.InventoryService
	transactions *service.TransactionService
}

// NewDrinksHandler creates a new DrinksHandler instance.
func NewDrinksHandler(inventory *service.InventoryService, transactions *service.TransactionService) *DrinksHandler {
	return &DrinksHandler{inventory: inventory, transactions: transactions}
}

// RegisterRoutes wires the drink endpoints onto the router group.
func (h *DrinksHandler) RegisterRoutes(router *gin.RouterGroup) {
	drinks := router.Group("/drinks")
	{
		drinks.GET("", h.ListDrinks)
		drinks.POST("/stock", h.AddStock)
		drinks.GET("/transactions", h.ListTransactions)
	}
}

// ListDrinks returns every drink type with its current stock level.
func (h *DrinksHandler) ListDrinks(c *gin.Context) {
	drinks, err := h.inventory.ListDrinks()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, drinks)
}

// AddStock creates a drink type or adds to its stock (additive restock).
func (h *DrinksHandler) AddStock(c *gin.Context) {
	var req StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DrinkName == "" || req.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "drink_name and quantity are required"})
		return
	}

	drink, created, err := h.inventory.UpsertStock(req.DrinkName, *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	verb := "Updated"
	if created {
		verb = "Created"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%s %s", verb, drink.Name),
		"drink":   drink,
	})
}

// ListTransactions returns the drink-serving log, most recent first. A user
// filter needs both name parts; a partial pair is rejected here so the log
// never silently returns unfiltered data.
func (h *DrinksHandler) ListTransactions(c *gin.Context) {
	firstName := c.Query("first_name")
	lastName := c.Query("last_name")
	if (firstName == "") != (lastName == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first_name and last_name must be provided together"})
		return
	}

	records, err := h.transactions.Query(service.TransactionFilter{
		ServingPoint: c.Query("serving_point"),
		FirstName:    firstName,
		LastName:     lastName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
