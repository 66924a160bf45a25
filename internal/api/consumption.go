package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amanihq/amani-backend/internal/models"
	"github.com/amanihq/amani-backend/internal/service"
)

// ConsumptionHandler exposes the point-of-service check-in endpoints.
type ConsumptionHandler struct {
	consumption *service.ConsumptionService
}

// NewConsumptionHandler creates a new ConsumptionHandler instance.
func NewConsumptionHandler(consumption *service.ConsumptionService) *ConsumptionHandler {
	return &ConsumptionHandler{consumption: consumption}
}

// RegisterRoutes wires the consumption endpoints onto the router group.
func (h *ConsumptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/lunch", h.ConsumeLunch)
	router.POST("/dinner", h.ConsumeDinner)
	router.POST("/drink", h.ConsumeDrink)
	router.GET("/user", h.GetUserStatus)
}

// ConsumeLunch spends one lunch for the identified delegate.
func (h *ConsumptionHandler) ConsumeLunch(c *gin.Context) {
	h.consumeMeal(c, models.MealLunch)
}

// ConsumeDinner spends one dinner for the identified delegate.
func (h *ConsumptionHandler) ConsumeDinner(c *gin.Context) {
	h.consumeMeal(c, models.MealDinner)
}

func (h *ConsumptionHandler) consumeMeal(c *gin.Context, kind string) {
	var req IdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.complete() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first_name, last_name and gender are required"})
		return
	}

	snapshot, err := h.consumption.ConsumeMeal(c.Request.Context(), req.identity(), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// ConsumeDrink settles a drink order: stock, allowance and the transaction
// record all succeed together or the request fails with no change.
func (h *ConsumptionHandler) ConsumeDrink(c *gin.Context) {
	var req DrinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.complete() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first_name, last_name and gender are required"})
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	receipt, err := h.consumption.ConsumeDrink(c.Request.Context(), req.identity(), req.DrinkName, quantity, req.ServingPoint)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// GetUserStatus returns the delegate's current snapshot, rolling the
// allowance window first.
func (h *ConsumptionHandler) GetUserStatus(c *gin.Context) {
	req := IdentityRequest{
		FirstName: c.Query("first_name"),
		LastName:  c.Query("last_name"),
		Gender:    c.Query("gender"),
	}
	if !req.complete() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first_name, last_name and gender are required"})
		return
	}

	snapshot, err := h.consumption.GetStatus(c.Request.Context(), req.identity())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
