package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amanihq/amani-backend/internal/models"
	"github.com/amanihq/amani-backend/internal/service"
)

// AdminHandler is the JSON rendition of the back-office views: dashboard
// statistics, user and inventory corrections, and the consumption log.
type AdminHandler struct {
	db        *gorm.DB
	dashboard *service.DashboardService
	inventory *service.InventoryService
	ledger    *service.LedgerService
	clock     service.Clock
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(db *gorm.DB, dashboard *service.DashboardService, inventory *service.InventoryService, ledger *service.LedgerService, clock service.Clock) *AdminHandler {
	return &AdminHandler{db: db, dashboard: dashboard, inventory: inventory, ledger: ledger, clock: clock}
}

// RegisterRoutes wires the admin endpoints onto the router group.
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		admin.GET("/dashboard", h.Dashboard)
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.DELETE("/users/:id", h.DeleteUser)
		admin.PUT("/drinks/:id", h.UpdateDrink)
		admin.DELETE("/drinks/:id", h.DeleteDrink)
		admin.GET("/logs", h.MealLogs)
	}
}

// Dashboard returns the live operational statistics.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.dashboard.Stats(h.clock.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListUsers returns all registered delegates, newest first.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("created_at DESC").Find(&users).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type updateUserRequest struct {
	LunchesRemaining *int `json:"lunches_remaining"`
	DinnersRemaining *int `json:"dinners_remaining"`
	DrinksRemaining  *int `json:"drinks_remaining"`
}

// UpdateUser corrects a delegate's counters. Values are bounded by the
// configured weekly maximums so manual edits cannot break the cap invariant.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allowances := h.ledger.Allowances()
	if err := validateCounter(req.LunchesRemaining, allowances.Lunches, "lunches_remaining"); err != nil {
		respondError(c, err)
		return
	}
	if err := validateCounter(req.DinnersRemaining, allowances.Dinners, "dinners_remaining"); err != nil {
		respondError(c, err)
		return
	}
	if err := validateCounter(req.DrinksRemaining, allowances.Drinks, "drinks_remaining"); err != nil {
		respondError(c, err)
		return
	}

	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, service.ErrUserNotFound)
			return
		}
		respondError(c, err)
		return
	}

	if req.LunchesRemaining != nil {
		user.LunchesRemaining = *req.LunchesRemaining
	}
	if req.DinnersRemaining != nil {
		user.DinnersRemaining = *req.DinnersRemaining
	}
	if req.DrinksRemaining != nil {
		user.DrinksRemaining = *req.DrinksRemaining
	}

	if err := h.db.Save(&user).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Snapshot())
}

func validateCounter(value *int, max int, field string) error {
	if value == nil {
		return nil
	}
	if *value < 0 || *value > max {
		return fmt.Errorf("%w: %s must be between 0 and %d", service.ErrInvalidRequest, field, max)
	}
	return nil
}

// DeleteUser removes a delegate from the registry.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	res := h.db.Delete(&models.User{}, uint(id))
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, service.ErrUserNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

type updateDrinkRequest struct {
	Name     string `json:"name"`
	Quantity *int   `json:"quantity"`
}

// UpdateDrink renames a drink type or sets an absolute stock level.
func (h *AdminHandler) UpdateDrink(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid drink id"})
		return
	}

	var req updateDrinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	drink, err := h.inventory.UpdateDrink(uint(id), req.Name, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, drink)
}

// DeleteDrink removes a drink type from the inventory.
func (h *AdminHandler) DeleteDrink(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid drink id"})
		return
	}

	if err := h.inventory.DeleteDrink(uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "drink deleted"})
}

type mealLogEntry struct {
	ID           uint   `json:"id"`
	UserName     string `json:"user_name"`
	MealType     string `json:"meal_type"`
	ServingPoint string `json:"serving_point,omitempty"`
	ConsumedAt   string `json:"consumed_at"`
}

// MealLogs returns the latest 100 consumption log entries.
func (h *AdminHandler) MealLogs(c *gin.Context) {
	logs, err := h.dashboard.RecentMealLogs(100)
	if err != nil {
		respondError(c, err)
		return
	}

	entries := make([]mealLogEntry, len(logs))
	for i, l := range logs {
		entries[i] = mealLogEntry{
			ID:           l.ID,
			UserName:     l.User.FullName(),
			MealType:     l.MealType,
			ServingPoint: l.ServingPoint,
			ConsumedAt:   l.ConsumedAt.Format("2006-01-02 15:04:05"),
		}
	}
	c.JSON(http.StatusOK, entries)
}
