package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amanihq/amani-backend/internal/service"
)

// IdentityRequest carries the delegate lookup key every point-of-service
// call starts from.
type IdentityRequest struct {
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Gender    string `json:"gender" form:"gender"`
}

func (r IdentityRequest) complete() bool {
	return r.FirstName != "" && r.LastName != "" && r.Gender != ""
}

func (r IdentityRequest) identity() service.Identity {
	return service.Identity{FirstName: r.FirstName, LastName: r.LastName, Gender: r.Gender}
}

// DrinkRequest is the body of a drink consumption call.
type DrinkRequest struct {
	IdentityRequest
	DrinkName    string `json:"drink_name"`
	Quantity     *int   `json:"quantity"`
	ServingPoint string `json:"serving_point"`
}

// StockRequest is the body of an inventory restock call.
type StockRequest struct {
	DrinkName string `json:"drink_name"`
	Quantity  *int   `json:"quantity"`
}

// respondError maps service errors onto HTTP statuses. Anything outside the
// known taxonomy is logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrDrinkNotFound),
		errors.Is(err, service.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrLunchDayRestricted),
		errors.Is(err, service.ErrSessionMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrNoAllowanceRemaining),
		errors.Is(err, service.ErrAlreadyConsumedToday),
		errors.Is(err, service.ErrInsufficientAllowance),
		errors.Is(err, service.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
