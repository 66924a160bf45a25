package service

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/amanihq/amani-backend/internal/models"
)

// WindowLength is the rolling allowance period.
const WindowLength = 7 * 24 * time.Hour

// Allowances are the weekly maximums restored at every window roll.
type Allowances struct {
	Lunches int
	Dinners int
	Drinks  int
}

// LedgerService owns the per-user counters and the window-reset bookkeeping.
// All methods expect to run inside the caller's transaction with the user row
// already locked (see ResolveUserForUpdate); they mutate the passed struct to
// mirror what was persisted.
type LedgerService struct {
	allowances Allowances
}

// NewLedgerService creates a ledger enforcing the given weekly maximums.
func NewLedgerService(allowances Allowances) *LedgerService {
	return &LedgerService{allowances: allowances}
}

// Allowances returns the configured weekly maximums.
func (s *LedgerService) Allowances() Allowances { return s.allowances }

// CheckAndRollWindow initializes the allowance window on first use and resets
// all counters once a full week has elapsed. It must run before any allowance
// check so a dormant user's allowance renews exactly at the 7-day boundary.
// Calling it again within the same window is a no-op.
func (s *LedgerService) CheckAndRollWindow(tx *gorm.DB, user *models.User, now time.Time) error {
	if user.AllowanceWindowStart == nil {
		user.AllowanceWindowStart = &now
		return tx.Model(user).Update("allowance_window_start", now).Error
	}

	if now.Sub(*user.AllowanceWindowStart) < WindowLength {
		return nil
	}

	user.LunchesRemaining = s.allowances.Lunches
	user.DinnersRemaining = s.allowances.Dinners
	user.DrinksRemaining = s.allowances.Drinks
	user.AllowanceWindowStart = &now
	user.LastLunchDate = nil
	user.LastDinnerDate = nil

	return tx.Model(user).Updates(map[string]interface{}{
		"lunches_remaining":      s.allowances.Lunches,
		"dinners_remaining":      s.allowances.Dinners,
		"drinks_remaining":       s.allowances.Drinks,
		"allowance_window_start": now,
		"last_lunch_date":        nil,
		"last_dinner_date":       nil,
	}).Error
}

// TryConsumeMeal spends one lunch or dinner. Each kind is capped at one per
// calendar day on top of the weekly counter.
func (s *LedgerService) TryConsumeMeal(tx *gorm.DB, user *models.User, kind string, today time.Time) error {
	var (
		remaining   int
		lastDate    *time.Time
		counterCol  string
		lastDateCol string
	)

	switch kind {
	case models.MealLunch:
		remaining, lastDate = user.LunchesRemaining, user.LastLunchDate
		counterCol, lastDateCol = "lunches_remaining", "last_lunch_date"
	case models.MealDinner:
		remaining, lastDate = user.DinnersRemaining, user.LastDinnerDate
		counterCol, lastDateCol = "dinners_remaining", "last_dinner_date"
	default:
		return fmt.Errorf("%w: unknown meal kind %q", ErrInvalidRequest, kind)
	}

	if remaining <= 0 {
		return fmt.Errorf("%w: no %ses remaining this week", ErrNoAllowanceRemaining, kind)
	}
	if lastDate != nil && lastDate.Equal(today) {
		return fmt.Errorf("%w: %s already taken on %s", ErrAlreadyConsumedToday, kind, today.Format("2006-01-02"))
	}

	// The counter guard repeats in the WHERE clause so a concurrent writer
	// that slipped past the row lock can never drive the counter negative.
	res := tx.Model(user).
		Where(counterCol+" > 0").
		Updates(map[string]interface{}{
			counterCol:  gorm.Expr(counterCol + " - 1"),
			lastDateCol: today,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: no %ses remaining this week", ErrNoAllowanceRemaining, kind)
	}

	switch kind {
	case models.MealLunch:
		user.LunchesRemaining--
		user.LastLunchDate = &today
	case models.MealDinner:
		user.DinnersRemaining--
		user.LastDinnerDate = &today
	}
	return nil
}

// TryReserveDrinks spends quantity units of the weekly drink allowance.
// Drinks have no daily cap; only the weekly ceiling applies.
func (s *LedgerService) TryReserveDrinks(tx *gorm.DB, user *models.User, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidRequest)
	}
	if user.DrinksRemaining < quantity {
		return fmt.Errorf("%w: only %d drinks remaining", ErrInsufficientAllowance, user.DrinksRemaining)
	}

	res := tx.Model(user).
		Where("drinks_remaining >= ?", quantity).
		Update("drinks_remaining", gorm.Expr("drinks_remaining - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: only %d drinks remaining", ErrInsufficientAllowance, user.DrinksRemaining)
	}

	user.DrinksRemaining -= quantity
	return nil
}
