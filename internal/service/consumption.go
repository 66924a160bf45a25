package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/amanihq/amani-backend/internal/models"
)

// DrinkReceipt is the full outcome of a successful drink consumption.
type DrinkReceipt struct {
	User           models.Snapshot   `json:"user"`
	Transaction    TransactionRecord `json:"transaction"`
	StockRemaining int               `json:"stock_remaining"`
}

// ConsumptionService coordinates a consumption request end-to-end: resolve
// the user, roll the allowance window, spend allowance (and stock for
// drinks), and record the outcome. Each request runs in one database
// transaction with the affected rows locked, so a failure at any step leaves
// stock and allowance exactly as they were.
type ConsumptionService struct {
	db           *gorm.DB
	ledger       *LedgerService
	inventory    *InventoryService
	transactions *TransactionService
	clock        Clock
	loc          *time.Location
}

// NewConsumptionService creates a new ConsumptionService instance.
func NewConsumptionService(db *gorm.DB, ledger *LedgerService, inventory *InventoryService, transactions *TransactionService, clock Clock, loc *time.Location) *ConsumptionService {
	return &ConsumptionService{
		db:           db,
		ledger:       ledger,
		inventory:    inventory,
		transactions: transactions,
		clock:        clock,
		loc:          loc,
	}
}

// ConsumeMeal spends one lunch or dinner for the identified user and returns
// the post-state snapshot.
func (s *ConsumptionService) ConsumeMeal(ctx context.Context, id Identity, kind string) (*models.Snapshot, error) {
	now := s.clock.Now()
	today := DateIn(now, s.loc)

	var snapshot models.Snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := ResolveUserForUpdate(tx, id)
		if err != nil {
			return err
		}

		if err := s.ledger.CheckAndRollWindow(tx, user, now); err != nil {
			return err
		}

		if kind == models.MealLunch {
			if err := checkLunchDay(user, now.In(s.loc).Weekday()); err != nil {
				return err
			}
		}

		if err := s.ledger.TryConsumeMeal(tx, user, kind, today); err != nil {
			return err
		}

		if err := tx.Create(&models.MealLog{
			UserID:     user.ID,
			MealType:   kind,
			ConsumedAt: now,
		}).Error; err != nil {
			return err
		}

		snapshot = user.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// ConsumeDrink validates the request, then settles stock and allowance
// atomically: both decrements and the transaction record commit together or
// not at all.
func (s *ConsumptionService) ConsumeDrink(ctx context.Context, id Identity, drinkName string, quantity int, servingPoint string) (*DrinkReceipt, error) {
	if NormalizeName(servingPoint) == "" {
		return nil, fmt.Errorf("%w: serving_point is required", ErrInvalidRequest)
	}
	if NormalizeName(drinkName) == "" {
		return nil, fmt.Errorf("%w: drink_name is required", ErrInvalidRequest)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidRequest)
	}

	now := s.clock.Now()

	var receipt DrinkReceipt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := ResolveUserForUpdate(tx, id)
		if err != nil {
			return err
		}

		if err := s.ledger.CheckAndRollWindow(tx, user, now); err != nil {
			return err
		}

		drink, err := FindDrinkForUpdate(tx, drinkName)
		if err != nil {
			return err
		}

		if err := s.inventory.TryDecrement(tx, drink, quantity); err != nil {
			return err
		}
		if err := s.ledger.TryReserveDrinks(tx, user, quantity); err != nil {
			return err
		}

		transaction, err := s.transactions.Record(tx, user, drink, quantity, NormalizeName(servingPoint), now)
		if err != nil {
			return err
		}

		if err := tx.Create(&models.MealLog{
			UserID:       user.ID,
			MealType:     models.MealDrink,
			ServingPoint: transaction.ServingPoint,
			ConsumedAt:   now,
		}).Error; err != nil {
			return err
		}

		receipt = DrinkReceipt{
			User:           user.Snapshot(),
			Transaction:    NewTransactionRecord(transaction),
			StockRemaining: drink.AvailableQuantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// GetStatus resolves the user and returns the current snapshot, rolling the
// allowance window first so a dormant user sees renewed counters.
func (s *ConsumptionService) GetStatus(ctx context.Context, id Identity) (*models.Snapshot, error) {
	now := s.clock.Now()

	var snapshot models.Snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := ResolveUserForUpdate(tx, id)
		if err != nil {
			return err
		}
		if err := s.ledger.CheckAndRollWindow(tx, user, now); err != nil {
			return err
		}
		snapshot = user.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// checkLunchDay enforces day-specific lunch registrations. Delegates without
// day flags paid for the full package and may take lunch on any day.
func checkLunchDay(user *models.User, weekday time.Weekday) error {
	if !user.HasFridayLunch && !user.HasSaturdayLunch {
		return nil
	}

	switch {
	case user.HasFridayLunch && user.HasSaturdayLunch:
		if weekday != time.Friday && weekday != time.Saturday {
			return fmt.Errorf("%w: only registered for Friday and Saturday lunch", ErrLunchDayRestricted)
		}
	case user.HasFridayLunch:
		if weekday != time.Friday {
			return fmt.Errorf("%w: only registered for Friday lunch", ErrLunchDayRestricted)
		}
	default:
		if weekday != time.Saturday {
			return fmt.Errorf("%w: only registered for Saturday lunch", ErrLunchDayRestricted)
		}
	}
	return nil
}
