package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/amanihq/amani-backend/internal/models"
)

// InventoryService manages per-drink-type stock levels.
type InventoryService struct {
	db *gorm.DB
}

// NewInventoryService creates a new InventoryService instance.
func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// ListDrinks returns every drink type with its current stock.
func (s *InventoryService) ListDrinks() ([]models.DrinkType, error) {
	var drinks []models.DrinkType
	if err := s.db.Order("name").Find(&drinks).Error; err != nil {
		return nil, err
	}
	return drinks, nil
}

// GetStock looks a drink type up by name (case-insensitive).
func (s *InventoryService) GetStock(name string) (*models.DrinkType, error) {
	return findDrinkByName(s.db, name)
}

// UpsertStock creates the drink type with the given stock, or adds the
// quantity to existing stock. Restocks are additive, never an overwrite.
// The returned flag tells the caller whether the type was created.
func (s *InventoryService) UpsertStock(name string, quantity int) (*models.DrinkType, bool, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, false, fmt.Errorf("%w: drink_name is required", ErrInvalidRequest)
	}
	if quantity < 0 {
		return nil, false, fmt.Errorf("%w: quantity must be a non-negative integer", ErrInvalidRequest)
	}

	var drink *models.DrinkType
	created := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findDrinkByName(lockForUpdate(tx), name)
		if errors.Is(err, ErrDrinkNotFound) {
			drink = &models.DrinkType{Name: name, AvailableQuantity: quantity}
			created = true
			return tx.Create(drink).Error
		}
		if err != nil {
			return err
		}

		if err := tx.Model(existing).
			Update("available_quantity", gorm.Expr("available_quantity + ?", quantity)).Error; err != nil {
			return err
		}
		existing.AvailableQuantity += quantity
		drink = existing
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return drink, created, nil
}

// TryDecrement atomically takes quantity units off the drink's stock inside
// the caller's transaction. The row must already be locked (see
// FindDrinkForUpdate); the conditional UPDATE is the final guard against a
// negative stock level.
func (s *InventoryService) TryDecrement(tx *gorm.DB, drink *models.DrinkType, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidRequest)
	}
	if drink.AvailableQuantity < quantity {
		return fmt.Errorf("%w: only %d %s available", ErrInsufficientStock, drink.AvailableQuantity, drink.Name)
	}

	res := tx.Model(drink).
		Where("available_quantity >= ?", quantity).
		Update("available_quantity", gorm.Expr("available_quantity - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: only %d %s available", ErrInsufficientStock, drink.AvailableQuantity, drink.Name)
	}

	drink.AvailableQuantity -= quantity
	return nil
}

// UpdateDrink renames a drink type and/or sets an absolute stock level
// (admin correction, unlike the additive public restock).
func (s *InventoryService) UpdateDrink(id uint, name string, quantity *int) (*models.DrinkType, error) {
	var drink models.DrinkType
	if err := s.db.First(&drink, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrinkNotFound
		}
		return nil, err
	}

	if name = NormalizeName(name); name != "" {
		drink.Name = name
	}
	if quantity != nil {
		if *quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must be a non-negative integer", ErrInvalidRequest)
		}
		drink.AvailableQuantity = *quantity
	}

	if err := s.db.Save(&drink).Error; err != nil {
		return nil, err
	}
	return &drink, nil
}

// DeleteDrink removes a drink type from the inventory.
func (s *InventoryService) DeleteDrink(id uint) error {
	res := s.db.Delete(&models.DrinkType{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDrinkNotFound
	}
	return nil
}

// FindDrinkForUpdate resolves a drink type by name under an exclusive lock.
func FindDrinkForUpdate(tx *gorm.DB, name string) (*models.DrinkType, error) {
	return findDrinkByName(lockForUpdate(tx), name)
}

func findDrinkByName(tx *gorm.DB, name string) (*models.DrinkType, error) {
	var drink models.DrinkType
	err := tx.Where("LOWER(name) = ?", strings.ToLower(NormalizeName(name))).First(&drink).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrDrinkNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &drink, nil
}
