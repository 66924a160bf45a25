package service

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/amanihq/amani-backend/internal/models"
)

// TransactionRecord is the outward view of a served drink order.
type TransactionRecord struct {
	ID           uint      `json:"id"`
	UserName     string    `json:"user_name"`
	DrinkName    string    `json:"drink_name"`
	Quantity     int       `json:"quantity"`
	ServingPoint string    `json:"serving_point"`
	ServedAt     time.Time `json:"served_at"`
}

// TransactionFilter narrows the transaction listing. Filtering by user
// requires both name parts; the handler layer rejects partial pairs.
type TransactionFilter struct {
	ServingPoint string
	FirstName    string
	LastName     string
}

// TransactionService is the append-only drink-serving log.
type TransactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionService instance.
func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{db: db}
}

// Record appends one transaction inside the caller's transaction. Records are
// never mutated or deleted afterwards.
func (s *TransactionService) Record(tx *gorm.DB, user *models.User, drink *models.DrinkType, quantity int, servingPoint string, servedAt time.Time) (*models.DrinkTransaction, error) {
	t := &models.DrinkTransaction{
		UserID:       user.ID,
		DrinkTypeID:  drink.ID,
		Quantity:     quantity,
		ServingPoint: servingPoint,
		ServedAt:     servedAt,
	}
	if err := tx.Create(t).Error; err != nil {
		return nil, err
	}
	t.User = *user
	t.DrinkType = *drink
	return t, nil
}

// Query lists transactions most-recent-first, optionally narrowed by serving
// point and/or the full user name (both case-insensitive).
func (s *TransactionService) Query(filter TransactionFilter) ([]TransactionRecord, error) {
	q := s.db.Model(&models.DrinkTransaction{}).
		Joins("User").
		Joins("DrinkType").
		Order("served_at DESC")

	if sp := NormalizeName(filter.ServingPoint); sp != "" {
		q = q.Where("LOWER(serving_point) = ?", strings.ToLower(sp))
	}
	if filter.FirstName != "" && filter.LastName != "" {
		q = q.Where(
			`LOWER("User".first_name) = ? AND LOWER("User".last_name) = ?`,
			strings.ToLower(NormalizeName(filter.FirstName)),
			strings.ToLower(NormalizeName(filter.LastName)),
		)
	}

	var transactions []models.DrinkTransaction
	if err := q.Find(&transactions).Error; err != nil {
		return nil, err
	}

	records := make([]TransactionRecord, len(transactions))
	for i, t := range transactions {
		records[i] = NewTransactionRecord(&t)
	}
	return records, nil
}

// NewTransactionRecord converts a persisted transaction (with its user and
// drink type loaded) to the outward shape.
func NewTransactionRecord(t *models.DrinkTransaction) TransactionRecord {
	return TransactionRecord{
		ID:           t.ID,
		UserName:     fmt.Sprintf("%s %s", t.User.FirstName, t.User.LastName),
		DrinkName:    t.DrinkType.Name,
		Quantity:     t.Quantity,
		ServingPoint: t.ServingPoint,
		ServedAt:     t.ServedAt,
	}
}
