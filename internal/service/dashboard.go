package service

import (
	"time"

	"gorm.io/gorm"

	"github.com/amanihq/amani-backend/internal/models"
)

// LowStockThreshold is the stock level below which a drink is flagged on the
// dashboard.
const LowStockThreshold = 50

// DashboardStats summarizes live system state for the admin dashboard and
// the assistant's context block.
type DashboardStats struct {
	TotalUsers         int64               `json:"total_users"`
	TotalDrinkTypes    int64               `json:"total_drink_types"`
	TotalTransactions  int64               `json:"total_transactions"`
	MealsToday         int64               `json:"meals_today"`
	RecentTransactions []TransactionRecord `json:"recent_transactions"`
	LowStockDrinks     []models.DrinkType  `json:"low_stock_drinks"`
	GeneratedAt        time.Time           `json:"generated_at"`
}

// DashboardService aggregates read-only operational statistics.
type DashboardService struct {
	db  *gorm.DB
	loc *time.Location
}

// NewDashboardService creates a new DashboardService instance.
func NewDashboardService(db *gorm.DB, loc *time.Location) *DashboardService {
	return &DashboardService{db: db, loc: loc}
}

// Stats collects the dashboard counters as of now.
func (s *DashboardService) Stats(now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{GeneratedAt: now}

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.DrinkType{}).Count(&stats.TotalDrinkTypes).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.DrinkTransaction{}).Count(&stats.TotalTransactions).Error; err != nil {
		return nil, err
	}

	dayStart := DateIn(now, s.loc)
	dayEnd := dayStart.Add(24 * time.Hour)
	if err := s.db.Model(&models.MealLog{}).
		Where("consumed_at >= ? AND consumed_at < ?", dayStart, dayEnd).
		Count(&stats.MealsToday).Error; err != nil {
		return nil, err
	}

	var recent []models.DrinkTransaction
	if err := s.db.Joins("User").Joins("DrinkType").
		Order("served_at DESC").Limit(5).Find(&recent).Error; err != nil {
		return nil, err
	}
	stats.RecentTransactions = make([]TransactionRecord, len(recent))
	for i, t := range recent {
		stats.RecentTransactions[i] = NewTransactionRecord(&t)
	}

	if err := s.db.Where("available_quantity < ?", LowStockThreshold).
		Order("available_quantity").Find(&stats.LowStockDrinks).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// RecentMealLogs returns the latest consumption log entries with users loaded.
func (s *DashboardService) RecentMealLogs(limit int) ([]models.MealLog, error) {
	var logs []models.MealLog
	if err := s.db.Joins("User").Order("consumed_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
