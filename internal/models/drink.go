package models

import "time"

// DrinkType is a stocked drink. Quantity only ever changes through additive
// restocks or atomic decrements tied to a successful consumption.
type DrinkType struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Name              string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	AvailableQuantity int       `gorm:"not null;default:0" json:"available_quantity"`
}

// DrinkTransaction is the immutable record of one served drink order.
type DrinkTransaction struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"-"`
	User         User      `json:"-"`
	DrinkTypeID  uint      `gorm:"not null;index" json:"-"`
	DrinkType    DrinkType `json:"-"`
	Quantity     int       `gorm:"not null;default:1" json:"quantity"`
	ServingPoint string    `gorm:"size:100;not null" json:"serving_point"`
	ServedAt     time.Time `gorm:"not null;index" json:"served_at"`
}

// Meal kinds recorded in the consumption log.
const (
	MealLunch  = "lunch"
	MealDinner = "dinner"
	MealDrink  = "drink"
)

// MealLog records every successful consumption for the admin views.
type MealLog struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         User      `json:"-"`
	MealType     string    `gorm:"size:10;not null" json:"meal_type"`
	ServingPoint string    `gorm:"size:100" json:"serving_point,omitempty"`
	ConsumedAt   time.Time `gorm:"not null;index" json:"consumed_at"`
}
