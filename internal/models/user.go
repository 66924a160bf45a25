package models

import (
	"fmt"
	"time"
)

// Gender values accepted for delegate identity matching.
const (
	GenderMale    = "M"
	GenderFemale  = "F"
	GenderUnknown = "UNKNOWN"
)

// User is a registered event delegate. Users are provisioned by the CSV
// import job and never created through the point-of-service API.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FirstName string `gorm:"size:100;not null;uniqueIndex:idx_users_identity" json:"first_name"`
	LastName  string `gorm:"size:100;not null;uniqueIndex:idx_users_identity" json:"last_name"`
	Gender    string `gorm:"size:10;not null;default:'UNKNOWN';uniqueIndex:idx_users_identity" json:"gender"`

	LunchesRemaining int `gorm:"not null" json:"lunches_remaining"`
	DinnersRemaining int `gorm:"not null" json:"dinners_remaining"`
	DrinksRemaining  int `gorm:"not null" json:"drinks_remaining"`

	// AllowanceWindowStart is nil until the delegate's first consumption.
	// Once a week has elapsed the counters reset and the window restarts.
	AllowanceWindowStart *time.Time `json:"allowance_window_start,omitempty"`
	LastLunchDate        *time.Time `json:"last_lunch_date,omitempty"`
	LastDinnerDate       *time.Time `json:"last_dinner_date,omitempty"`

	// Registration metadata carried over from the import sources.
	RotaryClub          string `gorm:"size:100" json:"rotary_club,omitempty"`
	DelegateRegID       string `gorm:"size:50;index" json:"delegate_reg_id,omitempty"`
	ExternalUUID        string `gorm:"size:36;index" json:"external_uuid,omitempty"`
	Membership          string `gorm:"size:20" json:"membership,omitempty"`
	District            string `gorm:"size:50" json:"district,omitempty"`
	DietaryRequirements string `gorm:"size:200" json:"dietary_requirements,omitempty"`
	HasFridayLunch      bool   `json:"has_friday_lunch"`
	HasSaturdayLunch    bool   `json:"has_saturday_lunch"`
	HasBBQ              bool   `json:"has_bbq"`
}

// FullName joins the stored name parts for display and transaction listings.
func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// Snapshot is the post-mutation user state returned by every consumption
// endpoint: identity plus all three remaining counters.
type Snapshot struct {
	ID                  uint   `json:"id"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	FullName            string `json:"full_name"`
	Gender              string `json:"gender"`
	LunchesRemaining    int    `json:"lunches_remaining"`
	DinnersRemaining    int    `json:"dinners_remaining"`
	DrinksRemaining     int    `json:"drinks_remaining"`
	RotaryClub          string `json:"rotary_club,omitempty"`
	Membership          string `json:"membership,omitempty"`
	District            string `json:"district,omitempty"`
	DietaryRequirements string `json:"dietary_requirements,omitempty"`
}

// Snapshot builds the outward-facing view of the user.
func (u *User) Snapshot() Snapshot {
	return Snapshot{
		ID:                  u.ID,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		FullName:            u.FullName(),
		Gender:              u.Gender,
		LunchesRemaining:    u.LunchesRemaining,
		DinnersRemaining:    u.DinnersRemaining,
		DrinksRemaining:     u.DrinksRemaining,
		RotaryClub:          u.RotaryClub,
		Membership:          u.Membership,
		District:            u.District,
		DietaryRequirements: u.DietaryRequirements,
	}
}
