package main

import (
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/amanihq/amani-backend/config"
	"github.com/amanihq/amani-backend/internal/database"
	"github.com/amanihq/amani-backend/internal/models"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	drinks := []models.DrinkType{
		{Name: "Soda", AvailableQuantity: 200},
		{Name: "Water", AvailableQuantity: 300},
		{Name: "Beer", AvailableQuantity: 150},
		{Name: "Wine", AvailableQuantity: 80},
		{Name: "Juice", AvailableQuantity: 120},
	}

	users := []models.User{
		{
			FirstName: "Grace", LastName: "Mwangi", Gender: models.GenderFemale,
			RotaryClub: "RC Nairobi", Membership: "Rotarian",
			HasFridayLunch: true, HasSaturdayLunch: true, HasBBQ: true,
		},
		{
			FirstName: "David", LastName: "Otieno", Gender: models.GenderMale,
			RotaryClub: "RC Mombasa", Membership: "Rotarian",
			HasFridayLunch: true, HasBBQ: true,
		},
		{
			FirstName: "Amina", LastName: "Hassan", Gender: models.GenderFemale,
			RotaryClub: "RC Dar es Salaam", Membership: "Rotaractor",
			HasSaturdayLunch: true,
		},
	}

	for _, d := range drinks {
		var existing models.DrinkType
		err := db.Where("LOWER(name) = ?", strings.ToLower(d.Name)).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to look up drink %q: %v", d.Name, err)
		}
		if err := db.Create(&d).Error; err != nil {
			log.Fatalf("Failed to seed drink %q: %v", d.Name, err)
		}
		log.Printf("Seeded drink %q with %d units", d.Name, d.AvailableQuantity)
	}

	for _, u := range users {
		var existing models.User
		err := db.Where("LOWER(first_name) = ? AND LOWER(last_name) = ?",
			strings.ToLower(u.FirstName), strings.ToLower(u.LastName)).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to look up user %s %s: %v", u.FirstName, u.LastName, err)
		}
		u.LunchesRemaining = cfg.WeeklyLunches
		u.DinnersRemaining = cfg.WeeklyDinners
		u.DrinksRemaining = cfg.WeeklyDrinks
		if err := db.Create(&u).Error; err != nil {
			log.Fatalf("Failed to seed user %s %s: %v", u.FirstName, u.LastName, err)
		}
		log.Printf("Seeded user %s %s", u.FirstName, u.LastName)
	}

	log.Println("Demo data seeded")
}
