package main

import (
	"flag"
	"log"
	"os"

	"github.com/amanihq/amani-backend/config"
	"github.com/amanihq/amani-backend/internal/database"
	"github.com/amanihq/amani-backend/internal/importer"
	"github.com/amanihq/amani-backend/internal/service"
)

func main() {
	var (
		rosterPath = flag.String("csv", "", "Path to the delegate roster CSV export")
		lunchPath  = flag.String("lunch-csv", "", "Path to the lunch/BBQ registrations CSV export")
		otherPath  = flag.String("other-csv", "", "Path to the other registrations CSV export")
		reset      = flag.Bool("reset", false, "Delete all existing users before importing")
		update     = flag.Bool("update-existing", false, "Fill missing fields on already-imported users")
	)
	flag.Parse()

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

	im := importer.New(db, service.Allowances{
		Lunches: cfg.WeeklyLunches,
		Dinners: cfg.WeeklyDinners,
		Drinks:  cfg.WeeklyDrinks,
	})
	opts := importer.Options{ResetUsers: *reset, UpdateExisting: *update}

	var result *importer.Result
	switch {
	case *rosterPath != "":
		roster, err := os.Open(*rosterPath)
		if err != nil {
			log.Fatalf("Failed to open roster CSV: %v", err)
		}
		defer roster.Close()

		result, err = im.ImportDelegates(roster, opts)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
	case *lunchPath != "" && *otherPath != "":
		lunch, err := os.Open(*lunchPath)
		if err != nil {
			log.Fatalf("Failed to open lunch CSV: %v", err)
		}
		defer lunch.Close()

		other, err := os.Open(*otherPath)
		if err != nil {
			log.Fatalf("Failed to open other registrations CSV: %v", err)
		}
		defer other.Close()

		result, err = im.ImportEventRegistrations(lunch, other, opts)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
	default:
		log.Fatal("Provide either --csv, or both --lunch-csv and --other-csv")
	}

	log.Printf("Import complete: %d created, %d updated, %d skipped",
		result.Created, result.Updated, result.Skipped)
}
