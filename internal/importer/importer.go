// Package importer loads delegate registrations from CSV exports into the
// user table. It is the only component that creates users; the
// point-of-service API never does.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amanihq/amani-backend/internal/models"
	"github.com/amanihq/amani-backend/internal/service"
)

// Options control how an import run treats existing rows.
type Options struct {
	// ResetUsers deletes every existing user before importing.
	ResetUsers bool
	// UpdateExisting fills missing fields on matched users instead of
	// skipping them.
	UpdateExisting bool
}

// Result summarizes an import run.
type Result struct {
	Created int
	Updated int
	Skipped int
}

// Importer writes delegate rows inside a single database transaction.
type Importer struct {
	db         *gorm.DB
	allowances service.Allowances
}

// New creates an Importer that provisions new users with the given weekly
// allowances.
func New(db *gorm.DB, allowances service.Allowances) *Importer {
	return &Importer{db: db, allowances: allowances}
}

// ImportDelegates loads a delegate roster export (one row per person with
// explicit gender and registration metadata).
func (im *Importer) ImportDelegates(r io.Reader, opts Options) (*Result, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	err = im.db.Transaction(func(tx *gorm.DB) error {
		if opts.ResetUsers {
			if err := tx.Where("1 = 1").Delete(&models.User{}).Error; err != nil {
				return err
			}
		}

		for _, row := range rows {
			firstName, lastName := service.SplitFullName(row["Fullname"])
			if firstName == "" {
				result.Skipped++
				continue
			}

			externalUUID := normalizeUUID(row["UUID"])
			regID := NormalizeRegID(row["Reg ID"])
			gender := service.NormalizeGender(row["Gender"])
			dietary := strings.TrimSpace(row["Dietary Requirements"])
			if strings.EqualFold(dietary, "NONE") {
				dietary = ""
			}

			existing, err := findExisting(tx, externalUUID, regID, firstName, lastName, gender)
			if err != nil {
				return err
			}

			if existing != nil {
				if !opts.UpdateExisting {
					result.Skipped++
					continue
				}
				if fillMissing(existing, gender, externalUUID, regID, row, dietary) {
					if err := tx.Save(existing).Error; err != nil {
						return err
					}
					result.Updated++
				} else {
					result.Skipped++
				}
				continue
			}

			user := models.User{
				FirstName:           firstName,
				LastName:            lastName,
				Gender:              gender,
				ExternalUUID:        externalUUID,
				DelegateRegID:       regID,
				Membership:          strings.TrimSpace(row["Membership"]),
				RotaryClub:          strings.TrimSpace(row["Club"]),
				District:            strings.TrimSpace(row["District"]),
				DietaryRequirements: dietary,
				LunchesRemaining:    im.allowances.Lunches,
				DinnersRemaining:    im.allowances.Dinners,
				DrinksRemaining:     im.allowances.Drinks,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// person aggregates everything the registration exports say about one
// delegate before any database write happens.
type person struct {
	fullName         string
	delegateRegID    string
	externalUUID     string
	membership       string
	clubName         string
	inferredGender   string
	hasFridayLunch   bool
	hasSaturdayLunch bool
	hasBBQ           bool
	lunchSlots       int
	dinnerSlots      int
}

// ImportEventRegistrations loads the meal registration exports: a lunch/BBQ
// sheet whose "Extra Name" column names the purchased slot, and a second
// sheet of other registrations. Gender is inferred from gendered merchandise
// rows; conflicting hints collapse to UNKNOWN.
func (im *Importer) ImportEventRegistrations(lunchCSV, otherCSV io.Reader, opts Options) (*Result, error) {
	people := map[string]*person{}

	upsert := func(row map[string]string) *person {
		fullName := service.NormalizeName(row["Delegate Name"])
		if fullName == "" {
			return nil
		}

		regID := NormalizeRegID(row["Delegate Reg ID"])
		externalUUID := normalizeUUID(row["UUID"])

		key := externalUUID
		if key == "" {
			key = regID
		}
		if key == "" {
			key = strings.ToLower(fullName)
		}

		p := people[key]
		if p == nil {
			p = &person{fullName: fullName, inferredGender: models.GenderUnknown}
			people[key] = p
		}

		if p.delegateRegID == "" {
			p.delegateRegID = regID
		}
		if p.externalUUID == "" {
			p.externalUUID = externalUUID
		}
		if p.membership == "" {
			p.membership = strings.TrimSpace(row["Membership"])
		}
		if p.clubName == "" {
			p.clubName = strings.TrimSpace(row["Club Name"])
		}
		p.inferredGender = chooseGender(p.inferredGender, InferGenderFromExtra(row["Extra Name"]))
		return p
	}

	lunchRows, err := readCSV(lunchCSV)
	if err != nil {
		return nil, err
	}
	for _, row := range lunchRows {
		p := upsert(row)
		if p == nil {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(row["Extra Name"])) {
		case "friday lunch":
			p.hasFridayLunch = true
			p.lunchSlots++
		case "saturday lunch":
			p.hasSaturdayLunch = true
			p.lunchSlots++
		case "meat & greet bbq":
			p.hasBBQ = true
			p.dinnerSlots++
		}
	}

	otherRows, err := readCSV(otherCSV)
	if err != nil {
		return nil, err
	}
	for _, row := range otherRows {
		upsert(row)
	}

	if len(people) == 0 {
		return nil, fmt.Errorf("no rows imported from source CSV files")
	}

	result := &Result{}
	err = im.db.Transaction(func(tx *gorm.DB) error {
		if opts.ResetUsers {
			if err := tx.Where("1 = 1").Delete(&models.User{}).Error; err != nil {
				return err
			}
		}

		for _, p := range people {
			firstName, lastName := service.SplitFullName(p.fullName)
			if firstName == "" {
				result.Skipped++
				continue
			}

			existing, err := findExisting(tx, p.externalUUID, p.delegateRegID, firstName, lastName, p.inferredGender)
			if err != nil {
				return err
			}

			user := existing
			if user == nil {
				user = &models.User{FirstName: firstName, LastName: lastName, Gender: p.inferredGender}
			} else {
				user.FirstName = firstName
				user.LastName = lastName
				// Only replace UNKNOWN with a concrete gender
				if user.Gender == models.GenderUnknown && p.inferredGender != models.GenderUnknown {
					user.Gender = p.inferredGender
				}
			}

			user.RotaryClub = p.clubName
			user.DelegateRegID = p.delegateRegID
			user.ExternalUUID = p.externalUUID
			user.Membership = p.membership
			user.HasFridayLunch = p.hasFridayLunch
			user.HasSaturdayLunch = p.hasSaturdayLunch
			user.HasBBQ = p.hasBBQ
			user.LunchesRemaining = capCounter(p.lunchSlots, im.allowances.Lunches)
			user.DinnersRemaining = capCounter(p.dinnerSlots, im.allowances.Dinners)
			user.DrinksRemaining = im.allowances.Drinks

			if existing != nil {
				if err := tx.Save(user).Error; err != nil {
					return err
				}
				result.Updated++
			} else {
				if err := tx.Create(user).Error; err != nil {
					return err
				}
				result.Created++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// NormalizeRegID strips whitespace and the spreadsheet float artifact
// ("7406.0" arrives for numeric cells).
func NormalizeRegID(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimSuffix(value, ".0")
	return value
}

// InferGenderFromExtra guesses gender from gendered merchandise names on the
// registration sheet (bags, shirts, blouses).
func InferGenderFromExtra(extraName string) string {
	value := strings.ToLower(strings.TrimSpace(extraName))
	switch {
	case strings.Contains(value, "female bag") || strings.Contains(value, "blouse"):
		return models.GenderFemale
	case strings.Contains(value, "male bag") || strings.Contains(value, "shirt"):
		return models.GenderMale
	default:
		return models.GenderUnknown
	}
}

// chooseGender merges gender hints from multiple source rows. Conflicting
// concrete hints collapse to UNKNOWN rather than risking a wrong assignment.
func chooseGender(current, incoming string) string {
	switch {
	case incoming == models.GenderUnknown:
		return current
	case current == models.GenderUnknown:
		return incoming
	case current == incoming:
		return current
	default:
		return models.GenderUnknown
	}
}

// normalizeUUID keeps only well-formed UUIDs so the stable-ID matching never
// keys on spreadsheet garbage.
func normalizeUUID(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return ""
	}
	return parsed.String()
}

func capCounter(value, max int) int {
	if value > max {
		return max
	}
	if value < 0 {
		return 0
	}
	return value
}

// findExisting matches a source row to a stored user: stable IDs first
// (external UUID, then reg ID), name plus gender as the fallback.
func findExisting(tx *gorm.DB, externalUUID, regID, firstName, lastName, gender string) (*models.User, error) {
	var user models.User

	if externalUUID != "" {
		err := tx.Where("external_uuid = ?", externalUUID).First(&user).Error
		if err == nil {
			return &user, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	if regID != "" {
		err := tx.Where("delegate_reg_id = ?", regID).First(&user).Error
		if err == nil {
			return &user, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	var candidates []models.User
	err := tx.Where("LOWER(first_name) = ? AND LOWER(last_name) = ?",
		strings.ToLower(firstName), strings.ToLower(lastName)).
		Order("id").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	if gender != models.GenderUnknown {
		for i := range candidates {
			if candidates[i].Gender == gender {
				return &candidates[i], nil
			}
		}
	}
	return &candidates[0], nil
}

// readCSV parses the whole file into header-keyed rows, tolerating a UTF-8
// BOM from spreadsheet exports.
func readCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// fillMissing copies concrete values onto a matched user without
// overwriting anything already set. Returns true when a field changed.
func fillMissing(user *models.User, gender, externalUUID, regID string, row map[string]string, dietary string) bool {
	changed := false
	if user.Gender == models.GenderUnknown && gender != models.GenderUnknown {
		user.Gender = gender
		changed = true
	}
	if user.ExternalUUID == "" && externalUUID != "" {
		user.ExternalUUID = externalUUID
		changed = true
	}
	if user.DelegateRegID == "" && regID != "" {
		user.DelegateRegID = regID
		changed = true
	}
	if membership := strings.TrimSpace(row["Membership"]); user.Membership == "" && membership != "" {
		user.Membership = membership
		changed = true
	}
	if club := strings.TrimSpace(row["Club"]); user.RotaryClub == "" && club != "" {
		user.RotaryClub = club
		changed = true
	}
	if district := strings.TrimSpace(row["District"]); user.District == "" && district != "" {
		user.District = district
		changed = true
	}
	if user.DietaryRequirements == "" && dietary != "" {
		user.DietaryRequirements = dietary
		changed = true
	}
	return changed
}
