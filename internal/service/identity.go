package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amanihq/amani-backend/internal/models"
)

// Identity is the lookup key scanners send: both names plus a gender hint.
type Identity struct {
	FirstName string
	LastName  string
	Gender    string
}

// Normalized returns the identity with names whitespace-collapsed and the
// gender mapped onto M/F/UNKNOWN.
func (id Identity) Normalized() Identity {
	return Identity{
		FirstName: NormalizeName(id.FirstName),
		LastName:  NormalizeName(id.LastName),
		Gender:    NormalizeGender(id.Gender),
	}
}

// NormalizeName trims and collapses internal whitespace, preserving titles.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// NormalizeGender maps the common scanner inputs (F/FEMALE, M/MALE, any case)
// onto the stored gender values.
func NormalizeGender(gender string) string {
	switch strings.ToUpper(strings.TrimSpace(gender)) {
	case "F", "FEMALE":
		return models.GenderFemale
	case "M", "MALE":
		return models.GenderMale
	default:
		return models.GenderUnknown
	}
}

// SplitFullName splits a registration full name into first and last parts.
func SplitFullName(fullName string) (string, string) {
	normalized := NormalizeName(fullName)
	if normalized == "" {
		return "", ""
	}
	parts := strings.SplitN(normalized, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// ResolveUser finds the delegate matching the identity. Name matching is
// case-insensitive; when several rows share the name, a gender match wins and
// the first row is the fallback (registration gender hints are unreliable).
// Users are only ever created by the import job, never here.
func ResolveUser(tx *gorm.DB, id Identity) (*models.User, error) {
	norm := id.Normalized()

	var candidates []models.User
	err := tx.
		Where("LOWER(first_name) = ? AND LOWER(last_name) = ?",
			strings.ToLower(norm.FirstName), strings.ToLower(norm.LastName)).
		Order("id").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrUserNotFound
	}

	for i := range candidates {
		if candidates[i].Gender == norm.Gender {
			return &candidates[i], nil
		}
	}
	return &candidates[0], nil
}

// ResolveUserForUpdate resolves the identity and re-reads the row under an
// exclusive lock so the caller's transaction owns all counter mutations.
func ResolveUserForUpdate(tx *gorm.DB, id Identity) (*models.User, error) {
	user, err := ResolveUser(tx, id)
	if err != nil {
		return nil, err
	}

	var locked models.User
	if err := lockForUpdate(tx).First(&locked, user.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &locked, nil
}

// lockForUpdate takes a row-level lock on postgres. SQLite has a single
// writer, so the plain query is already exclusive there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
