package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

	// Plate grammar, applied after separators are stripped:
	// two letters, two digits, one or two letters, four digits.
	plateRegex = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z]{1,2}[0-9]{4}$`)

	plateSeparators = strings.NewReplacer(" ", "", "-", "")
)

// DateLayout is the calendar-date format used on compliance documents.
const DateLayout = "2006-01-02"

// ErrBadPlate reports a vehicle number that does not match the plate grammar.
type ErrBadPlate struct{ Raw string }

func (e ErrBadPlate) Error() string {
	return fmt.Sprintf("vehicle number %q does not match plate format", e.Raw)
}

// ErrExpiredDoc reports the first compliance document found already expired.
type ErrExpiredDoc struct{ Name string }

func (e ErrExpiredDoc) Error() string {
	return fmt.Sprintf("document %q is expired", e.Name)
}

// NormalizePlate uppercases a raw vehicle number, strips space and hyphen
// separators, and checks it against the plate grammar. Returns the compact
// normalized form, e.g. "tn 01 ab 1234" -> "TN01AB1234".
func NormalizePlate(raw string) (string, error) {
	plate := plateSeparators.Replace(strings.ToUpper(strings.TrimSpace(raw)))
	if !plateRegex.MatchString(plate) {
		return "", ErrBadPlate{Raw: raw}
	}
	return plate, nil
}

// Document is the minimal shape CheckCompliance needs: a name and an
// expiry date string in DateLayout form.
type Document struct {
	Name       string
	ExpiryDate string
}

// CheckCompliance scans documents in order and fails on the first whose
// expiry date is strictly before today (date precision, not instant).
// Unparsable dates are skipped when strict is false, matching the legacy
// behavior of the system this replaces; with strict true they fail the
// check as if expired.
func CheckCompliance(docs []Document, today time.Time, strict bool) error {
	y, m, d := today.UTC().Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	for _, doc := range docs {
		exp, err := time.Parse(DateLayout, doc.ExpiryDate)
		if err != nil {
			if strict {
				return ErrExpiredDoc{Name: doc.Name}
			}
			continue
		}
		if exp.Before(day) {
			return ErrExpiredDoc{Name: doc.Name}
		}
	}
	return nil
}

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && emailRegex.MatchString(email) && len(email) <= 200
}

func ValidatePhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	return phone != "" && phoneRegex.MatchString(phone) && len(phone) <= 50
}

func ValidateName(name string) bool {
	name = strings.TrimSpace(name)
	return len(name) >= 2 && len(name) <= 200
}

func ValidatePassword(password string) bool {
	return len(password) >= 6 && len(password) <= 100
}

func ValidateCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
