package util

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"wallet-api/internal/errs"

	"github.com/shopspring/decimal"
)

var (
	usernameRe = regexp.MustCompile(`^[a-z0-9_.]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// MaxAmount caps a single record (exclusive), in major units.
var MaxAmount = decimal.NewFromInt(10_000_000)

// NormalizeUsername trims and lowercases, then checks 3-20 characters of
// letters, digits, underscore or period.
func NormalizeUsername(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n := utf8.RuneCountInString(s); n < 3 || n > 20 {
		return "", errs.Invalid("username", "must be between 3 and 20 characters")
	}
	if !usernameRe.MatchString(s) {
		return "", errs.Invalid("username", "may contain only letters, digits, underscore and period")
	}
	return s, nil
}

// NormalizeEmail trims and lowercases, then checks 5-320 characters in
// local@domain.tld form.
func NormalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n := utf8.RuneCountInString(s); n < 5 || n > 320 {
		return "", errs.Invalid("email", "must be between 5 and 320 characters")
	}
	if !emailRe.MatchString(s) {
		return "", errs.Invalid("email", "is not a valid email address")
	}
	return s, nil
}

// ValidatePassword rejects empty passwords and ones bcrypt cannot hash.
func ValidatePassword(s string) error {
	if s == "" {
		return errs.Invalid("password", "is required")
	}
	if len(s) > MaxPasswordBytes {
		return errs.Invalid("password", "must be at most %d bytes", MaxPasswordBytes)
	}
	return nil
}

// NormalizeAccountName trims and checks 3-30 characters without spaces.
func NormalizeAccountName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsFunc(s, unicode.IsSpace) {
		return "", errs.Invalid("name", "account name can not contain spaces")
	}
	if n := utf8.RuneCountInString(s); n < 3 || n > 30 {
		return "", errs.Invalid("name", "must be between 3 and 30 characters")
	}
	return s, nil
}

// NormalizeCategoryName trims, checks 3-30 letters and spaces, and returns
// the capitalized form ("food and drinks" -> "Food and drinks").
func NormalizeCategoryName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if n := utf8.RuneCountInString(s); n < 3 || n > 30 {
		return "", errs.Invalid("name", "must be between 3 and 30 characters")
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != ' ' {
			return "", errs.Invalid("name", "category name may contain only letters and spaces")
		}
	}
	return capitalize(s), nil
}

func capitalize(s string) string {
	lower := strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(r)) + lower[size:]
}

// AmountToCents converts a positive amount with at most two decimals into
// minor units.
func AmountToCents(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, errs.Invalid("amount", "must be positive")
	}
	if !amount.LessThan(MaxAmount) {
		return 0, errs.Invalid("amount", "must be less than %s", MaxAmount.String())
	}
	cents := amount.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, errs.Invalid("amount", "must have at most two decimal places")
	}
	return cents.IntPart(), nil
}

// FormatCents renders minor units as a two-decimal string, e.g. -2050 -> "-20.50".
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseOccurredAt accepts RFC3339, a timestamp without offset or a bare date,
// and returns UTC. Values without an offset are read as UTC. Empty input means
// now. Dates after today are rejected.
func ParseOccurredAt(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now.UTC(), nil
	}
	var (
		t   time.Time
		err error
	)
	for _, layout := range dateLayouts {
		if t, err = time.Parse(layout, s); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, errs.Invalid("occurred_at", "invalid date format")
	}
	if t.Format("2006-01-02") > now.Format("2006-01-02") {
		return time.Time{}, errs.Invalid("occurred_at", "can not be later than today")
	}
	return t.UTC(), nil
}
