package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxTitleLength = 200

var (
	ErrTitleRequired = errors.New("title is required")
	ErrTitleTooLong  = fmt.Errorf("title is too long (max %d characters)", MaxTitleLength)
	ErrInvalidYear   = errors.New("year must be between 1900 and 9999")
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
	ErrInvalidDay    = errors.New("day does not exist in that month")
)

// ValidateTitle trims the title and checks it is non-empty and not too long.
// It returns the trimmed form.
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return trimmed, nil
}

func ValidateYear(year int) error {
	if year < 1900 || year > 9999 {
		return ErrInvalidYear
	}
	return nil
}

func ValidateMonth(month int) error {
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// ValidateDay checks that day is a real calendar day of year/month.
func ValidateDay(year, month, day int) error {
	if err := ValidateMonth(month); err != nil {
		return err
	}
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day < 1 || day > last {
		return ErrInvalidDay
	}
	return nil
}
