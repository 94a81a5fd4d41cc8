package diary

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the format of Entry.EntryDate.
	DateLayout = "2006-01-02"
	// MonthLayout is the format accepted by month-scoped listings.
	MonthLayout = "2006-01"
)

// ValidateDate checks that value is a real calendar date in YYYY-MM-DD form.
func ValidateDate(value string) error {
	if len(value) != len(DateLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return nil
}

// ValidateMonth checks that value is a year-month in YYYY-MM form.
func ValidateMonth(value string) error {
	if len(value) != len(MonthLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	if _, err := time.Parse(MonthLayout, value); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return nil
}

// FormatDate renders t's calendar date (in t's location) as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
