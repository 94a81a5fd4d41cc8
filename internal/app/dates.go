package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"echo-daily/internal/diary"
)

var dateParser = newDateParser()

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ResolveDate turns a user supplied date into YYYY-MM-DD. Exact dates pass
// through; phrases such as "yesterday" or "last friday" are resolved
// against now in UTC.
func ResolveDate(text string, now time.Time) (string, error) {
	text = strings.TrimSpace(text)
	now = now.UTC()

	if text == "" || strings.EqualFold(text, "today") {
		return diary.FormatDate(now), nil
	}
	if err := diary.ValidateDate(text); err == nil {
		return text, nil
	}

	r, err := dateParser.Parse(text, now)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", diary.ErrInvalidDate, text, err)
	}
	if r == nil {
		return "", fmt.Errorf("%w: %q", diary.ErrInvalidDate, text)
	}
	return diary.FormatDate(r.Time.UTC()), nil
}

// ResolveMonth returns month unchanged when given, otherwise the month
// containing now.
func ResolveMonth(month string, now time.Time) (string, error) {
	month = strings.TrimSpace(month)
	if month == "" {
		return now.UTC().Format(diary.MonthLayout), nil
	}
	if err := diary.ValidateMonth(month); err != nil {
		return "", err
	}
	return month, nil
}
