package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used in documents and storage.
const DateLayout = "2006-01-02"

// Date is a calendar day at UTC midnight.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return NewDate(t), nil
}

// AddWeeks returns the date n weeks later.
func (d Date) AddWeeks(n int) Date {
	return Date{d.AddDate(0, 0, 7*n)}
}

// Period is the calendar month key, e.g. "2025-02".
func (d Date) Period() string {
	return d.Format("2006-01")
}

// MonthLabel is e.g. "February 2025".
func (d Date) MonthLabel() string {
	return d.Format("January 2006")
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MaxDate returns the latest of the dates.
func MaxDate(dates ...Date) Date {
	var out Date
	for i, d := range dates {
		if i == 0 || d.After(out) {
			out = d
		}
	}
	return out
}
