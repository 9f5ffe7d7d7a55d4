package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
)

// ErrInvalidPeriod is returned for year-month strings that do not parse.
var ErrInvalidPeriod = fmt.Errorf("%w: invalid period, expected YYYY-MM", apperrors.ErrValidation)

var periodPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)

// Period identifies one accounting month.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// ParsePeriod parses "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	m := periodPattern.FindStringSubmatch(s)
	if m == nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	p := Period{Year: year, Month: month}
	if !p.Valid() {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return p, nil
}

// PeriodOf returns the period a date falls in.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

func (p Period) Valid() bool {
	return p.Year >= 1900 && p.Year <= 9999 && p.Month >= 1 && p.Month <= 12
}

// FirstDay returns the first calendar day of the month in UTC.
func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// LastDay returns the last calendar day of the month in UTC.
func (p Period) LastDay() time.Time {
	return p.FirstDay().AddDate(0, 1, -1)
}

// Key orders periods chronologically, e.g. 202403.
func (p Period) Key() int {
	return p.Year*100 + p.Month
}

func (p Period) Before(o Period) bool {
	return p.Key() < o.Key()
}

// AddMonths shifts the period by n months, n may be negative.
func (p Period) AddMonths(n int) Period {
	return PeriodOf(p.FirstDay().AddDate(0, n, 0))
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
