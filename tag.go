package heatmap

import (
	"fmt"
	"strings"

	"github.com/etnz/heatmap/date"
)

// Tag names a reporting window.
type Tag string

const (
	OneDay  Tag = "1D"
	OneWeek Tag = "1W"
	MTD     Tag = "MTD"
	QTD     Tag = "QTD"
	YTD     Tag = "YTD"
	OneYear Tag = "1Y"
)

// Tags lists every supported tag, shortest window first.
var Tags = []Tag{OneDay, OneWeek, MTD, QTD, YTD, OneYear}

// TradingYear is the number of sessions used to approximate one calendar year.
const TradingYear = 252

// ParseTag parses a tag, ignoring case and surrounding spaces.
func ParseTag(s string) (Tag, error) {
	t := Tag(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case OneDay, OneWeek, MTD, QTD, YTD, OneYear:
		return t, nil
	default:
		return "", &UnsupportedPeriodError{Tag: s}
	}
}

// Period returns the calendar bucket of a to-date tag.
// ok is false for tags that are not anchored on a calendar bucket (1D, 1Y).
func (t Tag) Period() (p date.Period, ok bool) {
	switch t {
	case OneWeek:
		return date.Weekly, true
	case MTD:
		return date.Monthly, true
	case QTD:
		return date.Quarterly, true
	case YTD:
		return date.Yearly, true
	default:
		return date.Daily, false
	}
}

// ToDateName returns a human name for the window (e.g., "Month-to-Date").
func (t Tag) ToDateName() string {
	switch t {
	case OneDay:
		return "Today's"
	case OneWeek:
		return "Week-to-Date"
	case MTD:
		return "Month-to-Date"
	case QTD:
		return "Quarter-to-Date"
	case YTD:
		return "Year-to-Date"
	case OneYear:
		return "One Year"
	default:
		return string(t)
	}
}

// Bound returns the symmetric color bound used to display returns over that window.
func (t Tag) Bound() float64 {
	switch t {
	case OneDay:
		return 0.03
	case OneWeek:
		return 0.1
	case MTD:
		return 0.2
	case QTD:
		return 0.3
	default:
		return 0.5
	}
}

// Bucket identifies the calendar bucket containing 'on' in a short form:
// "37W2025", "9M2025", "3Q2025". It is empty for tags without a bucket worth naming.
func (t Tag) Bucket(on date.Date) string {
	switch t {
	case OneWeek:
		year, week := on.ISOWeek()
		return fmt.Sprintf("%dW%d", week, year)
	case MTD:
		return fmt.Sprintf("%dM%d", on.Month(), on.Year())
	case QTD:
		return fmt.Sprintf("%dQ%d", on.Quarter(), on.Year())
	default:
		return ""
	}
}
