package heatmap

import (
	"fmt"
	"slices"
	"time"

	"github.com/etnz/heatmap/date"
)

// Session is one trading date of a Calendar, decomposed in its calendar fields.
type Session struct {
	Date    date.Date
	Year    int
	Quarter int
	Month   time.Month
	ISOYear int
	Week    int // ISO week
	Weekday time.Weekday
}

func newSession(d date.Date) Session {
	isoYear, week := d.ISOWeek()
	return Session{
		Date:    d,
		Year:    d.Year(),
		Quarter: d.Quarter(),
		Month:   d.Month(),
		ISOYear: isoYear,
		Week:    week,
		Weekday: d.Weekday(),
	}
}

// Calendar indexes the trading dates of a price series by position.
//
// Positions are the addressing unit of windows: position i is the i-th trading date in ascending
// order. A Calendar is immutable.
type Calendar struct {
	sessions []Session
}

// NewCalendar builds the Calendar of a strictly ascending list of trading dates.
func NewCalendar(days []date.Date) (*Calendar, error) {
	if len(days) == 0 {
		return nil, ErrEmptyCalendar
	}
	sessions := make([]Session, 0, len(days))
	for i, d := range days {
		if i > 0 && !d.After(days[i-1]) {
			return nil, fmt.Errorf("calendar dates must be strictly ascending: %v at position %d follows %v", d, i, days[i-1])
		}
		sessions = append(sessions, newSession(d))
	}
	return &Calendar{sessions: sessions}, nil
}

// Len returns the number of sessions.
func (c *Calendar) Len() int { return len(c.sessions) }

// At returns the session at position i.
func (c *Calendar) At(i int) Session { return c.sessions[i] }

// Last returns the most recent session.
func (c *Calendar) Last() Session { return c.sessions[len(c.sessions)-1] }

// search returns the position of day, or where it would be inserted.
func (c *Calendar) search(day date.Date) (int, bool) {
	return slices.BinarySearchFunc(c.sessions, day, func(s Session, d date.Date) int { return s.Date.Compare(d) })
}

// Contains reports whether day is a trading session.
func (c *Calendar) Contains(day date.Date) bool {
	_, found := c.search(day)
	return found
}

// LastBefore returns the position of the last session strictly before day, or -1 if there is none.
func (c *Calendar) LastBefore(day date.Date) int {
	i, _ := c.search(day)
	return i - 1
}
