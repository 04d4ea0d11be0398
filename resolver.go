package heatmap

import "github.com/etnz/heatmap/date"

// Window is a resolved period: returns are computed as price[Current]/price[Anchor] - 1.
//
// Anchor may be negative when the calendar does not reach far enough in the past.
type Window struct {
	Tag     Tag
	Anchor  int
	Current int
}

// Resolver turns period tags into windows over a Calendar.
type Resolver struct {
	cal  *Calendar
	asOf date.Date
}

// NewResolver returns a Resolver for the calendar.
//
// asOf selects the current week, month, quarter or year of the to-date tags. A zero asOf stands
// for the date of the last session.
func NewResolver(cal *Calendar, asOf date.Date) *Resolver {
	if asOf.IsZero() {
		asOf = cal.Last().Date
	}
	return &Resolver{cal: cal, asOf: asOf}
}

// AsOf returns the reference date used for to-date tags.
func (r *Resolver) AsOf() date.Date { return r.asOf }

// Resolve returns the window of tag.
//
// The current position is always the last session. To-date anchors are the last session strictly
// before the first day of the bucket containing the as-of date, so that the return covers the whole
// elapsed part of the bucket.
func (r *Resolver) Resolve(tag Tag) (Window, error) {
	last := r.cal.Len() - 1
	w := Window{Tag: tag, Current: last}
	switch tag {
	case OneDay:
		w.Anchor = last - 1
	case OneYear:
		w.Anchor = last - TradingYear
	case OneWeek, MTD, QTD, YTD:
		period, _ := tag.Period()
		// When no session has been priced yet in the bucket, the anchor is the current session.
		w.Anchor = r.cal.LastBefore(r.asOf.StartOf(period))
	default:
		return Window{}, &UnsupportedPeriodError{Tag: string(tag)}
	}
	return w, nil
}
