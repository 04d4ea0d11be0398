package heatmap

import (
	"slices"
	"time"

	"github.com/etnz/heatmap/date"
)

// ExtraYTDOdds is the probability for an extra YTD report on any given day: about two per month.
const ExtraYTDOdds = 24.0 / 360.0

// Due returns the tags to publish on asOf:
//   - 1D when asOf is a trading session,
//   - 1W on Saturdays,
//   - MTD, QTD and YTD on the last day of the month, quarter or year.
//
// An extra YTD is published when draw returns a value below ExtraYTDOdds. A nil draw never does.
// Tags are returned shortest window first, without duplicates.
func Due(cal *Calendar, asOf date.Date, draw func() float64) []Tag {
	var due []Tag
	if cal.Contains(asOf) {
		due = append(due, OneDay)
	}
	if asOf.Weekday() == time.Saturday {
		due = append(due, OneWeek)
	}
	if asOf == asOf.EndOf(date.Monthly) {
		due = append(due, MTD)
	}
	if asOf == asOf.EndOf(date.Quarterly) {
		due = append(due, QTD)
	}
	if asOf == asOf.EndOf(date.Yearly) {
		due = append(due, YTD)
	}
	if draw != nil && draw() < ExtraYTDOdds && !slices.Contains(due, YTD) {
		due = append(due, YTD)
	}
	return due
}
