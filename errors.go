package heatmap

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCalendar is returned when there is no trading date to build a Calendar from.
	ErrEmptyCalendar = errors.New("empty calendar: no trading dates")
	// ErrUnsupportedPeriod matches every *UnsupportedPeriodError.
	ErrUnsupportedPeriod = errors.New("unsupported period")
	// ErrInsufficientHistory matches every *InsufficientHistoryError.
	ErrInsufficientHistory = errors.New("insufficient history")
)

// UnsupportedPeriodError reports an unknown period tag.
type UnsupportedPeriodError struct {
	Tag string
}

func (e *UnsupportedPeriodError) Error() string {
	return fmt.Sprintf("unsupported period %q: want one of %v", e.Tag, Tags)
}

func (e *UnsupportedPeriodError) Is(target error) bool { return target == ErrUnsupportedPeriod }

// InsufficientHistoryError reports a window reaching before the first available session.
type InsufficientHistoryError struct {
	Tag  Tag
	Rows int // number of sessions available
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history for %s: %d rows available", e.Tag, e.Rows)
}

func (e *InsufficientHistoryError) Is(target error) bool { return target == ErrInsufficientHistory }
