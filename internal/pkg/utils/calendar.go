package utils

import (
	"time"

	"github.com/juju/clock"
)

// Calendar reads "now" and "today" from an injectable clock in a fixed zone.
type Calendar struct {
	clock clock.Clock
	loc   *time.Location
}

func NewCalendar(clk clock.Clock, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{clock: clk, loc: loc}
}

func (c Calendar) Now() time.Time {
	return c.clock.Now().In(c.loc)
}

// Today is the current calendar date in the calendar's zone.
func (c Calendar) Today() time.Time {
	return DateOf(c.Now())
}
