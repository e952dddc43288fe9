package search

import (
	"fmt"
	"time"
)

// Day is a one day search interval
type Day struct {
	Since string
	Until string
}

// Window is an inclusive range of calendar days
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow parses start and end and checks their order
func NewWindow(start, end string) (Window, error) {
	s, err := ParseDay(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseDay(end)
	if err != nil {
		return Window{}, err
	}
	w := Window{Start: s, End: e}
	if w.End.Before(w.Start) {
		return Window{}, fmt.Errorf("window end %s is before start %s", end, start)
	}
	return w, nil
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Len returns the number of days in the window, both ends included
func (w Window) Len() int {
	start, end := truncate(w.Start), truncate(w.End)
	if end.Before(start) {
		return 0
	}
	n := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// Days lists each day of the window with its following day as the upper bound
func (w Window) Days() []Day {
	start, end := truncate(w.Start), truncate(w.End)
	var days []Day
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, Day{
			Since: FormatDay(d),
			Until: FormatDay(d.AddDate(0, 0, 1)),
		})
	}
	return days
}
