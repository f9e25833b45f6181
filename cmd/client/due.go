package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var dueParser = newDueParser()

func newDueParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// dueMarker is the nanosecond set on the parse base. A rule that sets the
// clock time zeroes it, which tells a specific time from a bare day.
const dueMarker = 1

// parseDue reads a due date such as "2026-06-02", "2026-06-02 17:30",
// "tomorrow" or "next friday 5pm". It reports whether a time of day was
// given.
func parseDue(text string, now time.Time) (time.Time, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false, fmt.Errorf("empty due date")
	}

	if t, err := time.ParseInLocation("2006-01-02 15:04", text, now.Location()); err == nil {
		return t, true, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", text, now.Location()); err == nil {
		return t, false, nil
	}

	base := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, dueMarker, now.Location())
	r, err := dueParser.Parse(text, base)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse due date %q: %w", text, err)
	}
	if r == nil {
		return time.Time{}, false, fmt.Errorf("cannot understand due date %q", text)
	}

	hasTime := r.Time.Nanosecond() != dueMarker || r.Time.Hour() != 0 || r.Time.Minute() != 0
	return r.Time, hasTime, nil
}
