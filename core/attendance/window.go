package attendance

import (
	"strings"
	"time"

	"github.com/trezcool/registrar/core"
)

// DateLayout is the wire format of calendar days.
const DateLayout = "2006-01-02"

// ParseDay parses a calendar day. A full RFC 3339 timestamp is accepted and reduced to the day it
// names, in its own offset.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	day, err := time.Parse(DateLayout, s)
	if err == nil {
		return day, nil
	}
	ts, tsErr := time.Parse(time.RFC3339, s)
	if tsErr != nil {
		return time.Time{}, err
	}
	return truncateDay(ts), nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Window is an optional date range. A zero Start or End leaves that side unbounded.
// Both bounds are inclusive of their whole calendar day.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether day falls inside w.
func (w Window) Contains(day time.Time) bool {
	day = truncateDay(day)
	if !w.Start.IsZero() && day.Before(truncateDay(w.Start)) {
		return false
	}
	if !w.End.IsZero() && !day.Before(truncateDay(w.End).AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// ParseWindow builds a Window from two optional YYYY-MM-DD strings.
// A reversed window is accepted: it simply matches nothing.
func ParseWindow(from, to string) (Window, error) {
	var (
		w    Window
		flds []core.FieldError
		err  error
	)
	if from = strings.TrimSpace(from); from != "" {
		if w.Start, err = time.Parse(DateLayout, from); err != nil {
			flds = append(flds, core.FieldError{Field: "from", Error: "must be a date formatted YYYY-MM-DD"})
		}
	}
	if to = strings.TrimSpace(to); to != "" {
		if w.End, err = time.Parse(DateLayout, to); err != nil {
			flds = append(flds, core.FieldError{Field: "to", Error: "must be a date formatted YYYY-MM-DD"})
		}
	}
	if len(flds) > 0 {
		return Window{}, core.NewValidationError(nil, flds...)
	}
	return w, nil
}
