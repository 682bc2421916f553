// Package dates validates user supplied comic dates and samples random
// ones inside the range a source publishes.
package dates

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"time"
)

var (
	ErrMalformed   = errors.New("malformed date")
	ErrOutOfRange  = errors.New("date out of supported range")
	ErrEmptyWindow = errors.New("empty date window")
)

// ISO is the layout used for filenames and messages.
const ISO = "2006-01-02"

const day = 24 * time.Hour

// shape is anchored on both ends; the separator must repeat.
var shape = regexp.MustCompile(`^([0-9][0-9]|19[0-9][0-9]|20[0-9][0-9])([./-])([1-9]|0[1-9]|1[0-2])([./-])([1-9]|0[1-9]|1[0-9]|2[0-9]|3[0-1])$`)

// Window is an inclusive calendar range.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow truncates both ends to midnight UTC and rejects start > end.
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: Midnight(start), End: Midnight(end)}
	if w.End.Before(w.Start) {
		return Window{}, fmt.Errorf("window %s..%s: %w", w.Start.Format(ISO), w.End.Format(ISO), ErrEmptyWindow)
	}

	return w, nil
}

func (w Window) Contains(d time.Time) bool {
	d = Midnight(d)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days is the whole-day span End - Start.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start) / day)
}

func (w Window) String() string {
	return w.Start.Format(ISO) + ".." + w.End.Format(ISO)
}

// Midnight drops the clock part of t and moves it to UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a midnight UTC date.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Sample returns Start plus a uniform number of days in [0, Days()).
// The end date itself is never returned.
func Sample(rng *rand.Rand, w Window) (time.Time, error) {
	n := w.Days()
	if n <= 0 {
		return time.Time{}, fmt.Errorf("sample %s: %w", w, ErrEmptyWindow)
	}

	return w.Start.AddDate(0, 0, rng.IntN(n)), nil
}

// Parse checks raw against the accepted shape, then that it names a real
// calendar day, then that the day lies inside w.
func Parse(raw string, w Window) (time.Time, error) {
	m := shape.FindStringSubmatch(raw)
	if m == nil || m[2] != m[4] {
		return time.Time{}, fmt.Errorf("%q: %w", raw, ErrMalformed)
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[3])
	dom, _ := strconv.Atoi(m[5])

	d := Date(year, time.Month(month), dom)
	// time.Date normalises overflow (Feb 30 -> Mar 2); reject that.
	if d.Year() != year || int(d.Month()) != month || d.Day() != dom {
		return time.Time{}, fmt.Errorf("%q: %w", raw, ErrMalformed)
	}

	if !w.Contains(d) {
		return time.Time{}, fmt.Errorf("%s not in %s: %w", d.Format(ISO), w, ErrOutOfRange)
	}

	return d, nil
}

// Key formats d with a source specific layout (e.g. "20060102" or
// "2006/01/02").
func Key(d time.Time, layout string) string {
	return d.Format(layout)
}
