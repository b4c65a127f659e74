package history

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownMonth indicates a month name not present in the lookup table.
var ErrUnknownMonth = errors.New("unknown month name")

// monthNumbers maps Ukrainian genitive month names, as rendered by the
// history feed, to month numbers. Date parsing must not depend on ambient
// locale state, so the table is explicit.
var monthNumbers = map[string]time.Month{
	"січня":     time.January,
	"лютого":    time.February,
	"березня":   time.March,
	"квітня":    time.April,
	"травня":    time.May,
	"червня":    time.June,
	"липня":     time.July,
	"серпня":    time.August,
	"вересня":   time.September,
	"жовтня":    time.October,
	"листопада": time.November,
	"грудня":    time.December,
}

// monthGenitiveNames lists the same names indexed by month for rendering
// dates back into the source language.
var monthGenitiveNames = [...]string{
	time.January:   "січня",
	time.February:  "лютого",
	time.March:     "березня",
	time.April:     "квітня",
	time.May:       "травня",
	time.June:      "червня",
	time.July:      "липня",
	time.August:    "серпня",
	time.September: "вересня",
	time.October:   "жовтня",
	time.November:  "листопада",
	time.December:  "грудня",
}

// MonthGenitive returns the Ukrainian genitive name of a month, as used in
// "15 січня 2023" date labels.
func MonthGenitive(month time.Month) string {
	return monthGenitiveNames[month]
}

// monthNumber resolves a feed month name to its month number.
func monthNumber(name string) (time.Month, error) {
	month, ok := monthNumbers[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, name)
	}

	return month, nil
}

// normalizeTimestamp builds an absolute timestamp from localized date parts
// and shifts it by the local UTC offset so every version shares one
// reference zone.
func normalizeTimestamp(day int, monthName string, year, hour, minute int, utcOffset time.Duration) (time.Time, error) {
	month, err := monthNumber(monthName)
	if err != nil {
		return time.Time{}, err
	}

	ts := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)

	return ts.Add(utcOffset), nil
}
