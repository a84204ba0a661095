package normalize

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/omriav/credit-analyzer/internal/models"
)

// ErrInvalidDate is returned when a cell matches none of the accepted
// date conventions or falls outside the accepted year range.
var ErrInvalidDate = errors.New("invalid date")

const (
	minYear = 2000
	maxYear = 2100
)

// serialEpoch is day 0 of the spreadsheet day-count convention.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// D/M/Y, D.M.Y or D-M-Y, optionally followed by a time of day.
var dayMonthYear = regexp.MustCompile(`^(\d{1,2})([/.\-])(\d{1,2})([/.\-])(\d{4}|\d{2})(?:\s+.*)?$`)

// ParseDate resolves a raw date cell to a calendar date at UTC midnight.
// Accepted forms, in order: a time.Time value, a spreadsheet day serial,
// a D/M/Y style string (round-trip validated), and finally any calendar
// string dateparse understands, including M/D/Y strings the D/M/Y form
// rejects. Serials and strings must land in
// 2000..2100.
func ParseDate(c models.Cell) (time.Time, error) {
	switch v := c.(type) {
	case nil:
		return time.Time{}, ErrInvalidDate
	case time.Time:
		if v.IsZero() {
			return time.Time{}, ErrInvalidDate
		}
		return dateOf(v), nil
	case float64:
		return fromSerial(v)
	case float32:
		return fromSerial(float64(v))
	case int:
		return fromSerial(float64(v))
	case int64:
		return fromSerial(float64(v))
	case string:
		return parseDateText(v)
	default:
		return parseDateText(models.CellText(v))
	}
}

// MonthKey returns the YYYY-MM bucket key of t.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

func fromSerial(serial float64) (time.Time, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, ErrInvalidDate
	}
	// a fraction is the time of day
	days := int(math.Floor(serial))
	t := serialEpoch.AddDate(0, 0, days)
	if !inRange(t.Year()) {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func parseDateText(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}

	// A D/M/Y match that fails validation may still be a valid M/D/Y
	// string, so it falls through to the generic parse.
	if m := dayMonthYear.FindStringSubmatch(s); m != nil && m[2] == m[4] {
		if t, err := fromParts(m[1], m[3], m[5]); err == nil {
			return t, nil
		}
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil || !inRange(t.Year()) {
		return time.Time{}, ErrInvalidDate
	}
	return dateOf(t), nil
}

func fromParts(dayText, monthText, yearText string) (time.Time, error) {
	day, _ := strconv.Atoi(dayText)
	month, _ := strconv.Atoi(monthText)
	year, _ := strconv.Atoi(yearText)
	if len(yearText) == 2 {
		year += 2000
	}

	if day < 1 || day > 31 || month < 1 || month > 12 || !inRange(year) {
		return time.Time{}, ErrInvalidDate
	}

	// time.Date normalizes overflow (31/02 becomes 02/03), so the
	// components must survive a round trip.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func inRange(year int) bool {
	return year >= minYear && year <= maxYear
}
