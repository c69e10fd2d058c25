package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

const minutesPerDay = 24 * 60

// ParseClock parses "HH:MM" into minutes after midnight. "24:00" is
// accepted as end of day.
func ParseClock(hm string) (int, error) {
	parts := strings.Split(strings.TrimSpace(hm), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid clock %q", hm)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q", hm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q", hm)
	}

	total := h*60 + m
	if h < 0 || m < 0 || m > 59 || total > minutesPerDay {
		return 0, fmt.Errorf("invalid clock %q", hm)
	}
	return total, nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinuteOfDay is t's offset from the midnight of day, in t's location.
// It exceeds 1440 when t falls on a later date.
func MinuteOfDay(day, t time.Time) int {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return int(t.Sub(midnight) / time.Minute)
}

// ValidateHours checks that open < close.
func ValidateHours(openTime, closeTime string) error {
	o, err := ParseClock(openTime)
	if err != nil {
		return httperr.ErrValidation("invalid_open_time", "Open time must be HH:MM.")
	}
	c, err := ParseClock(closeTime)
	if err != nil {
		return httperr.ErrValidation("invalid_close_time", "Close time must be HH:MM.")
	}
	if o >= c {
		return httperr.ErrValidation("invalid_operating_hours", "Open time must be before close time.")
	}
	return nil
}

// OperatingWindow returns the complex's open and close instants on the date of day.
func OperatingWindow(cx *models.Complex, day time.Time) (time.Time, time.Time, error) {
	o, err := ParseClock(cx.OpenTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	c, err := ParseClock(cx.CloseTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return midnight.Add(time.Duration(o) * time.Minute), midnight.Add(time.Duration(c) * time.Minute), nil
}

// WithinOperatingHours expects start and end already in the complex's location.
func WithinOperatingHours(cx *models.Complex, start, end time.Time) (bool, error) {
	opens, closes, err := OperatingWindow(cx, start)
	if err != nil {
		return false, err
	}
	return !start.Before(opens) && !end.After(closes), nil
}
