// Package schedule computes bookable appointment slots for a doctor and day.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a clock time expressed as minutes since midnight. It is the
// single internal representation behind the two wire formats used by the
// booking flows ("15:04" and "3:04 PM").
type TimeOfDay int

// minutesPerDay bounds a TimeOfDay; arithmetic wraps across midnight.
const minutesPerDay = 24 * 60

// ParseTimeOfDay accepts "HH:MM", "HH:MM:SS" (seconds are truncated) and
// "H:MM AM"/"H:MM PM" clock strings.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, fmt.Errorf("schedule: empty time")
	}

	meridiem := ""
	upper := strings.ToUpper(raw)
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(upper, suffix) {
			meridiem = suffix
			raw = strings.TrimSpace(raw[:len(raw)-len(suffix)])
			break
		}
	}

	parts := strings.Split(raw, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("schedule: malformed time %q", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("schedule: malformed hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("schedule: malformed minute in %q", s)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("schedule: minute out of range in %q", s)
	}

	switch meridiem {
	case "AM":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("schedule: hour out of range in %q", s)
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("schedule: hour out of range in %q", s)
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour < 0 || hour > 23 {
			return 0, fmt.Errorf("schedule: hour out of range in %q", s)
		}
	}

	return TimeOfDay(hour*60 + minute), nil
}

// AddMinutes advances the time of day, wrapping across midnight.
func (t TimeOfDay) AddMinutes(minutes int) TimeOfDay {
	total := (int(t) + minutes) % minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}
	return TimeOfDay(total)
}

// Format24 renders the time as "15:04".
func (t TimeOfDay) Format24() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Format12 renders the time as "3:04 PM".
func (t TimeOfDay) Format12() string {
	hour := int(t) / 60
	minute := int(t) % 60

	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, meridiem)
}

// AddMinutes parses a clock string, advances it and renders it back in the
// representation it arrived in: 12-hour input yields 12-hour output,
// 24-hour input yields 24-hour output.
func AddMinutes(clock string, minutes int) (string, error) {
	t, err := ParseTimeOfDay(clock)
	if err != nil {
		return "", err
	}
	t = t.AddMinutes(minutes)

	upper := strings.ToUpper(clock)
	if strings.HasSuffix(strings.TrimSpace(upper), "AM") || strings.HasSuffix(strings.TrimSpace(upper), "PM") {
		return t.Format12(), nil
	}
	return t.Format24(), nil
}

// Normalize24 reduces any accepted clock string to canonical "HH:MM".
// Seconds carried by database time columns are dropped.
func Normalize24(clock string) (string, error) {
	t, err := ParseTimeOfDay(clock)
	if err != nil {
		return "", err
	}
	return t.Format24(), nil
}
